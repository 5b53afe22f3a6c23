// Package handlers exposes the day tracker's REST endpoints.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses
// and idempotent replays). Business rules live in internal/services.
package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/domain"
	"github.com/tbourn/go-day-tracker/internal/http/middleware"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/services"
	"github.com/tbourn/go-day-tracker/internal/utils"
)

//
// Service contracts (context-aware)
//

// RecordService defines daily record and entry operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type RecordService interface {
	Create(ctx context.Context, userID string, in services.RecordInput) (*domain.DailyRecord, error)
	Get(ctx context.Context, userID, id string) (*domain.DailyRecord, error)
	ListPage(ctx context.Context, userID string, rng repo.DateRange, page, pageSize int) ([]domain.DailyRecord, int64, error)
	Delete(ctx context.Context, userID, id string) error

	AddMeal(ctx context.Context, userID, recordID string, in services.MealInput) (*domain.Meal, error)
	AddActivity(ctx context.Context, userID, recordID string, in services.ActivityInput) (*domain.Activity, error)
	AddMood(ctx context.Context, userID, recordID string, in services.MoodInput) (*domain.MoodEvent, error)
	ListMeals(ctx context.Context, userID, recordID string) ([]domain.Meal, error)
	ListActivities(ctx context.Context, userID, recordID string) ([]domain.Activity, error)
	ListMoods(ctx context.Context, userID, recordID string) ([]domain.MoodEvent, error)
}

// AnalyticsService defines the read-side analytics and model operations.
type AnalyticsService interface {
	Features(ctx context.Context, userID string, from, to *time.Time) ([]analytics.DayFeatures, error)
	Correlations(ctx context.Context, userID string, from, to *time.Time) ([]analytics.FactorCorrelation, error)
	Recommendations(ctx context.Context, userID string, from, to *time.Time) (*services.Recommendations, error)
	Overview(ctx context.Context, userID string, from, to *time.Time) (analytics.Overview, error)
	Daily(ctx context.Context, userID string, date time.Time) (analytics.DaySnapshot, error)
	Weekly(ctx context.Context, userID string, start time.Time) (*services.WeeklyReport, error)
	Train(ctx context.Context, userID string, from, to *time.Time) (analytics.FitReport, error)
	Predict(ctx context.Context, userID string, values map[string]float64) (float64, error)
	Model(userID string) (analytics.FitReport, bool)
}

//
// Handler wiring
//

// defaultIdempotencyTTL bounds how long a stored Idempotency-Key replays.
const defaultIdempotencyTTL = 24 * time.Hour

// Handlers groups HTTP endpoints for records, entries, and analytics.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	recordSvc    RecordService
	analyticsSvc AnalyticsService

	// IdempotencyTTL is how long a successful POST /records stays replayable.
	IdempotencyTTL time.Duration
	// MaxPageSize caps page_size on list endpoints.
	MaxPageSize int
}

// New constructs and returns a Handlers instance bound to the given services.
func New(recordSvc RecordService, analyticsSvc AnalyticsService) *Handlers {
	return &Handlers{
		recordSvc:      recordSvc,
		analyticsSvc:   analyticsSvc,
		IdempotencyTTL: defaultIdempotencyTTL,
		MaxPageSize:    100,
	}
}

// userID returns the caller resolved by the Identity middleware.
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

// recordDB exposes the concrete service's handle for best-effort ETag and
// idempotency bookkeeping. It is nil for test doubles.
func (h *Handlers) recordDB() *gorm.DB {
	if svc, ok := h.recordSvc.(*services.RecordService); ok {
		return svc.DB
	}
	return nil
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	pages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func (h *Handlers) clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
	)
	maxPageSize := h.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	page = max(utils.AtoiDefault(c.Query("page"), defaultPage), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// parseDay parses a calendar date. It accepts YYYY-MM-DD as well as any
// timestamp layout the analytics package understands.
func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	ts, err := analytics.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, services.ErrMissingField
	}
	return ts.Time, nil
}

// parseOptionalTime converts an optional JSON string into an instant. Absent
// or blank values yield nil; malformed values are an error.
func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	ts, err := analytics.ParseTimestamp(*s)
	if err != nil {
		return nil, err
	}
	return ts.Ptr(), nil
}

// dateRangeQuery reads the optional from/to query parameters.
func dateRangeQuery(c *gin.Context) (from, to *time.Time, err error) {
	if v := c.Query("from"); v != "" {
		t, err := parseDay(v)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := parseDay(v)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
