// Package services – RecordService
//
// This file implements RecordService, which owns the lifecycle of daily
// records and the meals, activities and mood events logged against them. It
// validates inputs (ratings, enumerations, time spans), normalizes record
// dates to calendar days, enforces ownership on every child operation and
// coordinates bulk export/import of a user's data.
//
// Service-level errors (e.g., ErrRecordNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include record/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/domain"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Rating bounds shared by every 1..10 field.
const (
	minRating = 1
	maxRating = 10
)

var (
	mealTypes    = map[string]bool{"breakfast": true, "lunch": true, "dinner": true, "snack": true}
	portionSizes = map[string]bool{"small": true, "medium": true, "large": true}
)

// RecordRepo defines the repository contract required by RecordService.
// Implementations are responsible for persistence of records and entries.
type RecordRepo interface {
	// CreateRecord inserts a record; a second record for (user, date) fails
	// with repo.ErrDuplicate.
	CreateRecord(ctx context.Context, db *gorm.DB, rec *domain.DailyRecord) error

	// GetRecord fetches a record by ID ensuring it belongs to the user.
	GetRecord(ctx context.Context, db *gorm.DB, id, userID string) (*domain.DailyRecord, error)

	// ListRecords returns a page of the user's records within rng.
	ListRecords(ctx context.Context, db *gorm.DB, userID string, rng repo.DateRange, offset, limit int) ([]domain.DailyRecord, error)

	// CountRecords returns the number of records within rng for pagination.
	CountRecords(ctx context.Context, db *gorm.DB, userID string, rng repo.DateRange) (int64, error)

	// DeleteRecord removes a record and its entries.
	DeleteRecord(ctx context.Context, db *gorm.DB, id, userID string) error

	CreateMeal(ctx context.Context, db *gorm.DB, m *domain.Meal) error
	CreateActivity(ctx context.Context, db *gorm.DB, a *domain.Activity) error
	CreateMoodEvent(ctx context.Context, db *gorm.DB, e *domain.MoodEvent) error

	ListMeals(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Meal, error)
	ListActivities(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.Activity, error)
	ListMoodEvents(ctx context.Context, db *gorm.DB, recordIDs ...string) ([]domain.MoodEvent, error)

	// LoadDataset reads records within rng together with all of their entries.
	LoadDataset(ctx context.Context, db *gorm.DB, userID string, rng repo.DateRange) (*repo.Dataset, error)

	// ImportDataset inserts a dataset atomically.
	ImportDataset(ctx context.Context, db *gorm.DB, userID string, ds *repo.Dataset) error
}

// RecordInput carries the client-supplied fields of a daily record.
// A zero Date means "today".
type RecordInput struct {
	Date             time.Time
	WakeUpTime       *time.Time
	SleepTime        *time.Time
	SleepQuality     *float64
	OverallMood      *float64
	PhysicalWellness *float64
	MentalWellness   *float64
	Notes            string
}

// MealInput carries the client-supplied fields of a meal.
type MealInput struct {
	MealTime     *time.Time
	MealType     string
	FoodItems    []string
	PortionSize  string
	TasteRating  *float64
	HealthRating *float64
}

// ActivityInput carries the client-supplied fields of an activity.
type ActivityInput struct {
	ActivityType    string
	StartTime       *time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Intensity       *float64
	Location        string
	Description     string
	EnjoymentRating *float64
}

// MoodInput carries the client-supplied fields of a mood event. A nil
// Timestamp is stamped with the current time.
type MoodInput struct {
	Timestamp *time.Time
	Emotion   string
	Intensity *float64
	Triggers  string
	Notes     string
}

// ImportSummary reports how many rows an import wrote and how many entries it
// skipped because their record was not part of the file.
type ImportSummary struct {
	Records    int `json:"records"`
	Meals      int `json:"meals"`
	Activities int `json:"activities"`
	Moods      int `json:"moods"`
	Skipped    int `json:"skipped"`
}

// RecordService provides record-level operations and the entry operations
// that hang off a record. It validates inputs and ensures ownership
// constraints.
type RecordService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the record repository used by this service.
	Repo RecordRepo

	// MaxPageSize caps page sizes requested by callers.
	MaxPageSize int
	// Now returns the current time; tests override it.
	Now func() time.Time
}

// NewRecordService constructs a RecordService with sane defaults.
func NewRecordService(db *gorm.DB, r RecordRepo) *RecordService {
	return &RecordService{
		DB:          db,
		Repo:        r,
		MaxPageSize: 100,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *RecordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Create validates in and inserts a record for userID on in.Date's calendar
// day. A second record for the same day yields ErrDuplicateRecord.
func (s *RecordService) Create(ctx context.Context, userID string, in RecordInput) (*domain.DailyRecord, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if err := checkRatings(in.SleepQuality, in.OverallMood, in.PhysicalWellness, in.MentalWellness); err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	rec := &domain.DailyRecord{
		UserID:           userID,
		Date:             DayOf(date),
		WakeUpTime:       utcPtr(in.WakeUpTime),
		SleepTime:        utcPtr(in.SleepTime),
		SleepQuality:     in.SleepQuality,
		OverallMood:      in.OverallMood,
		PhysicalWellness: in.PhysicalWellness,
		MentalWellness:   in.MentalWellness,
		Notes:            strings.TrimSpace(in.Notes),
	}
	if err := s.Repo.CreateRecord(ctx, s.DB, rec); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateRecord
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("record.id", rec.ID))
	return rec, nil
}

// Get returns the record with id owned by userID.
func (s *RecordService) Get(ctx context.Context, userID, id string) (*domain.DailyRecord, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("record.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	return s.owned(ctx, userID, id)
}

// ListPage returns a page of the user's records within rng (date ascending)
// and the total number of matching records. Invalid page/pageSize fall back
// to defaults; pageSize is capped at MaxPageSize.
func (s *RecordService) ListPage(ctx context.Context, userID string, rng repo.DateRange, page, pageSize int) ([]domain.DailyRecord, int64, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return nil, 0, ErrInvalidRange
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if s.MaxPageSize > 0 && pageSize > s.MaxPageSize {
		pageSize = s.MaxPageSize
	}
	offset := utils.Offset(page, pageSize)

	total, err := s.Repo.CountRecords(ctx, s.DB, userID, rng)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.DailyRecord{}, 0, nil
	}

	items, err := s.Repo.ListRecords(ctx, s.DB, userID, rng, offset, pageSize)
	return items, total, err
}

// Delete removes the record and every entry logged against it.
func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("record.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if err := s.Repo.DeleteRecord(ctx, s.DB, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

// AddMeal validates in and logs a meal against the user's record. Portion
// size defaults to "medium".
func (s *RecordService) AddMeal(ctx context.Context, userID, recordID string, in MealInput) (*domain.Meal, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "AddMeal",
		trace.WithAttributes(
			attribute.String("record.id", recordID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	m, err := s.buildMeal(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	m.DailyRecordID = recordID
	if err := s.Repo.CreateMeal(ctx, s.DB, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddActivity validates in and logs an activity against the user's record.
// When DurationMinutes is absent and both ends are known, the duration is
// derived from the span.
func (s *RecordService) AddActivity(ctx context.Context, userID, recordID string, in ActivityInput) (*domain.Activity, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "AddActivity",
		trace.WithAttributes(
			attribute.String("record.id", recordID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	a, err := buildActivity(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	a.DailyRecordID = recordID
	if err := s.Repo.CreateActivity(ctx, s.DB, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AddMood validates in and logs a mood event against the user's record.
func (s *RecordService) AddMood(ctx context.Context, userID, recordID string, in MoodInput) (*domain.MoodEvent, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "AddMood",
		trace.WithAttributes(
			attribute.String("record.id", recordID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	e, err := s.buildMood(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	e.DailyRecordID = recordID
	if err := s.Repo.CreateMoodEvent(ctx, s.DB, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListMeals returns the meals of the user's record in meal time order.
func (s *RecordService) ListMeals(ctx context.Context, userID, recordID string) ([]domain.Meal, error) {
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	return s.Repo.ListMeals(ctx, s.DB, recordID)
}

// ListActivities returns the activities of the user's record.
func (s *RecordService) ListActivities(ctx context.Context, userID, recordID string) ([]domain.Activity, error) {
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	return s.Repo.ListActivities(ctx, s.DB, recordID)
}

// ListMoods returns the mood events of the user's record.
func (s *RecordService) ListMoods(ctx context.Context, userID, recordID string) ([]domain.MoodEvent, error) {
	if _, err := s.owned(ctx, userID, recordID); err != nil {
		return nil, err
	}
	return s.Repo.ListMoodEvents(ctx, s.DB, recordID)
}

// Export returns the user's records within rng and all of their entries in
// the analytics interchange shape.
func (s *RecordService) Export(ctx context.Context, userID string, rng repo.DateRange) (*analytics.Dataset, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Export",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	ds, err := s.Repo.LoadDataset(ctx, s.DB, userID, rng)
	if err != nil {
		return nil, err
	}
	out := toAnalytics(ds)
	span.SetAttributes(attribute.Int("records", len(out.Records)))
	return &out, nil
}

// Import validates every row of in and inserts the whole file for userID in
// one transaction. Entries whose record is not part of the file are skipped;
// any invalid row or duplicate date rejects the import.
func (s *RecordService) Import(ctx context.Context, userID string, in *analytics.Dataset) (ImportSummary, error) {
	tr := otel.Tracer("services/RecordService")
	ctx, span := tr.Start(ctx, "Import",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var sum ImportSummary
	if in == nil {
		return sum, nil
	}

	ds := &repo.Dataset{}
	known := make(map[string]bool, len(in.Records))
	for _, r := range in.Records {
		if strings.TrimSpace(r.ID) == "" {
			return ImportSummary{}, ErrMissingField
		}
		rec := RecordInput{
			Date:             r.Date,
			WakeUpTime:       r.WakeUpTime.Ptr(),
			SleepTime:        r.SleepTime.Ptr(),
			SleepQuality:     r.SleepQuality,
			OverallMood:      r.OverallMood,
			PhysicalWellness: r.PhysicalWellness,
			MentalWellness:   r.MentalWellness,
			Notes:            r.Notes,
		}
		if err := checkRatings(rec.SleepQuality, rec.OverallMood, rec.PhysicalWellness, rec.MentalWellness); err != nil {
			return ImportSummary{}, err
		}
		if rec.Date.IsZero() {
			return ImportSummary{}, ErrMissingField
		}
		ds.Records = append(ds.Records, domain.DailyRecord{
			ID:               r.ID,
			UserID:           userID,
			Date:             DayOf(rec.Date),
			WakeUpTime:       utcPtr(rec.WakeUpTime),
			SleepTime:        utcPtr(rec.SleepTime),
			SleepQuality:     rec.SleepQuality,
			OverallMood:      rec.OverallMood,
			PhysicalWellness: rec.PhysicalWellness,
			MentalWellness:   rec.MentalWellness,
			Notes:            strings.TrimSpace(rec.Notes),
		})
		known[r.ID] = true
	}

	for _, m := range in.Meals {
		if !known[m.DailyRecordID] {
			sum.Skipped++
			continue
		}
		row, err := s.buildMeal(MealInput{
			MealTime:     m.MealTime.Ptr(),
			MealType:     m.MealType,
			FoodItems:    m.FoodItems,
			PortionSize:  m.PortionSize,
			TasteRating:  m.TasteRating,
			HealthRating: m.HealthRating,
		})
		if err != nil {
			return ImportSummary{}, err
		}
		row.ID, row.DailyRecordID = m.ID, m.DailyRecordID
		ds.Meals = append(ds.Meals, *row)
	}
	for _, a := range in.Activities {
		if !known[a.DailyRecordID] {
			sum.Skipped++
			continue
		}
		row, err := buildActivity(ActivityInput{
			ActivityType:    a.ActivityType,
			StartTime:       a.StartTime.Ptr(),
			EndTime:         a.EndTime.Ptr(),
			DurationMinutes: a.DurationMinutes,
			Intensity:       a.Intensity,
			Location:        a.Location,
			Description:     a.Description,
			EnjoymentRating: a.EnjoymentRating,
		})
		if err != nil {
			return ImportSummary{}, err
		}
		row.ID, row.DailyRecordID = a.ID, a.DailyRecordID
		ds.Activities = append(ds.Activities, *row)
	}
	for _, e := range in.Moods {
		if !known[e.DailyRecordID] {
			sum.Skipped++
			continue
		}
		row, err := s.buildMood(MoodInput{
			Timestamp: e.Timestamp.Ptr(),
			Emotion:   e.Emotion,
			Intensity: e.Intensity,
			Triggers:  e.Triggers,
			Notes:     e.Notes,
		})
		if err != nil {
			return ImportSummary{}, err
		}
		row.ID, row.DailyRecordID = e.ID, e.DailyRecordID
		ds.Moods = append(ds.Moods, *row)
	}

	if err := s.Repo.ImportDataset(ctx, s.DB, userID, ds); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return ImportSummary{}, ErrDuplicateRecord
		}
		return ImportSummary{}, err
	}
	sum.Records = len(ds.Records)
	sum.Meals = len(ds.Meals)
	sum.Activities = len(ds.Activities)
	sum.Moods = len(ds.Moods)
	span.SetAttributes(attribute.Int("records", sum.Records))
	return sum, nil
}

// owned fetches the record and maps a miss to ErrRecordNotFound.
func (s *RecordService) owned(ctx context.Context, userID, id string) (*domain.DailyRecord, error) {
	rec, err := s.Repo.GetRecord(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *RecordService) buildMeal(in MealInput) (*domain.Meal, error) {
	mealType := strings.ToLower(strings.TrimSpace(in.MealType))
	if mealType == "" {
		return nil, ErrMissingField
	}
	if !mealTypes[mealType] {
		return nil, ErrInvalidMealType
	}
	portion := strings.ToLower(strings.TrimSpace(in.PortionSize))
	if portion == "" {
		portion = "medium"
	}
	if !portionSizes[portion] {
		return nil, ErrInvalidPortionSize
	}
	if err := checkRatings(in.TasteRating, in.HealthRating); err != nil {
		return nil, err
	}
	mealTime := utcPtr(in.MealTime)
	if mealTime == nil {
		t := s.now()
		mealTime = &t
	}
	return &domain.Meal{
		MealTime:     mealTime,
		MealType:     mealType,
		FoodItems:    domain.FoodItemsJSON(cleanFoods(in.FoodItems)),
		PortionSize:  portion,
		TasteRating:  in.TasteRating,
		HealthRating: in.HealthRating,
	}, nil
}

func buildActivity(in ActivityInput) (*domain.Activity, error) {
	kind := strings.TrimSpace(in.ActivityType)
	if kind == "" {
		return nil, ErrMissingField
	}
	if err := checkRatings(in.Intensity, in.EnjoymentRating); err != nil {
		return nil, err
	}
	start, end := utcPtr(in.StartTime), utcPtr(in.EndTime)
	if start != nil && end != nil && end.Before(*start) {
		return nil, ErrInvalidTimeRange
	}
	dur := in.DurationMinutes
	if dur != nil && *dur < 0 {
		return nil, ErrInvalidTimeRange
	}
	if dur == nil && start != nil && end != nil {
		m := int(end.Sub(*start) / time.Minute)
		dur = &m
	}
	return &domain.Activity{
		ActivityType:    kind,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: dur,
		Intensity:       in.Intensity,
		Location:        strings.TrimSpace(in.Location),
		Description:     strings.TrimSpace(in.Description),
		EnjoymentRating: in.EnjoymentRating,
	}, nil
}

func (s *RecordService) buildMood(in MoodInput) (*domain.MoodEvent, error) {
	emotion := strings.ToLower(strings.TrimSpace(in.Emotion))
	if emotion == "" || in.Intensity == nil {
		return nil, ErrMissingField
	}
	if err := checkRatings(in.Intensity); err != nil {
		return nil, err
	}
	ts := utcPtr(in.Timestamp)
	if ts == nil {
		t := s.now()
		ts = &t
	}
	return &domain.MoodEvent{
		Timestamp: ts,
		Emotion:   emotion,
		Intensity: in.Intensity,
		Triggers:  strings.TrimSpace(in.Triggers),
		Notes:     strings.TrimSpace(in.Notes),
	}, nil
}

// DayOf truncates t to midnight UTC of its calendar date in t's own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// checkRatings rejects any present value outside 1..10.
func checkRatings(vals ...*float64) error {
	for _, v := range vals {
		if v != nil && (*v < minRating || *v > maxRating) {
			return ErrInvalidRating
		}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// cleanFoods trims items and drops blanks.
func cleanFoods(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

// toAnalytics converts stored rows into analytics inputs.
func toAnalytics(ds *repo.Dataset) analytics.Dataset {
	out := analytics.Dataset{
		Records:    make([]analytics.DailyRecord, 0, len(ds.Records)),
		Meals:      make([]analytics.Meal, 0, len(ds.Meals)),
		Activities: make([]analytics.Activity, 0, len(ds.Activities)),
		Moods:      make([]analytics.MoodEvent, 0, len(ds.Moods)),
	}
	for _, r := range ds.Records {
		out.Records = append(out.Records, r.Analytics())
	}
	for _, m := range ds.Meals {
		out.Meals = append(out.Meals, m.Analytics())
	}
	for _, a := range ds.Activities {
		out.Activities = append(out.Activities, a.Analytics())
	}
	for _, e := range ds.Moods {
		out.Moods = append(out.Moods, e.Analytics())
	}
	return out
}
