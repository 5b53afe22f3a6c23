// Daily record HTTP handlers.
//
// This file exposes REST endpoints for daily records:
//   - POST   /records        (create, idempotent with Idempotency-Key)
//   - GET    /records        (list by date range, paginated, ETag support)
//   - GET    /records/{id}   (record with its meals, activities and moods)
//   - DELETE /records/{id}   (delete with all entries)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// POST /records exists for (user, scope, key), the handler returns the record
// created the first time and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-day-tracker/internal/domain"
	"github.com/tbourn/go-day-tracker/internal/http/middleware"
	"github.com/tbourn/go-day-tracker/internal/repo"
	"github.com/tbourn/go-day-tracker/internal/services"
)

//
// DTOs
//

// CreateRecordRequest is the JSON payload for creating a daily record.
// Timestamps accept RFC3339 and the "2006-01-02 15:04[:05]" layouts.
type CreateRecordRequest struct {
	// Date is the calendar day (YYYY-MM-DD). Defaults to today.
	Date string `json:"date" example:"2024-03-01"`
	// WakeUpTime is when the user got up.
	WakeUpTime *string `json:"wake_up_time,omitempty" example:"2024-03-01T07:30:00Z"`
	// SleepTime is when the user went to bed.
	SleepTime *string `json:"sleep_time,omitempty" example:"2024-02-29T23:00:00Z"`
	// Ratings on a 1..10 scale.
	SleepQuality     *float64 `json:"sleep_quality,omitempty" example:"7"`
	OverallMood      *float64 `json:"overall_mood,omitempty" example:"8"`
	PhysicalWellness *float64 `json:"physical_wellness,omitempty" example:"6"`
	MentalWellness   *float64 `json:"mental_wellness,omitempty" example:"7"`
	Notes            string   `json:"notes" binding:"max=4000" example:"Long walk after lunch"`
}

// ListRecordsResponse wraps a page of records and pagination information.
type ListRecordsResponse struct {
	Records    []domain.DailyRecord `json:"records"`
	Pagination Pagination           `json:"pagination"`
}

// RecordDetailResponse is a record with every entry logged against it.
type RecordDetailResponse struct {
	Record     *domain.DailyRecord `json:"record"`
	Meals      []domain.Meal       `json:"meals"`
	Activities []domain.Activity   `json:"activities"`
	Moods      []domain.MoodEvent  `json:"moods"`
}

func (r CreateRecordRequest) input() (services.RecordInput, error) {
	in := services.RecordInput{
		SleepQuality:     r.SleepQuality,
		OverallMood:      r.OverallMood,
		PhysicalWellness: r.PhysicalWellness,
		MentalWellness:   r.MentalWellness,
		Notes:            r.Notes,
	}
	if strings.TrimSpace(r.Date) != "" {
		d, err := parseDay(r.Date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	var err error
	if in.WakeUpTime, err = parseOptionalTime(r.WakeUpTime); err != nil {
		return in, err
	}
	if in.SleepTime, err = parseOptionalTime(r.SleepTime); err != nil {
		return in, err
	}
	return in, nil
}

//
// Handlers
//

// CreateRecord godoc
// @ID          createRecord
// @Summary     Create a daily record
// @Description Creates the current user's record for a calendar day. One record per day.
// @Description Supports idempotency via the Idempotency-Key header (same key → same record).
// @Tags        Records
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateRecordRequest  true  "Daily record payload"
//
// @Success     201  {object}  domain.DailyRecord
// @Success     200  {object}  domain.DailyRecord      "Replayed result"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "A record already exists for this date"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /records [post]
func (h *Handlers) CreateRecord(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	in, err := req.input()
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (replay path).
	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	db := h.recordDB()
	if idemKey != "" && db != nil {
		if rec, err := repo.GetIdempotency(ctx, db, uid, scope, idemKey, time.Now().UTC()); err == nil {
			if prev, err := h.recordSvc.Get(ctx, uid, rec.ResourceID); err == nil {
				c.Header(middleware.HeaderIdempotencyReplayed, "true")
				ok(c, http.StatusOK, prev)
				return
			}
		}
	}

	rec, err := h.recordSvc.Create(ctx, uid, in)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (store path), best effort.
	if idemKey != "" && db != nil {
		if _, err := repo.CreateIdempotency(ctx, db, uid, scope, idemKey, rec.ID, http.StatusCreated, h.IdempotencyTTL); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("store idempotency key")
		}
	}

	c.Header("Location", fmt.Sprintf("%s/%s", strings.TrimSuffix(c.Request.URL.Path, "/"), rec.ID))
	ok(c, http.StatusCreated, rec)
}

// ListRecords godoc
// @ID          listRecords
// @Summary     List daily records (paginated)
// @Description Returns a page of the user's records, oldest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Records
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       from           query   string  false "First day (inclusive)"       example(2024-03-01)
// @Param       to             query   string  false "Last day (inclusive)"        example(2024-03-31)
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListRecordsResponse
// @Header      200  {string} ETag           "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records [get]
func (h *Handlers) ListRecords(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := h.clampPagination(c)

	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	var rng repo.DateRange
	if from != nil {
		f := services.DayOf(*from)
		rng.From = &f
	}
	if to != nil {
		t := services.DayOf(*to)
		rng.To = &t
	}

	// ETag pre-check (best effort). The tag covers the user's whole record set
	// plus the query, so any write invalidates every cached page.
	if db := h.recordDB(); db != nil {
		count, maxTS, err := repo.RecordsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"records:%s:%d:%d:%s"`, uid, count, ts, c.Request.URL.RawQuery)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.recordSvc.ListPage(ctx, uid, rng, page, pageSize)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListRecordsResponse{
		Records:    items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetRecord godoc
// @ID          getRecord
// @Summary     Get a daily record
// @Description Returns one of the user's records together with its meals, activities and mood events.
// @Tags        Records
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
//
// @Success     200  {object} handlers.RecordDetailResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id} [get]
func (h *Handlers) GetRecord(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	id, okID := recordIDParam(c)
	if !okID {
		return
	}

	rec, err := h.recordSvc.Get(ctx, uid, id)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	meals, err := h.recordSvc.ListMeals(ctx, uid, id)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	acts, err := h.recordSvc.ListActivities(ctx, uid, id)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	moods, err := h.recordSvc.ListMoods(ctx, uid, id)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, RecordDetailResponse{Record: rec, Meals: meals, Activities: acts, Moods: moods})
}

// DeleteRecord godoc
// @ID          deleteRecord
// @Summary     Delete a daily record
// @Description Deletes one of the user's records and every entry logged against it.
// @Tags        Records
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id} [delete]
func (h *Handlers) DeleteRecord(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	if err := h.recordSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}

// recordIDParam reads and validates the :id path parameter, writing a 400
// when it is not a UUID.
func recordIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a UUID")
		return "", false
	}
	return id, true
}
