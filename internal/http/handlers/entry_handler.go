// Entry HTTP handlers.
//
// This file exposes REST endpoints for the entries logged against a record:
//   - POST/GET /records/{id}/meals
//   - POST/GET /records/{id}/activities
//   - POST/GET /records/{id}/moods
//
// Every endpoint checks that the record belongs to the caller; a record owned
// by someone else is reported as not found.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-day-tracker/internal/domain"
	"github.com/tbourn/go-day-tracker/internal/services"
)

//
// DTOs
//

// CreateMealRequest is the JSON payload for logging a meal.
type CreateMealRequest struct {
	// MealTime defaults to now.
	MealTime     *string  `json:"meal_time,omitempty" example:"2024-03-01T12:30:00Z"`
	MealType     string   `json:"meal_type" binding:"required" enums:"breakfast,lunch,dinner,snack" example:"lunch"`
	FoodItems    []string `json:"food_items" example:"salad,bread"`
	PortionSize  string   `json:"portion_size" enums:"small,medium,large" example:"medium"`
	TasteRating  *float64 `json:"taste_rating,omitempty" example:"8"`
	HealthRating *float64 `json:"health_rating,omitempty" example:"7"`
}

// CreateActivityRequest is the JSON payload for logging an activity.
type CreateActivityRequest struct {
	ActivityType string  `json:"activity_type" binding:"required,max=64" example:"running"`
	StartTime    *string `json:"start_time,omitempty" example:"2024-03-01T18:00:00Z"`
	EndTime      *string `json:"end_time,omitempty" example:"2024-03-01T18:45:00Z"`
	// DurationMinutes is derived from start/end when omitted.
	DurationMinutes *int     `json:"duration_minutes,omitempty" example:"45"`
	Intensity       *float64 `json:"intensity,omitempty" example:"6"`
	Location        string   `json:"location" binding:"max=255" example:"park"`
	Description     string   `json:"description" example:"Easy 5k"`
	EnjoymentRating *float64 `json:"enjoyment_rating,omitempty" example:"8"`
}

// CreateMoodRequest is the JSON payload for logging a mood event.
type CreateMoodRequest struct {
	// Timestamp defaults to now.
	Timestamp *string  `json:"timestamp,omitempty" example:"2024-03-01T09:15:00Z"`
	Emotion   string   `json:"emotion" binding:"required,max=64" example:"calm"`
	Intensity *float64 `json:"intensity" binding:"required" example:"6"`
	Triggers  string   `json:"triggers" example:"morning coffee"`
	Notes     string   `json:"notes" example:""`
}

// ListMealsResponse wraps a record's meals.
type ListMealsResponse struct {
	Meals []domain.Meal `json:"meals"`
}

// ListActivitiesResponse wraps a record's activities.
type ListActivitiesResponse struct {
	Activities []domain.Activity `json:"activities"`
}

// ListMoodsResponse wraps a record's mood events.
type ListMoodsResponse struct {
	Moods []domain.MoodEvent `json:"moods"`
}

//
// Handlers
//

// AddMeal godoc
// @ID          addMeal
// @Summary     Log a meal
// @Description Logs a meal against one of the user's records. Portion size defaults to medium.
// @Tags        Entries
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
// @Param       body       body    handlers.CreateMealRequest  true  "Meal payload"
//
// @Success     201  {object} domain.Meal
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id}/meals [post]
func (h *Handlers) AddMeal(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "meal_type required")
		return
	}
	at, err := parseOptionalTime(req.MealTime)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}

	m, err := h.recordSvc.AddMeal(c.Request.Context(), userID(c), id, services.MealInput{
		MealTime:     at,
		MealType:     req.MealType,
		FoodItems:    req.FoodItems,
		PortionSize:  req.PortionSize,
		TasteRating:  req.TasteRating,
		HealthRating: req.HealthRating,
	})
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListMeals godoc
// @ID          listMeals
// @Summary     List a record's meals
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
//
// @Success     200  {object} handlers.ListMealsResponse
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Router      /records/{id}/meals [get]
func (h *Handlers) ListMeals(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	items, err := h.recordSvc.ListMeals(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListMealsResponse{Meals: items})
}

// AddActivity godoc
// @ID          addActivity
// @Summary     Log an activity
// @Description Logs an activity against one of the user's records. end_time must not precede start_time.
// @Tags        Entries
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
// @Param       body       body    handlers.CreateActivityRequest  true  "Activity payload"
//
// @Success     201  {object} domain.Activity
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id}/activities [post]
func (h *Handlers) AddActivity(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "activity_type required")
		return
	}
	start, err := parseOptionalTime(req.StartTime)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	end, err := parseOptionalTime(req.EndTime)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}

	a, err := h.recordSvc.AddActivity(c.Request.Context(), userID(c), id, services.ActivityInput{
		ActivityType:    req.ActivityType,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		Location:        req.Location,
		Description:     req.Description,
		EnjoymentRating: req.EnjoymentRating,
	})
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, a)
}

// ListActivities godoc
// @ID          listActivities
// @Summary     List a record's activities
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
//
// @Success     200  {object} handlers.ListActivitiesResponse
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Router      /records/{id}/activities [get]
func (h *Handlers) ListActivities(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	items, err := h.recordSvc.ListActivities(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListActivitiesResponse{Activities: items})
}

// AddMood godoc
// @ID          addMood
// @Summary     Log a mood event
// @Tags        Entries
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
// @Param       body       body    handlers.CreateMoodRequest  true  "Mood payload"
//
// @Success     201  {object} domain.MoodEvent
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /records/{id}/moods [post]
func (h *Handlers) AddMood(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	var req CreateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "emotion and intensity required")
		return
	}
	at, err := parseOptionalTime(req.Timestamp)
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}

	e, err := h.recordSvc.AddMood(c.Request.Context(), userID(c), id, services.MoodInput{
		Timestamp: at,
		Emotion:   req.Emotion,
		Intensity: req.Intensity,
		Triggers:  req.Triggers,
		Notes:     req.Notes,
	})
	if err != nil {
		failErr(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, e)
}

// ListMoods godoc
// @ID          listMoods
// @Summary     List a record's mood events
// @Tags        Entries
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Record ID (UUID)"       format(uuid)
//
// @Success     200  {object} handlers.ListMoodsResponse
// @Failure     404  {object} handlers.ErrorResponse "Record not found"
// @Router      /records/{id}/moods [get]
func (h *Handlers) ListMoods(c *gin.Context) {
	id, okID := recordIDParam(c)
	if !okID {
		return
	}
	items, err := h.recordSvc.ListMoods(c.Request.Context(), userID(c), id)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListMoodsResponse{Moods: items})
}
