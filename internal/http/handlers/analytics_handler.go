// Analytics HTTP handlers.
//
// This file exposes the read-side analytics of the day tracker:
//   - GET  /analytics/features          (per-day feature rows)
//   - GET  /analytics/correlations      (factors vs overall mood)
//   - GET  /analytics/recommendations   (rule-based advice)
//   - GET  /analytics/overview          (totals and averages)
//   - GET  /analytics/daily/{date}      (one day)
//   - GET  /analytics/weekly/{start}    (seven days from start)
//   - GET  /analytics/model             (current model report)
//   - POST /analytics/model/train       (fit the mood model)
//   - POST /analytics/model/predict     (predict mood from features)
//
// Range endpoints take optional from/to query dates; without both the server
// uses its configured lookback window. Too little data is reported as 422
// insufficient_data rather than an error.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-day-tracker/internal/analytics"
)

//
// DTOs
//

// FeaturesResponse wraps the derived feature rows.
type FeaturesResponse struct {
	Features []analytics.DayFeatures `json:"features"`
}

// CorrelationsResponse lists factor correlations against Target, strongest first.
type CorrelationsResponse struct {
	Target       analytics.Feature             `json:"target" example:"overall_mood"`
	Correlations []analytics.FactorCorrelation `json:"correlations"`
}

// PredictRequest carries model inputs by feature name. Omitted features
// default to 5.0.
type PredictRequest struct {
	Features map[string]float64 `json:"features" binding:"required"`
}

// PredictResponse is the predicted overall mood.
type PredictResponse struct {
	PredictedMood float64 `json:"predicted_mood" example:"6.8"`
}

//
// Handlers
//

// Features godoc
// @ID          analyticsFeatures
// @Summary     Per-day features
// @Description Aggregates each recorded day into a feature row, filling gaps with defaults.
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       from       query   string  false "First day (inclusive)"  example(2024-03-01)
// @Param       to         query   string  false "Last day (inclusive)"   example(2024-03-31)
//
// @Success     200  {object} handlers.FeaturesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/features [get]
func (h *Handlers) Features(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	rows, err := h.analyticsSvc.Features(c.Request.Context(), userID(c), from, to)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, FeaturesResponse{Features: rows})
}

// Correlations godoc
// @ID          analyticsCorrelations
// @Summary     Correlations with overall mood
// @Description Pearson correlation of every numeric feature with overall mood, strongest first.
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       from       query   string  false "First day (inclusive)"  example(2024-03-01)
// @Param       to         query   string  false "Last day (inclusive)"   example(2024-03-31)
//
// @Success     200  {object} handlers.CorrelationsResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     422  {object} handlers.ErrorResponse "Not enough data yet"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/correlations [get]
func (h *Handlers) Correlations(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	out, err := h.analyticsSvc.Correlations(c.Request.Context(), userID(c), from, to)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, CorrelationsResponse{Target: analytics.OverallMood, Correlations: out})
}

// Recommendations godoc
// @ID          analyticsRecommendations
// @Summary     Personalised recommendations
// @Description Evaluates the recommendation rules against the range's averages, highest priority first.
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       from       query   string  false "First day (inclusive)"  example(2024-03-01)
// @Param       to         query   string  false "Last day (inclusive)"   example(2024-03-31)
//
// @Success     200  {object} services.Recommendations
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/recommendations [get]
func (h *Handlers) Recommendations(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	out, err := h.analyticsSvc.Recommendations(c.Request.Context(), userID(c), from, to)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Overview godoc
// @ID          analyticsOverview
// @Summary     Totals and averages
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       from       query   string  false "First day (inclusive)"  example(2024-03-01)
// @Param       to         query   string  false "Last day (inclusive)"   example(2024-03-31)
//
// @Success     200  {object} analytics.Overview
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/overview [get]
func (h *Handlers) Overview(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	out, err := h.analyticsSvc.Overview(c.Request.Context(), userID(c), from, to)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Daily godoc
// @ID          analyticsDaily
// @Summary     One day's summary
// @Description Returns the day's sleep, mood and entry counts. Days without a record return only the date.
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       date       path    string  true  "Day (YYYY-MM-DD)"       example(2024-03-01)
//
// @Success     200  {object} analytics.DaySnapshot
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/daily/{date} [get]
func (h *Handlers) Daily(c *gin.Context) {
	day, err := parseDay(c.Param("date"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
		return
	}
	out, err := h.analyticsSvc.Daily(c.Request.Context(), userID(c), day)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// Weekly godoc
// @ID          analyticsWeekly
// @Summary     Seven-day report
// @Description Returns one summary per recorded day in [start, start+6].
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       start      path    string  true  "First day (YYYY-MM-DD)" example(2024-03-04)
//
// @Success     200  {object} services.WeeklyReport
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/weekly/{start} [get]
func (h *Handlers) Weekly(c *gin.Context) {
	start, err := parseDay(c.Param("start"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "start must be YYYY-MM-DD")
		return
	}
	out, err := h.analyticsSvc.Weekly(c.Request.Context(), userID(c), start)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, out)
}

// ModelReport godoc
// @ID          analyticsModel
// @Summary     Current mood model
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} analytics.FitReport
// @Failure     409  {object} handlers.ErrorResponse "Model not trained"
// @Router      /analytics/model [get]
func (h *Handlers) ModelReport(c *gin.Context) {
	rep, trained := h.analyticsSvc.Model(userID(c))
	if !trained {
		fail(c, http.StatusConflict, ErrCodeModelNotTrained, "model has not been trained yet")
		return
	}
	ok(c, http.StatusOK, rep)
}

// TrainModel godoc
// @ID          analyticsTrain
// @Summary     Train the mood model
// @Description Fits a ridge regression of overall mood on the range's features and reports hold-out accuracy.
// @Tags        Analytics
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       from       query   string  false "First day (inclusive)"  example(2024-01-01)
// @Param       to         query   string  false "Last day (inclusive)"   example(2024-03-31)
//
// @Success     200  {object} analytics.FitReport
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     422  {object} handlers.ErrorResponse "Not enough data yet"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/model/train [post]
func (h *Handlers) TrainModel(c *gin.Context) {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	rep, err := h.analyticsSvc.Train(c.Request.Context(), userID(c), from, to)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, rep)
}

// Predict godoc
// @ID          analyticsPredict
// @Summary     Predict overall mood
// @Description Predicts overall mood from a partial feature map using the trained model.
// @Tags        Analytics
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.PredictRequest  true  "Feature values"
//
// @Success     200  {object} handlers.PredictResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request or unknown feature"
// @Failure     409  {object} handlers.ErrorResponse "Model not trained"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /analytics/model/predict [post]
func (h *Handlers) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "features object required")
		return
	}
	y, err := h.analyticsSvc.Predict(c.Request.Context(), userID(c), req.Features)
	if err != nil {
		failErr(c, err, ErrCodeAnalyticsFailed)
		return
	}
	ok(c, http.StatusOK, PredictResponse{PredictedMood: y})
}
