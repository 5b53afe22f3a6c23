// Package services – AnalyticsService
//
// This file implements AnalyticsService, the application-level entry point
// to the day analytics engine. It loads a user's records for a date range
// through the repository, converts them into analytics inputs and exposes
// feature rows, correlations, recommendations, per-day and weekly snapshots,
// an overview and the mood model.
//
// The engine itself is pure; the only state held here is one fitted mood
// model per user. Fits and predictions for a user are serialized by a mutex.
//
// Observability: all public methods are OpenTelemetry-instrumented and model
// fits, predictions and served recommendations are counted in Prometheus.
package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-day-tracker/internal/analytics"
	"github.com/tbourn/go-day-tracker/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DaysPerWeek is the span of a weekly report.
const DaysPerWeek = 7

// DatasetLoader is the repository contract required by AnalyticsService.
type DatasetLoader interface {
	LoadDataset(ctx context.Context, db *gorm.DB, userID string, rng repo.DateRange) (*repo.Dataset, error)
}

// Recommendations bundles the advice with the averages it was derived from.
type Recommendations struct {
	Stats analytics.Stats            `json:"stats"`
	Items []analytics.Recommendation `json:"recommendations"`
}

// WeeklyReport lists the snapshots of every recorded day in a seven-day
// window starting at Start.
type WeeklyReport struct {
	Start time.Time               `json:"start"`
	End   time.Time               `json:"end"`
	Days  []analytics.DaySnapshot `json:"days"`
}

// AnalyticsService computes analytics over a user's stored data.
type AnalyticsService struct {
	DB   *gorm.DB
	Repo DatasetLoader

	// Defaults fill unset features before correlation, recommendation and
	// model fitting.
	Defaults analytics.Defaults
	// Window is the lookback used when a request gives neither from nor to.
	// Zero means all data.
	Window time.Duration
	// Now returns the current time; tests override it.
	Now func() time.Time

	mu     sync.Mutex
	models map[string]*analytics.Predictor
}

// NewAnalyticsService constructs an AnalyticsService with the shipped
// feature defaults and a 30-day window.
func NewAnalyticsService(db *gorm.DB, r DatasetLoader) *AnalyticsService {
	return &AnalyticsService{
		DB:       db,
		Repo:     r,
		Defaults: analytics.DefaultFeatureDefaults(),
		Window:   30 * 24 * time.Hour,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Range resolves optional from/to bounds into a repository range. Bounds are
// truncated to calendar days. With neither bound set, the range is the last
// Window ending today.
func (s *AnalyticsService) Range(from, to *time.Time) (repo.DateRange, error) {
	var rng repo.DateRange
	if from != nil {
		f := DayOf(*from)
		rng.From = &f
	}
	if to != nil {
		t := DayOf(*to)
		rng.To = &t
	}
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return repo.DateRange{}, ErrInvalidRange
	}
	if rng.From == nil && rng.To == nil && s.Window > 0 {
		today := DayOf(s.now())
		start := today.Add(-s.Window)
		rng.From, rng.To = &start, &today
	}
	return rng, nil
}

// Features returns one default-filled feature row per recorded day.
func (s *AnalyticsService) Features(ctx context.Context, userID string, from, to *time.Time) ([]analytics.DayFeatures, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Features", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ds, err := s.load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	rows := ds.Aggregate(s.Defaults)
	span.SetAttributes(attribute.Int("rows", len(rows)))
	return rows, nil
}

// Correlations ranks every feature by its Pearson correlation with overall
// mood.
func (s *AnalyticsService) Correlations(ctx context.Context, userID string, from, to *time.Time) ([]analytics.FactorCorrelation, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Correlations", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ds, err := s.load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out, err := analytics.Correlate(ds.Aggregate(s.Defaults), analytics.OverallMood)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("factors", len(out)))
	return out, nil
}

// Recommendations derives prioritized advice from the range's averages. An
// empty range yields the single "start tracking" item.
func (s *AnalyticsService) Recommendations(ctx context.Context, userID string, from, to *time.Time) (*Recommendations, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Recommendations", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ds, err := s.load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	stats := analytics.Summarize(ds.Aggregate(s.Defaults))
	items := analytics.Recommend(stats)
	for _, it := range items {
		recommendationsServed.WithLabelValues(it.Category).Inc()
	}
	span.SetAttributes(attribute.Int("items", len(items)))
	return &Recommendations{Stats: stats, Items: items}, nil
}

// Overview summarises every collection in the range.
func (s *AnalyticsService) Overview(ctx context.Context, userID string, from, to *time.Time) (analytics.Overview, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Overview", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ds, err := s.load(ctx, userID, from, to)
	if err != nil {
		return analytics.Overview{}, err
	}
	return analytics.Summarise(*ds), nil
}

// Daily returns the snapshot of date. A day without a record yields an empty
// snapshot carrying only the date.
func (s *AnalyticsService) Daily(ctx context.Context, userID string, date time.Time) (analytics.DaySnapshot, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Daily",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("date", date.Format(time.DateOnly)),
		),
	)
	defer span.End()

	day := DayOf(date)
	ds, err := s.loadRange(ctx, userID, repo.DateRange{From: &day, To: &day})
	if err != nil {
		return analytics.DaySnapshot{}, err
	}
	snaps := analytics.Snapshot(*ds)
	if len(snaps) == 0 {
		return analytics.DaySnapshot{Date: day}, nil
	}
	return snaps[0], nil
}

// Weekly returns the snapshots of the recorded days in [start, start+7d).
func (s *AnalyticsService) Weekly(ctx context.Context, userID string, start time.Time) (*WeeklyReport, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Weekly",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("start", start.Format(time.DateOnly)),
		),
	)
	defer span.End()

	from := DayOf(start)
	to := from.AddDate(0, 0, DaysPerWeek-1)
	ds, err := s.loadRange(ctx, userID, repo.DateRange{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	return &WeeklyReport{Start: from, End: to, Days: analytics.Snapshot(*ds)}, nil
}

// Train fits the user's mood model on the range and replaces any previous
// model. On ErrInsufficientData the previous model stays in place.
func (s *AnalyticsService) Train(ctx context.Context, userID string, from, to *time.Time) (analytics.FitReport, error) {
	tr := otel.Tracer("services/AnalyticsService")
	ctx, span := tr.Start(ctx, "Train", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	started := time.Now()
	defer func() { modelFitDuration.Observe(time.Since(started).Seconds()) }()

	ds, err := s.load(ctx, userID, from, to)
	if err != nil {
		modelFits.WithLabelValues("error").Inc()
		return analytics.FitReport{}, err
	}
	rows := ds.Aggregate(s.Defaults)

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.predictor(userID)
	rep, err := p.Fit(rows)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) {
			modelFits.WithLabelValues("insufficient_data").Inc()
		} else {
			modelFits.WithLabelValues("error").Inc()
		}
		span.SetStatus(codes.Error, err.Error())
		return analytics.FitReport{}, err
	}
	modelFits.WithLabelValues("ok").Inc()
	span.SetAttributes(
		attribute.Int("train_rows", rep.TrainRows),
		attribute.Float64("r2", rep.R2),
	)
	return rep, nil
}

// Predict returns the predicted overall mood for a partial feature map using
// the user's model. Unknown feature names yield ErrUnknownFeature; omitted
// features default to 5.0.
func (s *AnalyticsService) Predict(ctx context.Context, userID string, values map[string]float64) (float64, error) {
	tr := otel.Tracer("services/AnalyticsService")
	_, span := tr.Start(ctx, "Predict",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("features", len(values)),
		),
	)
	defer span.End()

	in := make(map[analytics.Feature]float64, len(values))
	for k, v := range values {
		f := analytics.Feature(k)
		if !slices.Contains(analytics.ModelFeatures, f) {
			return 0, ErrUnknownFeature
		}
		in[f] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.models[userID]
	if !ok {
		return 0, ErrModelNotTrained
	}
	y, err := p.Predict(in)
	if err != nil {
		return 0, err
	}
	predictions.Inc()
	return y, nil
}

// Model returns the report of the user's current model.
func (s *AnalyticsService) Model(userID string) (analytics.FitReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.models[userID]
	if !ok {
		return analytics.FitReport{}, false
	}
	return p.Report()
}

// predictor returns the user's predictor, creating it. Callers hold mu.
func (s *AnalyticsService) predictor(userID string) *analytics.Predictor {
	if s.models == nil {
		s.models = make(map[string]*analytics.Predictor)
	}
	p, ok := s.models[userID]
	if !ok {
		p = analytics.NewPredictor()
		s.models[userID] = p
	}
	return p
}

func (s *AnalyticsService) load(ctx context.Context, userID string, from, to *time.Time) (*analytics.Dataset, error) {
	rng, err := s.Range(from, to)
	if err != nil {
		return nil, err
	}
	return s.loadRange(ctx, userID, rng)
}

func (s *AnalyticsService) loadRange(ctx context.Context, userID string, rng repo.DateRange) (*analytics.Dataset, error) {
	ds, err := s.Repo.LoadDataset(ctx, s.DB, userID, rng)
	if err != nil {
		return nil, err
	}
	out := toAnalytics(ds)
	return &out, nil
}

func (s *AnalyticsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
