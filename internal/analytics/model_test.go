package analytics

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// linearRows builds n rows where mood = 0.5*sleep_quality + 2 and two other
// predictors vary independently of it.
func linearRows(n int) []DayFeatures {
	rows := make([]DayFeatures, n)
	for i := range rows {
		sq := float64(i%10) + 1
		rows[i] = DayFeatures{
			SleepQuality:    Float(sq),
			AvgTasteRating:  Float(float64((i*3)%7) + 1),
			ActivitiesCount: Float(float64((i * 5) % 4)),
			OverallMood:     Float(0.5*sq + 2),
		}
	}
	return rows
}

func TestPredictor_FitRecoversLinearRelation(t *testing.T) {
	p := NewPredictor()
	rep, err := p.Fit(linearRows(20))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if rep.TestRows != 4 || rep.TrainRows != 16 {
		t.Fatalf("split = %d/%d; want 16/4", rep.TrainRows, rep.TestRows)
	}
	if rep.RMSE >= 0.1 {
		t.Fatalf("rmse = %v; want < 0.1", rep.RMSE)
	}
	if math.Abs(rep.Coefficients[SleepQuality]-0.5) > 0.05 {
		t.Fatalf("sleep_quality coefficient = %v", rep.Coefficients[SleepQuality])
	}
	if rep.FeatureImportance[SleepQuality] < 0.9 {
		t.Fatalf("importance = %+v", rep.FeatureImportance)
	}
	var sum float64
	for _, v := range rep.FeatureImportance {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("importance sums to %v", sum)
	}
	if !reflect.DeepEqual(rep.Features, []Feature{SleepQuality, AvgTasteRating, ActivitiesCount}) {
		t.Fatalf("features = %v", rep.Features)
	}
}

func TestPredictor_PredictMonotonicInSleepQuality(t *testing.T) {
	p := NewPredictor()
	if _, err := p.Fit(linearRows(20)); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	hi, err := p.Predict(map[Feature]float64{SleepQuality: 9})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	lo, _ := p.Predict(map[Feature]float64{SleepQuality: 2})
	if hi <= lo {
		t.Fatalf("predict(9)=%v should exceed predict(2)=%v", hi, lo)
	}
	if math.Abs(hi-6.5) > 0.2 {
		t.Fatalf("predict(9) = %v; want about 6.5", hi)
	}
}

func TestPredictor_PredictEmptyMapUsesDefaults(t *testing.T) {
	p := NewPredictor()
	if _, err := p.Fit(linearRows(20)); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	v, err := p.Predict(map[Feature]float64{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("non-finite prediction %v", v)
	}
	if math.Abs(v-4.5) > 0.2 {
		t.Fatalf("predict({}) = %v; want about 4.5", v)
	}
}

func TestPredictor_PredictBeforeFit(t *testing.T) {
	p := NewPredictor()
	if _, err := p.Predict(map[Feature]float64{SleepQuality: 7}); !errors.Is(err, ErrMissingModel) {
		t.Fatalf("want ErrMissingModel, got %v", err)
	}
	if p.Trained() {
		t.Fatalf("fresh predictor reports trained")
	}
	if _, ok := p.Report(); ok {
		t.Fatalf("fresh predictor has a report")
	}
}

func TestPredictor_TooFewRowsKeepsPriorModel(t *testing.T) {
	p := NewPredictor()
	before, err := p.Fit(linearRows(20))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := p.Fit(linearRows(9)); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("want ErrInsufficientData, got %v", err)
	}
	after, ok := p.Report()
	if !ok || !reflect.DeepEqual(before, after) {
		t.Fatalf("report changed after failed fit")
	}
}

func TestPredictor_IncompleteRowsAreDropped(t *testing.T) {
	rows := linearRows(12)
	rows[0].OverallMood = nil
	rows[1].SleepQuality = nil
	rows[2].AvgTasteRating = nil
	if _, err := NewPredictor().Fit(rows); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("9 complete rows: want ErrInsufficientData, got %v", err)
	}
}

func TestPredictor_TooFewFeatures(t *testing.T) {
	rows := linearRows(20)
	for i := range rows {
		rows[i].ActivitiesCount = nil
	}
	if _, err := NewPredictor().Fit(rows); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("want ErrInsufficientData, got %v", err)
	}
}

func TestPredictor_MissingTarget(t *testing.T) {
	rows := linearRows(20)
	for i := range rows {
		rows[i].OverallMood = nil
	}
	if _, err := NewPredictor().Fit(rows); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("want ErrInsufficientData, got %v", err)
	}
}

func TestPredictor_SplitIsReproducible(t *testing.T) {
	rows := linearRows(25)
	for i := range rows {
		// some noise so the split influences the metrics
		*rows[i].OverallMood += float64((i*7)%3) * 0.1
	}
	a, err := NewPredictor().Fit(rows)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b, _ := NewPredictor().Fit(rows)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed gave different reports:\n%+v\n%+v", a, b)
	}
}

func TestPredictor_ConstantFeatureGetsZeroWeight(t *testing.T) {
	rows := linearRows(20)
	for i := range rows {
		rows[i].MealsCount = Float(3)
	}
	rep, err := NewPredictor().Fit(rows)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if rep.Coefficients[MealsCount] != 0 || rep.FeatureImportance[MealsCount] != 0 {
		t.Fatalf("constant column weighted: coef=%v imp=%v", rep.Coefficients[MealsCount], rep.FeatureImportance[MealsCount])
	}
}
