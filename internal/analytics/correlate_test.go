package analytics

import (
	"errors"
	"math"
	"testing"
)

func rowsWith(n int, fill func(i int, r *DayFeatures)) []DayFeatures {
	rows := make([]DayFeatures, n)
	for i := range rows {
		fill(i, &rows[i])
	}
	return rows
}

func TestCorrelationStrength_Buckets(t *testing.T) {
	cases := map[float64]string{
		0.75:  StrengthStrong,
		0.55:  StrengthModerate,
		0.35:  StrengthWeak,
		0.10:  StrengthVeryWeak,
		0.7:   StrengthStrong,
		0.5:   StrengthModerate,
		0.3:   StrengthWeak,
		-0.7:  StrengthStrong,
		-0.45: StrengthWeak,
		0:     StrengthVeryWeak,
	}
	for r, want := range cases {
		if got := CorrelationStrength(r); got != want {
			t.Errorf("CorrelationStrength(%v) = %q; want %q", r, got, want)
		}
	}
}

func TestCorrelate_PerfectPositiveAndNegative(t *testing.T) {
	rows := rowsWith(6, func(i int, r *DayFeatures) {
		x := float64(i + 1)
		r.OverallMood = Float(x)
		r.SleepQuality = Float(2*x + 1)
		r.AvgHealthRating = Float(10 - x)
	})
	got, err := Correlate(rows, OverallMood)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 factors, got %d: %+v", len(got), got)
	}
	by := map[Feature]FactorCorrelation{}
	for _, fc := range got {
		by[fc.Factor] = fc
	}
	sq, ok := by[SleepQuality]
	if !ok || math.Abs(sq.Correlation-1) > 1e-9 || sq.Direction != DirectionPositive || sq.Strength != StrengthStrong {
		t.Fatalf("sleep_quality = %+v", sq)
	}
	hr, ok := by[AvgHealthRating]
	if !ok || math.Abs(hr.Correlation+1) > 1e-9 || hr.Direction != DirectionNegative {
		t.Fatalf("avg_health_rating = %+v", hr)
	}
	if sq.SampleSize != 6 {
		t.Fatalf("sample size = %d; want 6", sq.SampleSize)
	}
}

func TestCorrelate_SkipsZeroVariance(t *testing.T) {
	rows := rowsWith(5, func(i int, r *DayFeatures) {
		r.OverallMood = Float(float64(i))
		r.MealsCount = Float(3)
		r.SleepQuality = Float(float64(i * i))
	})
	got, err := Correlate(rows, OverallMood)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	for _, fc := range got {
		if fc.Factor == MealsCount {
			t.Fatalf("constant column must be omitted, got %+v", fc)
		}
		if math.IsNaN(fc.Correlation) {
			t.Fatalf("NaN correlation for %s", fc.Factor)
		}
	}
	if len(got) != 1 || got[0].Factor != SleepQuality {
		t.Fatalf("want only sleep_quality, got %+v", got)
	}
}

func TestCorrelate_ConstantTargetYieldsNothing(t *testing.T) {
	rows := rowsWith(4, func(i int, r *DayFeatures) {
		r.OverallMood = Float(5)
		r.SleepQuality = Float(float64(i))
	})
	got, err := Correlate(rows, OverallMood)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want no factors, got %+v", got)
	}
}

func TestCorrelate_PairwiseComplete(t *testing.T) {
	rows := rowsWith(4, func(i int, r *DayFeatures) {
		r.OverallMood = Float(float64(i))
	})
	rows[0].SleepQuality = Float(1)
	rows[2].SleepQuality = Float(3)
	rows[3].AvgEnjoyment = Float(9)

	got, err := Correlate(rows, OverallMood)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	// avg_enjoyment has a single paired point -> skipped
	if len(got) != 1 || got[0].Factor != SleepQuality || got[0].SampleSize != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestCorrelate_InsufficientData(t *testing.T) {
	if _, err := Correlate(nil, OverallMood); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("empty: want ErrInsufficientData, got %v", err)
	}

	onlyMood := rowsWith(3, func(i int, r *DayFeatures) { r.OverallMood = Float(float64(i)) })
	if _, err := Correlate(onlyMood, OverallMood); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("one column: want ErrInsufficientData, got %v", err)
	}

	noTarget := rowsWith(3, func(i int, r *DayFeatures) {
		r.SleepQuality = Float(float64(i))
		r.AvgEnjoyment = Float(float64(i))
	})
	if _, err := Correlate(noTarget, OverallMood); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("no target: want ErrInsufficientData, got %v", err)
	}
}

func TestCorrelate_SortedByAbsoluteValue(t *testing.T) {
	mood := []float64{1, 2, 3, 4, 5, 6}
	weak := []float64{2, 1, 4, 3, 6, 5}
	strong := []float64{-1, -2, -3, -4, -5, -7}
	rows := rowsWith(6, func(i int, r *DayFeatures) {
		r.OverallMood = Float(mood[i])
		r.SleepQuality = Float(weak[i])
		r.AvgEnjoyment = Float(strong[i])
	})
	got, err := Correlate(rows, OverallMood)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if got[0].Factor != AvgEnjoyment || got[1].Factor != SleepQuality {
		t.Fatalf("order = %s,%s", got[0].Factor, got[1].Factor)
	}
	if math.Abs(got[0].Correlation) < math.Abs(got[1].Correlation) {
		t.Fatalf("not sorted by |r|: %+v", got)
	}
}
