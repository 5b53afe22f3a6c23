package analytics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Strength buckets for |r|.
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
	StrengthVeryWeak = "very weak"
)

// Directions of a correlation.
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
)

// FactorCorrelation is the Pearson correlation of one feature with the target.
type FactorCorrelation struct {
	Factor      Feature `json:"factor"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
	SampleSize  int     `json:"sample_size"`
}

// Correlate computes the Pearson coefficient between every numeric column and
// target over pairwise-complete rows. A factor is reported only when it has at
// least two paired points and both series vary. Results are ordered by |r|
// descending, ties in column order.
//
// ErrInsufficientData is returned when rows is empty, target has no values, or
// fewer than two numeric columns carry any value.
func Correlate(rows []DayFeatures, target Feature) ([]FactorCorrelation, error) {
	if len(rows) == 0 {
		return nil, ErrInsufficientData
	}
	present := PresentFeatures(rows, NumericFeatures)
	if len(present) < 2 || !containsFeature(present, target) {
		return nil, ErrInsufficientData
	}

	out := make([]FactorCorrelation, 0, len(present)-1)
	for _, f := range present {
		if f == target {
			continue
		}
		xs, ys := pairs(rows, f, target)
		if len(xs) < 2 || constant(xs) || constant(ys) {
			continue
		}
		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out = append(out, FactorCorrelation{
			Factor:      f,
			Correlation: r,
			Strength:    CorrelationStrength(r),
			Direction:   direction(r),
			SampleSize:  len(xs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	return out, nil
}

// CorrelationStrength labels r by fixed |r| thresholds; a value exactly on a
// boundary belongs to the stronger bucket.
func CorrelationStrength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return StrengthStrong
	case a >= 0.5:
		return StrengthModerate
	case a >= 0.3:
		return StrengthWeak
	default:
		return StrengthVeryWeak
	}
}

func direction(r float64) string {
	if r < 0 {
		return DirectionNegative
	}
	return DirectionPositive
}

// PresentFeatures returns the members of cols that have a value in at least
// one row, in cols order.
func PresentFeatures(rows []DayFeatures, cols []Feature) []Feature {
	var out []Feature
	for _, f := range cols {
		for i := range rows {
			if _, ok := f.Value(&rows[i]); ok {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// pairs returns the values of x and y from rows where both are set.
func pairs(rows []DayFeatures, x, y Feature) (xs, ys []float64) {
	for i := range rows {
		xv, okx := x.Value(&rows[i])
		yv, oky := y.Value(&rows[i])
		if okx && oky {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}

// constant reports whether every element equals the first (zero variance).
func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

func containsFeature(fs []Feature, f Feature) bool {
	for _, x := range fs {
		if x == f {
			return true
		}
	}
	return false
}
