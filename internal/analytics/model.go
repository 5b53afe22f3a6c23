package analytics

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// ModelFeatures are the predictors used by Predictor, in column order.
var ModelFeatures = []Feature{
	SleepQuality,
	SleepDurationHours,
	WakeUpHour,
	AvgTasteRating,
	AvgHealthRating,
	MealsCount,
	ActivitiesCount,
	AvgIntensity,
	AvgEnjoyment,
	TotalActivityHours,
}

// Model fitting defaults.
const (
	MinModelFeatures    = 3
	MinTrainingRows     = 10
	DefaultTestFraction = 0.2
	DefaultSeed         = 42
	DefaultRidge        = 1e-3
	// DefaultPredictValue is used for predictors missing from a Predict call.
	DefaultPredictValue = 5.0
)

// FitReport describes a fitted model and its hold-out accuracy.
type FitReport struct {
	Features          []Feature           `json:"features"`
	TrainRows         int                 `json:"train_rows"`
	TestRows          int                 `json:"test_rows"`
	MSE               float64             `json:"mse"`
	RMSE              float64             `json:"rmse"`
	R2                float64             `json:"r2_score"`
	FeatureImportance map[Feature]float64 `json:"feature_importance"`
	Coefficients      map[Feature]float64 `json:"coefficients"`
	Intercept         float64             `json:"intercept"`
}

type linearModel struct {
	features  []Feature
	coef      []float64
	intercept float64
	report    FitReport
}

func (m *linearModel) predict(x []float64) float64 {
	y := m.intercept
	for j, c := range m.coef {
		y += c * x[j]
	}
	return y
}

// Predictor fits a ridge-regularised linear regression of overall mood on
// ModelFeatures and keeps the last successful fit. It is not safe for
// concurrent use; callers serialize Fit and Predict.
type Predictor struct {
	Target       Feature
	Seed         uint64
	TestFraction float64
	Ridge        float64

	model *linearModel
}

// NewPredictor returns a Predictor with the default target, seed, split and
// regularisation.
func NewPredictor() *Predictor {
	return &Predictor{
		Target:       OverallMood,
		Seed:         DefaultSeed,
		TestFraction: DefaultTestFraction,
		Ridge:        DefaultRidge,
	}
}

// Trained reports whether a model is available.
func (p *Predictor) Trained() bool { return p.model != nil }

// Report returns the report of the current model.
func (p *Predictor) Report() (FitReport, bool) {
	if p.model == nil {
		return FitReport{}, false
	}
	return p.model.report, true
}

// Fit trains on rows and replaces the current model. It fails with
// ErrInsufficientData, leaving the current model in place, when fewer than
// MinModelFeatures predictors are present, the target is absent, or fewer
// than MinTrainingRows rows are complete.
func (p *Predictor) Fit(rows []DayFeatures) (FitReport, error) {
	features := PresentFeatures(rows, ModelFeatures)
	if len(features) < MinModelFeatures || len(PresentFeatures(rows, []Feature{p.Target})) == 0 {
		return FitReport{}, ErrInsufficientData
	}

	X, y := completeRows(rows, features, p.Target)
	n := len(y)
	if n < MinTrainingRows {
		return FitReport{}, ErrInsufficientData
	}

	nTest := int(math.Ceil(p.TestFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	perm := rand.New(rand.NewPCG(p.Seed, p.Seed)).Perm(n)
	testIdx, trainIdx := perm[:nTest], perm[nTest:]

	m := fitRidge(X, y, trainIdx, features, p.Ridge)

	var sse, yMean float64
	for _, i := range testIdx {
		yMean += y[i]
	}
	yMean /= float64(len(testIdx))
	var sst float64
	for _, i := range testIdx {
		d := y[i] - m.predict(X[i])
		sse += d * d
		sst += (y[i] - yMean) * (y[i] - yMean)
	}
	mse := sse / float64(len(testIdx))

	m.report.TrainRows = len(trainIdx)
	m.report.TestRows = len(testIdx)
	m.report.MSE = mse
	m.report.RMSE = math.Sqrt(mse)
	m.report.R2 = r2(sse, sst)

	p.model = m
	return m.report, nil
}

// Predict returns the predicted target for a partial feature map. Features
// missing from the map take DefaultPredictValue.
func (p *Predictor) Predict(values map[Feature]float64) (float64, error) {
	if p.model == nil {
		return 0, ErrMissingModel
	}
	x := make([]float64, len(p.model.features))
	for j, f := range p.model.features {
		v, ok := values[f]
		if !ok {
			v = DefaultPredictValue
		}
		x[j] = v
	}
	return p.model.predict(x), nil
}

// completeRows extracts rows where every feature and the target are set.
func completeRows(rows []DayFeatures, features []Feature, target Feature) (X [][]float64, y []float64) {
rowLoop:
	for i := range rows {
		t, ok := target.Value(&rows[i])
		if !ok {
			continue
		}
		x := make([]float64, len(features))
		for j, f := range features {
			v, ok := f.Value(&rows[i])
			if !ok {
				continue rowLoop
			}
			x[j] = v
		}
		X = append(X, x)
		y = append(y, t)
	}
	return X, y
}

// fitRidge solves (ZᵀZ + λI)β = Zᵀ(y-ȳ) on standardised training features Z
// and maps β back to the original scale. Constant columns get a zero
// coefficient.
func fitRidge(X [][]float64, y []float64, train []int, features []Feature, lambda float64) *linearModel {
	k := len(features)
	nt := float64(len(train))

	means := make([]float64, k)
	stds := make([]float64, k)
	var yMean float64
	for _, i := range train {
		for j := 0; j < k; j++ {
			means[j] += X[i][j]
		}
		yMean += y[i]
	}
	for j := range means {
		means[j] /= nt
	}
	yMean /= nt
	for _, i := range train {
		for j := 0; j < k; j++ {
			d := X[i][j] - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / nt)
	}

	z := mat.NewDense(len(train), k, nil)
	yc := mat.NewVecDense(len(train), nil)
	for r, i := range train {
		for j := 0; j < k; j++ {
			if stds[j] > 0 {
				z.Set(r, j, (X[i][j]-means[j])/stds[j])
			}
		}
		yc.SetVec(r, y[i]-yMean)
	}

	gram := mat.NewSymDense(k, nil)
	gram.SymOuterK(1, z.T())
	for j := 0; j < k; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lambda)
	}
	var rhs mat.VecDense
	rhs.MulVec(z.T(), yc)

	beta := make([]float64, k)
	var chol mat.Cholesky
	if chol.Factorize(gram) {
		var b mat.VecDense
		if err := chol.SolveVecTo(&b, &rhs); err == nil {
			for j := 0; j < k; j++ {
				beta[j] = b.AtVec(j)
			}
		}
	}

	m := &linearModel{
		features: append([]Feature(nil), features...),
		coef:     make([]float64, k),
	}
	var total float64
	for j := 0; j < k; j++ {
		if stds[j] > 0 {
			m.coef[j] = beta[j] / stds[j]
		} else {
			beta[j] = 0
		}
		total += math.Abs(beta[j])
	}
	m.intercept = yMean
	for j := 0; j < k; j++ {
		m.intercept -= m.coef[j] * means[j]
	}

	m.report = FitReport{
		Features:          m.features,
		FeatureImportance: make(map[Feature]float64, k),
		Coefficients:      make(map[Feature]float64, k),
		Intercept:         m.intercept,
	}
	for j, f := range features {
		m.report.Coefficients[f] = m.coef[j]
		if total > 0 {
			m.report.FeatureImportance[f] = math.Abs(beta[j]) / total
		} else {
			m.report.FeatureImportance[f] = 0
		}
	}
	return m
}

// r2 is the coefficient of determination. A constant hold-out target scores
// 1 for a perfect fit and 0 otherwise.
func r2(sse, sst float64) float64 {
	if sst == 0 {
		if sse == 0 {
			return 1
		}
		return 0
	}
	return 1 - sse/sst
}
