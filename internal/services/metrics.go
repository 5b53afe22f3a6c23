package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	modelFits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_model_fits_total",
			Help: "Model fit attempts partitioned by outcome.",
		},
		[]string{"outcome"}, // ok|insufficient_data|error
	)
	modelFitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytics_model_fit_duration_seconds",
			Help:    "Time spent loading data and fitting the mood model.",
			Buckets: prometheus.DefBuckets,
		},
	)
	recommendationsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_recommendations_total",
			Help: "Recommendations returned, partitioned by category.",
		},
		[]string{"category"},
	)
	predictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_predictions_total",
			Help: "Successful mood predictions.",
		},
	)
)

func init() {
	prometheus.MustRegister(modelFits, modelFitDuration, recommendationsServed, predictions)
}
