package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gait_analyses_processed_total",
		Help: "Number of analyses that completed successfully.",
	})
	analysesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gait_analyses_failed_total",
		Help: "Number of analyses rejected or aborted with an error.",
	})
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gait_analysis_duration_seconds",
		Help:    "Wall time spent running the detection engines per request.",
		Buckets: prometheus.DefBuckets,
	})
)
