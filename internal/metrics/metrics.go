package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "execos_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	StreakTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execos_streak_transitions_total",
			Help: "Streak counter transitions by kind and outcome.",
		},
		[]string{"streak_type", "transition"},
	)

	DailyLogsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execos_daily_logs_upserted_total",
			Help: "Daily log writes, split by created or updated.",
		},
		[]string{"op"},
	)

	ScanRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execos_inactivity_scan_runs_total",
			Help: "Inactivity scan cycles by result.",
		},
		[]string{"result"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "execos_inactivity_scan_duration_seconds",
			Help:    "Duration of one inactivity scan cycle.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	WarningsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "execos_warnings_created_total",
			Help: "Inactivity warnings created by type.",
		},
		[]string{"warning_type"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "execos_ai_call_duration_seconds",
			Help:    "Latency of chat completion calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"op", "result"},
	)
)

func RecordHTTP(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func RecordStreak(kind, transition string) {
	StreakTransitions.WithLabelValues(kind, transition).Inc()
}

func RecordScan(err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ScanRuns.WithLabelValues(result).Inc()
	ScanDuration.Observe(d.Seconds())
}

func RecordAI(op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AICallDuration.WithLabelValues(op, result).Observe(d.Seconds())
}
