package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for backtest runs and data fetching

var (
	TickersProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_tickers_processed_total",
			Help: "Total number of tickers processed per mode",
		},
		[]string{"mode"},
	)

	TickersSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_tickers_skipped_total",
			Help: "Total number of tickers skipped, by reason",
		},
		[]string{"mode", "reason"},
	)

	PredictionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_predictions_recorded_total",
			Help: "Total number of qualifying predictions measured",
		},
		[]string{"mode"},
	)

	SetupsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_setups_detected_total",
			Help: "Total number of conjunctive setups detected",
		},
		[]string{"setup"},
	)

	DataRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "polygon_requests_total",
			Help: "Total number of Polygon aggregate requests, by outcome",
		},
		[]string{"granularity", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bar_cache_hits_total",
			Help: "Bar cache lookups that were served from disk",
		},
		[]string{"granularity"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bar_cache_misses_total",
			Help: "Bar cache lookups that required a fetch",
		},
		[]string{"granularity"},
	)
)
