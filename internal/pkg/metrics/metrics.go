package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BatchRequests counts aggregated multicall round trips by outcome.
	BatchRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optionsdk",
		Subsystem: "multicall",
		Name:      "batches_total",
		Help:      "Aggregated multicall requests by status.",
	}, []string{"chain_id", "status"})

	// BatchCalls counts individual wrapped calls by result.
	BatchCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "optionsdk",
		Subsystem: "multicall",
		Name:      "calls_total",
		Help:      "Individual calls inside aggregated requests by result.",
	}, []string{"chain_id", "result"})

	// BatchDuration observes the round-trip latency of aggregated requests.
	BatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "optionsdk",
		Subsystem: "multicall",
		Name:      "batch_duration_seconds",
		Help:      "Latency of aggregated multicall requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain_id"})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(BatchRequests, BatchCalls, BatchDuration)
	})
}

// ObserveBatch records one aggregated request.
func ObserveBatch(chainID string, status string, started time.Time) {
	BatchRequests.WithLabelValues(chainID, status).Inc()
	if !started.IsZero() {
		BatchDuration.WithLabelValues(chainID).Observe(time.Since(started).Seconds())
	}
}

// ObserveCalls records per-call outcomes of one aggregated request.
func ObserveCalls(chainID string, succeeded, reverted int) {
	BatchCalls.WithLabelValues(chainID, "success").Add(float64(succeeded))
	BatchCalls.WithLabelValues(chainID, "revert").Add(float64(reverted))
}
