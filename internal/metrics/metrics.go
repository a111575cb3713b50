// Package metrics exposes Prometheus instruments for alignment work.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// alignmentsTotal counts alignment requests by endpoint and result
	alignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protmatch_alignments_total",
		Help: "Alignment requests by endpoint and result",
	}, []string{"endpoint", "result"})

	// alignmentDuration tracks request latency
	alignmentDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "protmatch_alignment_duration_seconds",
		Help:    "Alignment request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3.3s
	}, []string{"endpoint"})

	// cellsTotal counts dynamic programming cells filled
	cellsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protmatch_alignment_cells_total",
		Help: "Score matrix cells computed",
	})

	// candidatesScanned counts candidates aligned by best-match searches
	candidatesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protmatch_candidates_scanned_total",
		Help: "Candidates aligned during best-match searches",
	})
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ObserveRequest records one finished request.
func ObserveRequest(endpoint, result string, elapsed time.Duration) {
	alignmentsTotal.WithLabelValues(endpoint, result).Inc()
	alignmentDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// AddCells records the size of a filled score matrix.
func AddCells(n, m int) {
	cellsTotal.Add(float64(n * m))
}

// CandidateScanned records one aligned candidate.
func CandidateScanned() {
	candidatesScanned.Inc()
}
