package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for audit pack generation.
type Metrics struct {
	PacksGenerated   prometheus.Counter
	GenerateDuration prometheus.Histogram
}

// New registers and returns the audit pack metrics.
func New() *Metrics {
	return &Metrics{
		PacksGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hindsight_audit_packs_generated_total",
			Help: "Total audit packs generated",
		}),
		GenerateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hindsight_audit_pack_generate_duration_seconds",
			Help:    "Duration of audit pack assembly",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveGenerate records one completed pack generation.
func (m *Metrics) ObserveGenerate(start time.Time) {
	if m == nil {
		return
	}
	m.PacksGenerated.Inc()
	m.GenerateDuration.Observe(time.Since(start).Seconds())
}
