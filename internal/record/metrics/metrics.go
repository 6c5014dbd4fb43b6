package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts evidence records as they are committed, labelled by kind.
type Metrics struct {
	RecordsCreated *prometheus.CounterVec
}

// New registers and returns the record store metrics.
func New() *Metrics {
	return &Metrics{
		RecordsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hindsight_records_created_total",
			Help: "Total evidence records committed, by record kind",
		}, []string{"kind"}),
	}
}

// IncrementCreated records one committed record of the given kind.
func (m *Metrics) IncrementCreated(kind string) {
	if m == nil {
		return
	}
	m.RecordsCreated.WithLabelValues(kind).Inc()
}
