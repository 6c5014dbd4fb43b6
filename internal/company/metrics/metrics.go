package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the company module.
type Metrics struct {
	CompaniesRegistered  prometheus.Counter
	AuthenticateDuration prometheus.Histogram
	CredentialCacheHits  prometheus.Counter
}

// New registers and returns the company module metrics.
func New() *Metrics {
	return &Metrics{
		CompaniesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hindsight_companies_registered_total",
			Help: "Total number of companies registered",
		}),
		AuthenticateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hindsight_authenticate_duration_seconds",
			Help:    "Duration of credential authentication (every-request critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CredentialCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hindsight_credential_cache_hits_total",
			Help: "Authentications served from the credential cache",
		}),
	}
}

// ObserveAuthenticate records the duration of an Authenticate call.
func (m *Metrics) ObserveAuthenticate(start time.Time) {
	if m == nil {
		return
	}
	m.AuthenticateDuration.Observe(time.Since(start).Seconds())
}

// IncrementRegistered records a successful company registration.
func (m *Metrics) IncrementRegistered() {
	if m == nil {
		return
	}
	m.CompaniesRegistered.Inc()
}

// IncrementCacheHit records an authentication served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CredentialCacheHits.Inc()
}
