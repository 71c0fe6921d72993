package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	MinesRegistered       prometheus.Counter
	MinesVerified         prometheus.Counter
	BatchesRegistered     prometheus.Counter
	BatchesTransferred    prometheus.Counter
	BatchStatusUpdates    prometheus.Counter
	CertificationsIssued  prometheus.Counter
	CertificationsRevoked prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New creates all metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer. Tests pass a fresh
// registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MinesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_mines_registered_total",
			Help: "Total number of mines registered",
		}),
		MinesVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_mines_verified_total",
			Help: "Total number of successful mine verifications",
		}),
		BatchesRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_batches_registered_total",
			Help: "Total number of batches registered",
		}),
		BatchesTransferred: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_batches_transferred_total",
			Help: "Total number of custody transfers recorded",
		}),
		BatchStatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_batch_status_updates_total",
			Help: "Total number of batch status updates",
		}),
		CertificationsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_certifications_issued_total",
			Help: "Total number of certifications issued",
		}),
		CertificationsRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "oreledger_certifications_revoked_total",
			Help: "Total number of certifications revoked",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oreledger_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
