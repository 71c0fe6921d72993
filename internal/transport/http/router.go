package httptransport

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"oreledger/internal/platform/metrics"
	"oreledger/internal/platform/middleware"
	platformredis "oreledger/internal/platform/redis"
)

// Registrar is the mount hook every feature handler implements.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Handlers stay thin; business
// logic lives in the registry services.
type Deps struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	JWTKey     []byte
	Mines      Registrar
	Batches    Registrar
	Certs      Registrar
	Audit      Registrar
	DB         *sql.DB               // nil when running on memory stores
	Redis      *platformredis.Client // nil when not configured
}

// NewRouter wires all public endpoints. Every registry route requires a
// caller identity, matching the host model where each call carries a sender;
// only health and metrics are open.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.ContentTypeJSON)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(d.JWTKey, d.Logger))
		d.Mines.Register(r)
		d.Batches.Register(r)
		d.Certs.Register(r)
		d.Audit.Register(r)
	})

	return r
}

func healthz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if d.DB != nil {
			if err := d.DB.PingContext(ctx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if d.Redis != nil {
			if err := d.Redis.Health(ctx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
