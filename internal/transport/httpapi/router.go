package httpapi

import (
	"AidDesk/internal/core/lifecycle"
	"AidDesk/internal/core/ports"
	"AidDesk/internal/core/services"
	"AidDesk/internal/shared/metrics"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const maxBodyBytes = 1 << 20

// Services is everything the HTTP API calls into.
type Services struct {
	Intake      *services.Intake
	SelfService *services.SelfService
	Catalog     *services.Catalog
	Queue       *services.Queue
	Curation    *services.Curation
	Lifecycle   *lifecycle.Controller
}

// Options configures the router.
type Options struct {
	// AdminTokens maps a bearer token to the admin name it authenticates.
	AdminTokens map[string]string
	Limiter     ports.AttemptLimiter
	Metrics     *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// TrustProxyHeaders keys clients on X-Forwarded-For / X-Real-IP instead
	// of the connection address.
	TrustProxyHeaders bool
}

// Handler serves the public, self-service and admin APIs.
type Handler struct {
	svc     Services
	opts    Options
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewRouter builds the chi router with logging and recovery middleware.
func NewRouter(svc Services, opts Options, baseLogger *zerolog.Logger) http.Handler {
	h := &Handler{
		svc:     svc,
		opts:    opts,
		log:     baseLogger.With().Str("component", "http_api").Logger(),
		metrics: opts.Metrics,
	}

	r := chi.NewRouter()
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	r.Use(middleware.Recoverer)

	r.Post("/requests", h.submit)

	r.Route("/self-service", func(r chi.Router) {
		r.Use(h.throttle)
		r.Post("/lookup", h.lookup)
		r.Delete("/requests/{id}", h.deleteOwn)
	})

	r.Get("/catalog", h.listCatalog)
	r.Get("/catalog/{id}", h.getCatalogEntry)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/requests", h.adminQueue)
		r.Get("/requests/{id}", h.adminDetail)
		r.Put("/requests/{id}/curation", h.adminCurate)
		r.Post("/requests/{id}/transition", h.adminTransition)
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// NewServer wraps handler in an http.Server with header timeouts set.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
