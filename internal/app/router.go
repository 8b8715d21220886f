package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/portiva/portiva/internal/audit"
	"github.com/portiva/portiva/internal/observability"
	"github.com/portiva/portiva/internal/session"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionHandler *session.Handler
	AuditHandler   *audit.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with gateway defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.With(LoginRateLimiter(params.Config)).Post("/login", loginRoute(params.SessionHandler))
		params.SessionHandler.MountRoutes(v1)
		v1.Route("/audit", func(ar chi.Router) {
			params.AuditHandler.MountRoutes(ar)
		})
	})

	return r
}

// loginRoute is split out so the login-specific rate limit can wrap it.
func loginRoute(h *session.Handler) http.HandlerFunc {
	return h.Login
}
