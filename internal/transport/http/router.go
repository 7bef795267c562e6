package httptransport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"broker/internal/platform/health"
	ratelimitmw "broker/internal/ratelimit/middleware"
	ratelimitmodels "broker/internal/ratelimit/models"
	adminmw "broker/pkg/platform/middleware/admin"
	authmw "broker/pkg/platform/middleware/auth"
	"broker/pkg/platform/middleware/metadata"
	request "broker/pkg/platform/middleware/request"
)

// RouterConfig carries the cross-cutting pieces of the HTTP stack.
type RouterConfig struct {
	Logger         *slog.Logger
	Tokens         authmw.TokenValidator
	AdminToken     string
	Metadata       metadata.Config
	RequestMetrics *request.Metrics
	Health         *health.Handler
	Metrics        http.Handler
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	// RateLimit is optional; nil disables request budgets.
	RateLimit *ratelimitmw.Middleware
}

// NewRouter mounts every broker endpoint behind the shared middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(cfg.Metadata).Handler)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.Latency(cfg.RequestMetrics))
	if cfg.MaxBodyBytes > 0 {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(request.ContentTypeJSON)

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.RateLimit(ratelimitmodels.ClassPublic))
		}
		h.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.Tokens, cfg.Logger))
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit.RateLimitConsumer(endpointClass))
		}
		h.RegisterAuthenticated(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, cfg.Logger))
		h.RegisterAdmin(r)
	})

	return r
}

// endpointClass maps authenticated routes to their request budget.
func endpointClass(r *http.Request) ratelimitmodels.EndpointClass {
	switch {
	case r.Method == http.MethodPost:
		return ratelimitmodels.ClassAuthorize
	case strings.HasPrefix(r.URL.Path, "/evidence/"), strings.HasPrefix(r.URL.Path, "/directharvest/"):
		return ratelimitmodels.ClassHarvest
	default:
		return ratelimitmodels.ClassRead
	}
}
