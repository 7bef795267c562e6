package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"broker/internal/platform/privacy"
	"broker/internal/ratelimit/models"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error)
	CheckConsumer(ctx context.Context, consumer string, class models.EndpointClass) (*models.Result, error)
}

// ClassFunc picks the endpoint class of a request.
type ClassFunc func(r *http.Request) models.EndpointClass

type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
}

func New(limiter RateLimiter, logger *slog.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		logger:  logger,
	}
}

// RateLimit limits by client IP. Limiter failures let the request through.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.limiter.CheckIP(ctx, ip, class)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"ip_prefix", privacy.AnonymizeIP(ip),
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !m.admit(w, result) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitConsumer limits by the authenticated consumer organization and must
// run after authentication. Requests without a consumer fall back to the IP budget
// of the same class.
func (m *Middleware) RateLimitConsumer(classOf ClassFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			class := classOf(r)

			var (
				result *models.Result
				err    error
			)
			if consumer := requestcontext.AuthenticatedParty(ctx); !consumer.IsZero() {
				result, err = m.limiter.CheckConsumer(ctx, consumer.Key(), class)
			} else {
				result, err = m.limiter.CheckIP(ctx, requestcontext.ClientIP(ctx), class)
			}
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check consumer rate limit",
					"error", err,
					"endpoint_class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !m.admit(w, result) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// admit writes the X-RateLimit headers and, when the budget is spent, the 429 answer.
func (m *Middleware) admit(w http.ResponseWriter, result *models.Result) bool {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Allowed {
		return true
	}
	resetAt := result.ResetAt
	httputil.WriteError(w, &dErrors.Error{
		Code:    dErrors.CodeRateLimited,
		Message: "too many requests, retry after " + strconv.Itoa(result.RetryAfter) + "s",
		RetryAt: &resetAt,
	})
	return false
}
