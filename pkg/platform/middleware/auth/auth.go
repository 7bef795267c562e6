package auth

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	dErrors "broker/pkg/domain-errors"
	"broker/pkg/domain"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
)

// Claims is what the broker needs from a validated inbound access token.
type Claims struct {
	ConsumerID string
	Scopes     []string
}

// TokenValidator validates a raw bearer token.
type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

// RequireAuth validates the bearer token and stores the consumer party, scopes
// and raw token on the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token", "request_id", requestID)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			consumer, err := domain.ParseParty(claims.ConsumerID)
			if err != nil || consumer.Kind() != domain.PartyKindOrganization {
				logger.WarnContext(ctx, "unauthorized access - token consumer is not an organization",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token consumer is not a valid organization"))
				return
			}

			ctx = requestcontext.WithAuthenticatedParty(ctx, consumer)
			ctx = requestcontext.WithScopes(ctx, claims.Scopes)
			ctx = requestcontext.WithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects requests whose token lacks scope. Must run after RequireAuth.
func RequireScope(scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !slices.Contains(requestcontext.Scopes(ctx), scope) {
				logger.WarnContext(ctx, "forbidden - missing scope",
					"scope", scope,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "token lacks required scope "+scope))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
