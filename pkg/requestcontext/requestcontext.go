// Package requestcontext carries request-scoped values explicitly through context.Context.
//
// Every value is set once by transport middleware and read by services; nothing here is
// process-global.
package requestcontext

import (
	"context"
	"time"

	"broker/pkg/domain"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyTime
	keyServiceContext
	keyAuthenticatedParty
	keyAccessToken
	keyScopes
	keyClientIP
)

// WithRequestID stores the correlation id for the request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// RequestID returns the correlation id, or "" when unset.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

// WithTime pins the request's notion of "now".
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyTime, t)
}

// Now returns the pinned request time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithServiceContext stores the active service context name.
func WithServiceContext(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyServiceContext, name)
}

// ServiceContext returns the active service context name.
func ServiceContext(ctx context.Context) string {
	v, _ := ctx.Value(keyServiceContext).(string)
	return v
}

// WithAuthenticatedParty stores the caller's organization as established by authentication.
func WithAuthenticatedParty(ctx context.Context, p domain.Party) context.Context {
	return context.WithValue(ctx, keyAuthenticatedParty, p)
}

// AuthenticatedParty returns the authenticated caller, zero Party when unauthenticated.
func AuthenticatedParty(ctx context.Context) domain.Party {
	v, _ := ctx.Value(keyAuthenticatedParty).(domain.Party)
	return v
}

// WithAccessToken stores the caller's inbound bearer token so it can be forwarded.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, keyAccessToken, token)
}

// AccessToken returns the caller's inbound bearer token.
func AccessToken(ctx context.Context) string {
	v, _ := ctx.Value(keyAccessToken).(string)
	return v
}

// WithScopes stores the scopes granted to the caller's token.
func WithScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, keyScopes, scopes)
}

// Scopes returns the scopes granted to the caller's token.
func Scopes(ctx context.Context) []string {
	v, _ := ctx.Value(keyScopes).([]string)
	return v
}

// WithClientIP stores the remote address of the caller.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

// ClientIP returns the remote address of the caller.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(keyClientIP).(string)
	return v
}
