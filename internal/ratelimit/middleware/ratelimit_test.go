package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/internal/ratelimit/models"
	"broker/pkg/platform/httputil"
	"broker/pkg/requestcontext"
	"broker/pkg/testutil"
)

type stubLimiter struct {
	result   *models.Result
	err      error
	ip       string
	consumer string
	class    models.EndpointClass
}

func (l *stubLimiter) CheckIP(_ context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	l.ip, l.class = ip, class
	return l.result, l.err
}

func (l *stubLimiter) CheckConsumer(_ context.Context, consumer string, class models.EndpointClass) (*models.Result, error) {
	l.consumer, l.class = consumer, class
	return l.result, l.err
}

type MiddlewareSuite struct {
	suite.Suite
	limiter *stubLimiter
	mw      *Middleware
	reached bool
	next    http.Handler
	resetAt time.Time
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.limiter = &stubLimiter{}
	s.mw = New(s.limiter, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.reached = false
	s.next = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.reached = true
		w.WriteHeader(http.StatusOK)
	})
	s.resetAt = time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC)
}

func (s *MiddlewareSuite) request(ctx context.Context) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/evidence/acc-1", nil).WithContext(ctx)
}

func (s *MiddlewareSuite) TestRateLimitByIP() {
	s.Run("allowed request carries headers", func() {
		s.limiter.result = &models.Result{Allowed: true, Limit: 10, Remaining: 9, ResetAt: s.resetAt}
		rec := httptest.NewRecorder()
		ctx := requestcontext.WithClientIP(context.Background(), "192.0.2.1")

		s.mw.RateLimit(models.ClassPublic)(s.next).ServeHTTP(rec, s.request(ctx))

		s.True(s.reached)
		s.Equal("192.0.2.1", s.limiter.ip)
		s.Equal(models.ClassPublic, s.limiter.class)
		s.Equal("10", rec.Header().Get("X-RateLimit-Limit"))
		s.Equal("9", rec.Header().Get("X-RateLimit-Remaining"))
		s.Equal("1772366460", rec.Header().Get("X-RateLimit-Reset"))
	})

	s.Run("exhausted budget answers 429", func() {
		s.reached = false
		s.limiter.result = &models.Result{Allowed: false, Limit: 10, ResetAt: s.resetAt, RetryAfter: 30}
		rec := httptest.NewRecorder()

		s.mw.RateLimit(models.ClassPublic)(s.next).ServeHTTP(rec, s.request(context.Background()))

		s.False(s.reached)
		s.Equal(http.StatusTooManyRequests, rec.Code)
		s.Equal(s.resetAt.Format(http.TimeFormat), rec.Header().Get("Retry-After"))
		var body httputil.ErrorResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal(1019, body.Code)
	})

	s.Run("limiter failure lets the request through", func() {
		s.reached = false
		s.limiter.result, s.limiter.err = nil, errors.New("redis down")
		rec := httptest.NewRecorder()

		s.mw.RateLimit(models.ClassPublic)(s.next).ServeHTTP(rec, s.request(context.Background()))

		s.True(s.reached)
		s.Empty(rec.Header().Get("X-RateLimit-Limit"))
	})
}

func (s *MiddlewareSuite) TestRateLimitConsumer() {
	classOf := func(*http.Request) models.EndpointClass { return models.ClassHarvest }

	s.Run("authenticated consumer is the key", func() {
		s.limiter.result = &models.Result{Allowed: true, Limit: 5, Remaining: 4, ResetAt: s.resetAt}
		ctx := requestcontext.WithAuthenticatedParty(context.Background(), testutil.MustParty(testutil.TestParties.Requestor))
		rec := httptest.NewRecorder()

		s.mw.RateLimitConsumer(classOf)(s.next).ServeHTTP(rec, s.request(ctx))

		s.True(s.reached)
		s.Equal(testutil.MustParty(testutil.TestParties.Requestor).Key(), s.limiter.consumer)
		s.Equal(models.ClassHarvest, s.limiter.class)
	})

	s.Run("missing consumer falls back to the IP", func() {
		s.limiter.ip, s.limiter.consumer = "", ""
		ctx := requestcontext.WithClientIP(context.Background(), "198.51.100.7")

		s.mw.RateLimitConsumer(classOf)(s.next).ServeHTTP(httptest.NewRecorder(), s.request(ctx))

		s.Equal("198.51.100.7", s.limiter.ip)
		s.Empty(s.limiter.consumer)
	})

	s.Run("denied consumer gets 429", func() {
		s.reached = false
		s.limiter.result = &models.Result{Allowed: false, Limit: 5, ResetAt: s.resetAt, RetryAfter: 3}
		ctx := requestcontext.WithAuthenticatedParty(context.Background(), testutil.MustParty(testutil.TestParties.Requestor))
		rec := httptest.NewRecorder()

		s.mw.RateLimitConsumer(classOf)(s.next).ServeHTTP(rec, s.request(ctx))

		s.False(s.reached)
		s.Equal(http.StatusTooManyRequests, rec.Code)
	})
}
