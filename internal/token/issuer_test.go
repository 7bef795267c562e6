package token

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"broker/internal/platform/config"
	"broker/internal/platform/httpclient"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/domain"
	"broker/pkg/testutil"
)

type IssuerSuite struct {
	suite.Suite
	server    *httptest.Server
	calls     atomic.Int32
	consumers chan string
	offset    time.Duration
	issuer    *Issuer
}

func TestIssuerSuite(t *testing.T) {
	suite.Run(t, new(IssuerSuite))
}

func (s *IssuerSuite) SetupTest() {
	s.calls.Store(0)
	s.offset = 0
	s.consumers = make(chan string, 100)
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.calls.Add(1)
		_ = r.ParseForm()
		s.consumers <- r.Form.Get("consumer_org")
		time.Sleep(10 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"token_type":   "bearer",
			"expires_in":   120,
		})
	}))
	s.issuer = New(config.TokenConfig{
		TokenURL:     s.server.URL,
		ClientID:     "broker",
		ClientSecret: "secret",
	},
		WithHTTPClient(httpclient.New()),
		WithClock(func() time.Time { return time.Now().Add(s.offset) }),
	)
}

func (s *IssuerSuite) TearDownTest() {
	s.server.Close()
}

func (s *IssuerSuite) TestCachesPerScope() {
	ctx := context.Background()

	first, err := s.issuer.Token(ctx, "a:read b:read", nil)
	s.Require().NoError(err)
	again, err := s.issuer.Token(ctx, "a:read  b:read", nil)
	s.Require().NoError(err)
	s.Equal(first, again)
	s.Equal(int32(1), s.calls.Load())

	other, err := s.issuer.Token(ctx, "c:read", nil)
	s.Require().NoError(err)
	s.NotEqual(first, other)
	s.Equal(int32(2), s.calls.Load())
}

func (s *IssuerSuite) TestOnBehalfOfIsSeparateKey() {
	ctx := context.Background()
	owner := domain.NewOrganization("974760673")

	plain, err := s.issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)
	narrowed, err := s.issuer.Token(ctx, "a:read", &owner)
	s.Require().NoError(err)

	s.NotEqual(plain, narrowed)
	s.Equal("", <-s.consumers)
	s.Equal("974760673", <-s.consumers)
}

func (s *IssuerSuite) TestExpiry() {
	ctx := context.Background()
	_, err := s.issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)

	s.offset = 5 * time.Minute
	_, err = s.issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)
	s.Equal(int32(2), s.calls.Load())
}

func (s *IssuerSuite) TestExpiryFollowsInjectedClock() {
	clock := testutil.NewClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	issuer := New(config.TokenConfig{
		TokenURL:     s.server.URL,
		ClientID:     "broker",
		ClientSecret: "secret",
	}, WithHTTPClient(httpclient.New()), WithClock(clock.Now))
	ctx := context.Background()

	_, err := issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)

	clock.Advance(time.Minute)
	_, err = issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)
	s.Equal(int32(1), s.calls.Load())

	clock.Advance(time.Minute)
	_, err = issuer.Token(ctx, "a:read", nil)
	s.Require().NoError(err)
	s.Equal(int32(2), s.calls.Load())
}

func (s *IssuerSuite) TestConcurrentRequestsShareExchange() {
	result := testutil.RunConcurrent(20, func(int) error {
		_, err := s.issuer.Token(context.Background(), "a:read", nil)
		return err
	})
	s.Equal(int32(20), result.Successes)
	s.Equal(int32(1), s.calls.Load())
}

func (s *IssuerSuite) TestNotConfigured() {
	_, err := New(config.TokenConfig{}).Token(context.Background(), "a", nil)
	s.True(dErrors.HasCode(err, dErrors.CodeServiceNotAvailable))
}

func (s *IssuerSuite) TestExchangeFailure() {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer failing.Close()

	_, err := New(config.TokenConfig{TokenURL: failing.URL, ClientID: "x"}).Token(context.Background(), "a", nil)
	s.True(dErrors.HasCode(err, dErrors.CodeServiceNotAvailable))
}
