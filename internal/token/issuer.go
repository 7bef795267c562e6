// Package token issues bearer tokens for calls to evidence sources using the
// OAuth2 client-credentials grant.
package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"broker/internal/platform/config"
	"broker/internal/platform/httpclient"
	"broker/internal/platform/metrics"
	dErrors "broker/pkg/domain-errors"
	"broker/pkg/domain"
	psync "broker/pkg/platform/sync"
	"broker/pkg/requestcontext"
)

// expirySkew is subtracted from a token's expiry before it is reused.
const expirySkew = 30 * time.Second

// consumerParam is the token endpoint parameter narrowing a token to a consumer organization.
const consumerParam = "consumer_org"

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// Issuer caches tokens by (client, consumer, scope hash). Concurrent requests
// for the same key wait on one exchange.
type Issuer struct {
	cfg     config.TokenConfig
	client  *http.Client
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
	locks   *psync.ShardedMutex

	mu    sync.Mutex
	cache map[string]cachedToken
}

type Option func(*Issuer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) {
		i.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Issuer) {
		i.metrics = m
	}
}

// WithHTTPClient routes token exchanges through the broker's upstream client.
func WithHTTPClient(c *httpclient.Client) Option {
	return func(i *Issuer) {
		i.client = c.StdClient()
	}
}

// WithClock injects the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func New(cfg config.TokenConfig, opts ...Option) *Issuer {
	i := &Issuer{
		cfg:    cfg,
		client: http.DefaultClient,
		now:    time.Now,
		logger: slog.Default(),
		locks:  psync.NewShardedMutex(),
		cache:  make(map[string]cachedToken),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Token returns a bearer token for the space-separated scopes. When onBehalfOf
// is a domestic organization the token is narrowed to it.
func (i *Issuer) Token(ctx context.Context, scopes string, onBehalfOf *domain.Party) (string, error) {
	if i.cfg.TokenURL == "" {
		return "", dErrors.New(dErrors.CodeServiceNotAvailable, "token issuer is not configured")
	}
	consumer := ""
	if onBehalfOf != nil && onBehalfOf.Kind() == domain.PartyKindOrganization {
		consumer = onBehalfOf.NorwegianOrganizationNumber
	}
	key := cacheKey(i.cfg.ClientID, consumer, scopes)

	if tok, ok := i.cached(key); ok {
		i.metrics.IncTokenRequest("cache_hit")
		return tok, nil
	}

	i.locks.Lock(key)
	defer i.locks.Unlock(key)

	if tok, ok := i.cached(key); ok {
		i.metrics.IncTokenRequest("cache_hit")
		return tok, nil
	}

	cc := clientcredentials.Config{
		ClientID:     i.cfg.ClientID,
		ClientSecret: i.cfg.ClientSecret,
		TokenURL:     i.cfg.TokenURL,
		Scopes:       strings.Fields(scopes),
	}
	if consumer != "" {
		cc.EndpointParams = url.Values{consumerParam: {consumer}}
	}

	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, i.client))
	if err != nil {
		i.metrics.IncTokenRequest("error")
		i.logger.WarnContext(ctx, "token exchange failed",
			"error", err,
			"scopes", scopes,
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", dErrors.Wrap(err, dErrors.CodeServiceNotAvailable, "could not obtain access token for evidence source")
	}
	i.metrics.IncTokenRequest("issued")

	// oauth2 stamps Expiry from the wall clock; keep the lifetime, not the instant.
	if !tok.Expiry.IsZero() {
		lifetime := time.Until(tok.Expiry) - expirySkew
		i.store(key, cachedToken{token: tok.AccessToken, expiresAt: i.now().Add(lifetime)})
	}
	return tok.AccessToken, nil
}

func (i *Issuer) cached(key string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	c, ok := i.cache[key]
	if !ok || !i.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

func (i *Issuer) store(key string, c cachedToken) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cache[key] = c
}

func cacheKey(clientID, consumer, scopes string) string {
	sum := sha256.Sum256([]byte(strings.Join(strings.Fields(scopes), " ")))
	return clientID + "|" + consumer + "|" + hex.EncodeToString(sum[:8])
}
