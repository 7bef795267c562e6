// Package httpclient is the outbound HTTP transport shared by every upstream client.
// Each upstream host gets its own circuit breaker.
package httpclient

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"broker/internal/platform/metrics"
	"broker/pkg/platform/circuit"
	"broker/pkg/requestcontext"
)

// Doer is the minimal interface needed from an HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps a Doer with per-host circuit breakers.
type Client struct {
	base        Doer
	breakerOpts []circuit.Option
	metrics     *metrics.Metrics
	logger      *slog.Logger

	mu       sync.Mutex
	breakers map[string]*circuit.Breaker
}

type Option func(*Client)

// WithDoer replaces the underlying transport, mainly for tests.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.base = d
		}
	}
}

// WithTimeout sets an overall per-request timeout on the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.base = &http.Client{Timeout: d}
	}
}

func WithBreakerOptions(opts ...circuit.Option) Option {
	return func(c *Client) {
		c.breakerOpts = append(c.breakerOpts, opts...)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		base:     &http.Client{Timeout: 30 * time.Second},
		logger:   slog.Default(),
		breakers: make(map[string]*circuit.Breaker),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req unless the host's breaker is open. Transport errors and 5xx
// answers count as failures; caller cancellation does not.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	host := req.URL.Host
	b := c.breaker(host)
	if !b.Allow() {
		return nil, ErrCircuitOpen
	}

	if id := requestcontext.RequestID(req.Context()); id != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		if !errors.Is(req.Context().Err(), context.Canceled) {
			c.recordFailure(req.Context(), b, host)
		}
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(req.Context(), b, host)
	} else if _, change := b.RecordSuccess(); change.Closed {
		c.logger.InfoContext(req.Context(), "upstream circuit closed", "host", host)
	}
	return resp, nil
}

// BreakerState exposes a host's breaker state for health reporting and tests.
func (c *Client) BreakerState(host string) circuit.State {
	return c.breaker(host).State()
}

func (c *Client) breaker(host string) *circuit.Breaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.breakers[host]
	if !ok {
		b = circuit.New(host, c.breakerOpts...)
		c.breakers[host] = b
	}
	return b
}

func (c *Client) recordFailure(ctx context.Context, b *circuit.Breaker, host string) {
	if _, change := b.RecordFailure(); change.Opened {
		c.metrics.IncCircuitOpen(host)
		c.logger.WarnContext(ctx, "upstream circuit opened",
			"host", host,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

// RoundTrip lets the client serve as the transport of an *http.Client for
// libraries that insist on one.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.Do(req.Clone(req.Context()))
}

// StdClient returns an *http.Client routed through the breakers.
func (c *Client) StdClient() *http.Client {
	return &http.Client{Transport: c}
}
