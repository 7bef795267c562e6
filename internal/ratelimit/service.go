// Package ratelimit enforces request budgets per client IP and per consumer
// organization.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"broker/internal/platform/metrics"
	"broker/internal/platform/privacy"
	"broker/internal/ratelimit/config"
	"broker/internal/ratelimit/models"
	"broker/pkg/requestcontext"
)

// Service checks budgets. It is safe for concurrent use by middleware.
type Service struct {
	buckets BucketStore
	config  *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithConfig replaces config.DefaultConfig.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func New(buckets BucketStore, opts ...Option) *Service {
	if buckets == nil {
		panic("ratelimit.New: bucket store is required")
	}
	s := &Service{
		buckets: buckets,
		config:  config.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIP applies the per-IP budget of class.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	n, window, ok := s.config.GetIPLimit(class)
	return s.check(ctx, models.NewKey(models.KeyPrefixIP, ip, class), n, window, ok, privacy.AnonymizeIP(ip))
}

// CheckConsumer applies the per-consumer budget of class. consumer is a party key.
func (s *Service) CheckConsumer(ctx context.Context, consumer string, class models.EndpointClass) (*models.Result, error) {
	n, window, ok := s.config.GetConsumerLimit(class)
	return s.check(ctx, models.NewKey(models.KeyPrefixConsumer, consumer, class), n, window, ok, privacy.MaskIdentifier(consumer))
}

// check denies classes without a configured budget.
func (s *Service) check(ctx context.Context, key models.Key, limit int, window time.Duration, configured bool, logID string) (*models.Result, error) {
	class := string(key.Class())
	if !configured {
		s.logger.ErrorContext(ctx, "no rate limit configured for endpoint class",
			"endpoint_class", class,
			"key_type", key.Prefix(),
			"identifier", logID,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.IncRateLimitDecision(class, string(key.Prefix()), false)
		return &models.Result{ResetAt: requestcontext.Now(ctx), RetryAfter: 60}, nil
	}

	res, err := s.buckets.Allow(ctx, key.String(), limit, window)
	if err != nil {
		return nil, err
	}
	s.metrics.IncRateLimitDecision(class, string(key.Prefix()), res.Allowed)
	if !res.Allowed {
		s.logger.InfoContext(ctx, "rate limit exceeded",
			"endpoint_class", class,
			"key_type", key.Prefix(),
			"identifier", logID,
			"retry_after", res.RetryAfter,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return res, nil
}
