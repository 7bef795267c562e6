package config

import (
	"time"

	platformconfig "broker/internal/platform/config"
	"broker/internal/ratelimit/models"
)

// Config holds the request budgets per endpoint class.
type Config struct {
	// Unauthenticated callers, keyed by client IP.
	IPLimits map[models.EndpointClass]Limit

	// Authenticated callers, keyed by the consumer organization of the token.
	ConsumerLimits map[models.EndpointClass]Limit
}

// Limit is a sliding-window budget.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// DefaultConfig returns the budgets used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		IPLimits: map[models.EndpointClass]Limit{
			models.ClassPublic: {RequestsPerWindow: 120, Window: time.Minute},
		},
		ConsumerLimits: map[models.EndpointClass]Limit{
			models.ClassAuthorize: {RequestsPerWindow: 60, Window: time.Minute},
			models.ClassHarvest:   {RequestsPerWindow: 300, Window: time.Minute},
			models.ClassRead:      {RequestsPerWindow: 300, Window: time.Minute},
		},
	}
}

// FromSettings overlays the environment settings on DefaultConfig. Zero values
// keep the default.
func FromSettings(s platformconfig.RateLimitConfig) *Config {
	cfg := DefaultConfig()
	window := s.Window
	if window <= 0 {
		window = time.Minute
	}
	set := func(m map[models.EndpointClass]Limit, class models.EndpointClass, n int) {
		if n > 0 {
			m[class] = Limit{RequestsPerWindow: n, Window: window}
		}
	}
	set(cfg.IPLimits, models.ClassPublic, s.Public)
	set(cfg.ConsumerLimits, models.ClassAuthorize, s.Authorize)
	set(cfg.ConsumerLimits, models.ClassHarvest, s.Harvest)
	set(cfg.ConsumerLimits, models.ClassRead, s.Read)
	return cfg
}

// GetIPLimit returns the per-IP budget for class.
func (c *Config) GetIPLimit(class models.EndpointClass) (requestsPerWindow int, window time.Duration, ok bool) {
	limit, ok := c.IPLimits[class]
	return limit.RequestsPerWindow, limit.Window, ok
}

// GetConsumerLimit returns the per-consumer budget for class.
func (c *Config) GetConsumerLimit(class models.EndpointClass) (requestsPerWindow int, window time.Duration, ok bool) {
	limit, ok := c.ConsumerLimits[class]
	return limit.RequestsPerWindow, limit.Window, ok
}
