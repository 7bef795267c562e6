package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	platformconfig "broker/internal/platform/config"
	"broker/internal/ratelimit/models"
)

func TestFromSettings(t *testing.T) {
	t.Run("zero settings keep defaults", func(t *testing.T) {
		cfg := FromSettings(platformconfig.RateLimitConfig{})
		n, window, ok := cfg.GetConsumerLimit(models.ClassHarvest)
		assert.True(t, ok)
		assert.Equal(t, 300, n)
		assert.Equal(t, time.Minute, window)
	})

	t.Run("overrides use the configured window", func(t *testing.T) {
		cfg := FromSettings(platformconfig.RateLimitConfig{Window: 10 * time.Second, Public: 5, Authorize: 2})
		n, window, ok := cfg.GetIPLimit(models.ClassPublic)
		assert.True(t, ok)
		assert.Equal(t, 5, n)
		assert.Equal(t, 10*time.Second, window)

		n, _, _ = cfg.GetConsumerLimit(models.ClassAuthorize)
		assert.Equal(t, 2, n)
		n, window, _ = cfg.GetConsumerLimit(models.ClassRead)
		assert.Equal(t, 300, n)
		assert.Equal(t, time.Minute, window)
	})

	t.Run("unknown class is reported", func(t *testing.T) {
		_, _, ok := DefaultConfig().GetIPLimit(models.ClassHarvest)
		assert.False(t, ok)
	})
}
