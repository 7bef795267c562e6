package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"broker/internal/evidence/models"
	"broker/internal/platform/metrics"

	"github.com/redis/go-redis/v9"
)

// RedisCache persists the merged catalog in Redis with TTL-based eviction.
type RedisCache struct {
	client  redis.Cmdable
	metrics *metrics.Metrics
}

// NewRedisCache constructs a Redis-backed shared catalog cache.
// Usage: pass a configured Redis client; metrics may be nil.
func NewRedisCache(client redis.Cmdable, m *metrics.Metrics) *RedisCache {
	return &RedisCache{client: client, metrics: m}
}

// Load reads the cached catalog.
//
// Errors: returns ErrNotFound on cache miss; wraps Redis or JSON decode errors.
func (c *RedisCache) Load(ctx context.Context) ([]models.EvidenceCodeDescriptor, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metrics.RecordCatalogLookup("shared", false)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load catalog cache: %w", err)
	}

	var list []models.EvidenceCodeDescriptor
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	c.metrics.RecordCatalogLookup("shared", true)
	return list, nil
}

// Save overwrites the cached catalog. The entry expires after ttl.
func (c *RedisCache) Save(ctx context.Context, list []models.EvidenceCodeDescriptor, ttl time.Duration) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if err := c.client.Set(ctx, catalogKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save catalog cache: %w", err)
	}
	return nil
}
