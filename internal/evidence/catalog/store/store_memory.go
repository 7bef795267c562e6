package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"broker/internal/evidence/models"
)

// InMemoryCache is the shared tier for single-instance deployments and tests.
// Entries are kept serialized so callers never share descriptor memory.
type InMemoryCache struct {
	mu        sync.RWMutex
	payload   []byte
	expiresAt time.Time
	now       func() time.Time
}

// NewInMemoryCache creates an empty cache. A nil clock uses time.Now.
func NewInMemoryCache(now func() time.Time) *InMemoryCache {
	if now == nil {
		now = time.Now
	}
	return &InMemoryCache{now: now}
}

func (c *InMemoryCache) Load(_ context.Context) ([]models.EvidenceCodeDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.payload == nil || !c.now().Before(c.expiresAt) {
		return nil, ErrNotFound
	}
	var list []models.EvidenceCodeDescriptor
	if err := json.Unmarshal(c.payload, &list); err != nil {
		return nil, fmt.Errorf("decode catalog cache: %w", err)
	}
	return list, nil
}

func (c *InMemoryCache) Save(_ context.Context, list []models.EvidenceCodeDescriptor, ttl time.Duration) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = payload
	c.expiresAt = c.now().Add(ttl)
	return nil
}
