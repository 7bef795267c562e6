package ratelimit

import (
	"context"
	"time"

	"broker/internal/ratelimit/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks BucketStore

// BucketStore consumes sliding-window budgets.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}
