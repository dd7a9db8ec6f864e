package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juicejoy/juicejoy-backend/pkg/redis"
)

const guardScope = "payment"

type guardStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// IdempotencyGuard remembers processed callback event ids so a retried
// delivery never places the same order twice.
type IdempotencyGuard struct {
	store guardStore
	ttl   time.Duration
}

func NewIdempotencyGuard(store guardStore, ttl time.Duration) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &IdempotencyGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark reports whether the event was already handled and, if not,
// marks it as handled in the same round trip.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := redis.IdempotencyKey(guardScope, eventID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Delete clears the mark so a failed handler run can be retried.
func (g *IdempotencyGuard) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return g.store.Del(ctx, redis.IdempotencyKey(guardScope, eventID))
}
