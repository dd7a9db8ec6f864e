package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/juicejoy/juicejoy-backend/pkg/errors"
	"github.com/juicejoy/juicejoy-backend/pkg/redis"
)

// Carts idle longer than this are dropped by Redis.
const cartTTL = 30 * 24 * time.Hour

// KV is the slice of the Redis client the store needs.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Store persists carts in Redis keyed by user id.
type Store struct {
	kv KV
}

// NewStore builds a cart store backed by the provided key/value client.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the user's cart, or an empty cart when none is stored.
func (s *Store) Load(ctx context.Context, userID uuid.UUID) (Cart, error) {
	raw, err := s.kv.Get(ctx, redis.CartKey(userID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, nil
		}
		return Cart{}, errors.Wrap(errors.CodeDependency, err, "loading cart")
	}

	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}, errors.Wrap(errors.CodeInternal, err, "decoding stored cart")
	}
	return c, nil
}

// Save writes the cart back, refreshing its TTL. An empty cart deletes the key
// instead of storing a blank value.
func (s *Store) Save(ctx context.Context, userID uuid.UUID, c Cart) error {
	if c.IsEmpty() {
		return s.Clear(ctx, userID)
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding cart")
	}
	if err := s.kv.Set(ctx, redis.CartKey(userID), payload, cartTTL); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving cart")
	}
	return nil
}

// Clear removes the stored cart.
func (s *Store) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.kv.Del(ctx, redis.CartKey(userID)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "clearing cart")
	}
	return nil
}
