package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/juicejoy/juicejoy-backend/pkg/redis"
)

type memoryLockStore struct {
	data map[string]string
}

func newMemoryLockStore() *memoryLockStore {
	return &memoryLockStore{data: map[string]string{}}
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := m.data[key]; exists {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryLockStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return value, nil
}

func (m *memoryLockStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestRedisLockAcquireIsExclusive(t *testing.T) {
	store := newMemoryLockStore()

	first, err := NewRedisLock(store, "deliveries", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "deliveries", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLockReleaseAllowsReacquire(t *testing.T) {
	store := newMemoryLockStore()

	lock, err := NewRedisLock(store, "deliveries", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Release(context.Background()))

	ok, err = lock.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockReleaseIgnoresStolenLock(t *testing.T) {
	store := newMemoryLockStore()

	lock, err := NewRedisLock(store, "deliveries", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// Simulate TTL expiry plus another instance grabbing the key.
	store.data["deliveries"] = "someone-else"

	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, "someone-else", store.data["deliveries"])
}
