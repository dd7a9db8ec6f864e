package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryGuardStore struct {
	data map[string]string
}

func newMemoryGuardStore() *memoryGuardStore {
	return &memoryGuardStore{data: map[string]string{}}
}

func (m *memoryGuardStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryGuardStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func TestGuardMarksFirstDeliveryOnly(t *testing.T) {
	guard, err := NewIdempotencyGuard(newMemoryGuardStore(), time.Hour)
	require.NoError(t, err)

	seen, err := guard.CheckAndMark(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestGuardDeleteAllowsRetry(t *testing.T) {
	guard, err := NewIdempotencyGuard(newMemoryGuardStore(), time.Hour)
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "evt-1")
	require.NoError(t, err)
	require.NoError(t, guard.Delete(context.Background(), "evt-1"))

	seen, err := guard.CheckAndMark(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestGuardRequiresEventID(t *testing.T) {
	guard, err := NewIdempotencyGuard(newMemoryGuardStore(), time.Hour)
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)
}
