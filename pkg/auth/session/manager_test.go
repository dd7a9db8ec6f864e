package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/juicejoy/juicejoy-backend/pkg/redis"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = "1"
	_ = value
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", redisclient.Nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "jj:session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Minute}, store
}

func TestCreateThenHasSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "token-1"))

	live, err := mgr.HasSession(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, live)
}

func TestHasSessionMissReturnsFalse(t *testing.T) {
	mgr, _ := newTestManager()

	live, err := mgr.HasSession(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestRevokeRemovesSession(t *testing.T) {
	mgr, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, mgr.Create(ctx, "token-2"))
	require.NoError(t, mgr.Revoke(ctx, "token-2"))

	live, err := mgr.HasSession(ctx, "token-2")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestCreateRequiresAccessID(t *testing.T) {
	mgr, _ := newTestManager()
	assert.Error(t, mgr.Create(context.Background(), "  "))
}
