// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MEMORY STORE TESTS
// =============================================================================

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	got[0] = 'x'
	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), again, "returned slices must not alias stored data")
}

func TestMemoryStore_Miss(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(30 * time.Second)
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "k"))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	store, err := Open(context.Background(), "", "")
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*MemoryStore)
	assert.True(t, ok)
}

// =============================================================================
// REDIS STORE TESTS
// =============================================================================

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, "test:")
	t.Cleanup(func() { store.Close() })
	return mr, store
}

func TestRedisStore_SetGet(t *testing.T) {
	ctx := context.Background()
	mr, store := setupTestRedis(t)

	require.NoError(t, store.Set(ctx, "dataset:reviews", []byte(`{"columns":["a"]}`), time.Hour))

	got, err := store.Get(ctx, "dataset:reviews")
	require.NoError(t, err)
	assert.Equal(t, `{"columns":["a"]}`, string(got))
	assert.True(t, mr.Exists("test:dataset:reviews"), "keys are namespaced")
	assert.Equal(t, time.Hour, mr.TTL("test:dataset:reviews"))
}

func TestRedisStore_MissAndExpiry(t *testing.T) {
	ctx := context.Background()
	mr, store := setupTestRedis(t)

	_, err := store.Get(ctx, "absent")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	_, store := setupTestRedis(t)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Open(context.Background(), "redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer store.Close()

	rs, ok := store.(*RedisStore)
	require.True(t, ok)
	assert.Equal(t, DefaultPrefix, rs.prefix)
}
