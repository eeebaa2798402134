package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	return rds, mr
}

func TestIdempotencyStorage(t *testing.T) {
	rds, mr := newRedis(t)
	s := NewIdempotencyStorage(rds)
	ctx := context.Background()

	ok, err := s.Acquire(ctx, 7, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, 7, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// keys are per customer
	ok, err = s.Acquire(ctx, 8, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	id, found := s.OrderID(ctx, 7, "k1")
	assert.True(t, found)
	assert.Zero(t, id)

	require.NoError(t, s.Complete(ctx, 7, "k1", 99, time.Minute))
	id, found = s.OrderID(ctx, 7, "k1")
	assert.True(t, found)
	assert.Equal(t, int64(99), id)

	require.NoError(t, s.Release(ctx, 8, "k1"))
	ok, err = s.Acquire(ctx, 8, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = s.Acquire(ctx, 7, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdempotencyStorage_NoRedis(t *testing.T) {
	s := NewIdempotencyStorage(nil)
	ok, err := s.Acquire(context.Background(), 1, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	_, found := s.OrderID(context.Background(), 1, "k")
	assert.False(t, found)
}

func TestStatsStorage(t *testing.T) {
	rds, mr := newRedis(t)
	s := NewStatsStorage(rds)
	ctx := context.Background()

	type payload struct {
		Total int `json:"total"`
	}
	var got payload
	assert.False(t, s.Get(ctx, "admin", 0, &got))

	require.NoError(t, s.Set(ctx, "admin", 0, payload{Total: 3}, time.Minute))
	assert.True(t, s.Get(ctx, "admin", 0, &got))
	assert.Equal(t, 3, got.Total)

	// ttl 0 disables caching
	require.NoError(t, s.Set(ctx, "seller", 5, payload{Total: 1}, 0))
	assert.False(t, s.Get(ctx, "seller", 5, &got))

	mr.FastForward(2 * time.Minute)
	assert.False(t, s.Get(ctx, "admin", 0, &got))
}
