package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"up2you.app/storefront/pkg/memstore"
	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

// countingBackend records how often Get reaches the inner store.
type countingBackend struct {
	*memstore.Store
	gets atomic.Int32
}

func (c *countingBackend) Get(ctx context.Context, id string) (*models.Item, error) {
	c.gets.Add(1)
	return c.Store.Get(ctx, id)
}

// statsBackend adds a native StatsSource to the memory store.
type statsBackend struct {
	*memstore.Store
}

func (statsBackend) Stats(context.Context) (*models.Stats, error) {
	return &models.Stats{TotalItems: 42}, nil
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redisclient.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(mr.Addr(), "")
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedBackend_ReadThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := &countingBackend{Store: memstore.New()}
	cache := NewCachedBackend(inner, client, time.Hour, nil)
	ctx := context.Background()

	item, err := inner.Insert(ctx, models.Item{Name: "Ring", Price: 10})
	require.NoError(t, err)

	first, err := cache.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ring", first.Name)
	assert.True(t, mr.Exists(itemKey(item.ID)))

	second, err := cache.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int32(1), inner.gets.Load(), "second read should be served from cache")
}

func TestCachedBackend_UpdateInvalidates(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := memstore.New()
	cache := NewCachedBackend(inner, client, time.Hour, nil)
	ctx := context.Background()

	item, err := cache.Insert(ctx, models.Item{Name: "Ring", Price: 10})
	require.NoError(t, err)
	_, err = cache.Get(ctx, item.ID)
	require.NoError(t, err)

	price := 15.0
	_, err = cache.Update(ctx, item.ID, models.ItemPatch{Price: &price})
	require.NoError(t, err)
	assert.False(t, mr.Exists(itemKey(item.ID)))

	got, err := cache.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.Price)
}

func TestCachedBackend_RemoveInvalidates(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewCachedBackend(memstore.New(), client, time.Hour, nil)
	ctx := context.Background()

	item, err := cache.Insert(ctx, models.Item{Name: "Ring"})
	require.NoError(t, err)

	require.NoError(t, cache.Remove(ctx, item.ID))
	_, err = cache.Get(ctx, item.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, cache.Remove(ctx, item.ID), storage.ErrNotFound)
}

func TestCachedBackend_RedisDownFallsThrough(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := memstore.New()
	cache := NewCachedBackend(inner, client, time.Hour, nil)
	ctx := context.Background()

	item, err := inner.Insert(ctx, models.Item{Name: "Ring"})
	require.NoError(t, err)

	mr.Close()

	got, err := cache.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ring", got.Name)
}

func TestWrap_PreservesStatsSource(t *testing.T) {
	_, client := setupTestRedis(t)

	plain := Wrap(memstore.New(), client, time.Hour, nil)
	_, ok := plain.(storage.StatsSource)
	assert.False(t, ok)

	withStats := Wrap(statsBackend{memstore.New()}, client, time.Hour, nil)
	src, ok := withStats.(storage.StatsSource)
	require.True(t, ok)
	got, err := src.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, got.TotalItems)
	assert.Equal(t, "memory", withStats.Name())
}

// stallingBackend holds the first Get after it has read from the store until
// release is closed, so a write can land between the read and the cache fill.
type stallingBackend struct {
	*memstore.Store
	stall   atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func newStallingBackend() *stallingBackend {
	b := &stallingBackend{
		Store:   memstore.New(),
		read:    make(chan struct{}),
		release: make(chan struct{}),
	}
	b.stall.Store(true)
	return b
}

func (b *stallingBackend) Get(ctx context.Context, id string) (*models.Item, error) {
	item, err := b.Store.Get(ctx, id)
	if b.stall.CompareAndSwap(true, false) {
		close(b.read)
		<-b.release
	}
	return item, err
}

func TestCachedBackend_RemoveDuringFillIsNotUndone(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := newStallingBackend()
	cache := NewCachedBackend(inner, client, time.Hour, nil)
	ctx := context.Background()

	item, err := inner.Insert(ctx, models.Item{Name: "Ring", Price: 10})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, item.ID)
		done <- err
	}()

	<-inner.read
	require.NoError(t, cache.Remove(ctx, item.ID))
	close(inner.release)
	require.NoError(t, <-done)

	assert.False(t, mr.Exists(itemKey(item.ID)))
	_, err = cache.Get(ctx, item.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCachedBackend_UpdateDuringFillIsNotUndone(t *testing.T) {
	mr, client := setupTestRedis(t)
	inner := newStallingBackend()
	cache := NewCachedBackend(inner, client, time.Hour, nil)
	ctx := context.Background()

	item, err := inner.Insert(ctx, models.Item{Name: "Ring", Price: 10})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, item.ID)
		done <- err
	}()

	<-inner.read
	price := 25.0
	_, err = cache.Update(ctx, item.ID, models.ItemPatch{Price: &price})
	require.NoError(t, err)
	close(inner.release)
	require.NoError(t, <-done)

	assert.False(t, mr.Exists(itemKey(item.ID)))
	got, err := cache.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.Price)
}

func TestCachedBackend_FillBookkeepingIsReleased(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewCachedBackend(memstore.New(), client, time.Hour, nil)
	ctx := context.Background()

	item, err := cache.Insert(ctx, models.Item{Name: "Ring"})
	require.NoError(t, err)
	require.NoError(t, client.Del(ctx, itemKey(item.ID)).Err())

	_, err = cache.Get(ctx, item.ID)
	require.NoError(t, err)
	_, err = cache.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Empty(t, cache.fills)
}
