// Package redis holds the Redis-backed pieces: a read-through item cache and a
// cart snapshot store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

// CachedBackend wraps a storage.Backend with a read-through cache for Get.
// Writes go to the inner backend first and then drop the cached copy. Cache
// errors are logged and never fail the call.
//
// A read-through fill is discarded when the key was invalidated after the
// inner read began, so a concurrent Update or Remove cannot be undone by a
// stale copy. This holds within one process.
type CachedBackend struct {
	inner  storage.Backend
	client *redisclient.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger

	mu    sync.Mutex
	fills map[string]*pendingFill
}

// pendingFill tracks in-flight reads of one key.
type pendingFill struct {
	readers    int
	generation uint64
}

var _ storage.Backend = (*CachedBackend)(nil)

func NewCachedBackend(inner storage.Backend, client *redisclient.Client, ttl time.Duration, logger *slog.Logger) *CachedBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedBackend{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "item-cache"),
		fills:  make(map[string]*pendingFill),
	}
}

func itemKey(id string) string {
	return fmt.Sprintf("item:%s", id)
}

// Name reports the inner backend so callers see where records actually live.
func (c *CachedBackend) Name() string {
	return c.inner.Name()
}

func (c *CachedBackend) List(ctx context.Context) ([]models.Item, error) {
	return c.inner.List(ctx)
}

func (c *CachedBackend) Get(ctx context.Context, id string) (*models.Item, error) {
	if item, ok := c.fromCache(ctx, id); ok {
		return item, nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		generation := c.beginFill(id)
		defer c.endFill(id)

		item, err := c.inner.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		c.fill(ctx, item, generation)
		return item, nil
	})
	if err != nil {
		return nil, err
	}
	item := *v.(*models.Item)
	return &item, nil
}

func (c *CachedBackend) Insert(ctx context.Context, item models.Item) (*models.Item, error) {
	stored, err := c.inner.Insert(ctx, item)
	if err != nil {
		return nil, err
	}
	c.store(ctx, stored)
	return stored, nil
}

func (c *CachedBackend) Update(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	updated, err := c.inner.Update(ctx, id, patch)
	c.invalidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *CachedBackend) Remove(ctx context.Context, id string) error {
	err := c.inner.Remove(ctx, id)
	c.invalidate(ctx, id)
	return err
}

// cachedWithStats keeps the inner backend's native aggregation visible.
type cachedWithStats struct {
	*CachedBackend
	src storage.StatsSource
}

func (c *cachedWithStats) Stats(ctx context.Context) (*models.Stats, error) {
	return c.src.Stats(ctx)
}

// Wrap returns a cached view of inner that preserves inner's StatsSource capability.
func Wrap(inner storage.Backend, client *redisclient.Client, ttl time.Duration, logger *slog.Logger) storage.Backend {
	cached := NewCachedBackend(inner, client, ttl, logger)
	if src, ok := inner.(storage.StatsSource); ok {
		return &cachedWithStats{CachedBackend: cached, src: src}
	}
	return cached
}

func (c *CachedBackend) Ping(ctx context.Context) error {
	if p, ok := c.inner.(storage.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return err
		}
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *CachedBackend) fromCache(ctx context.Context, id string) (*models.Item, bool) {
	data, err := c.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redisclient.Nil) {
			c.logger.Warn("cache read failed", "id", id, "error", err)
		}
		return nil, false
	}

	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		c.logger.Warn("cache entry corrupt", "id", id, "error", err)
		c.invalidate(ctx, id)
		return nil, false
	}
	return &item, true
}

func (c *CachedBackend) store(ctx context.Context, item *models.Item) {
	data, err := json.Marshal(item)
	if err != nil {
		c.logger.Warn("failed to marshal item for cache", "id", item.ID, "error", err)
		return
	}
	if err := c.client.Set(ctx, itemKey(item.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "id", item.ID, "error", err)
	}
}

func (c *CachedBackend) beginFill(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.fills[id]
	if !ok {
		p = &pendingFill{}
		c.fills[id] = p
	}
	p.readers++
	return p.generation
}

func (c *CachedBackend) endFill(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.fills[id]; ok {
		p.readers--
		if p.readers <= 0 {
			delete(c.fills, id)
		}
	}
}

// fill caches item unless the key was invalidated since generation was taken.
// The check and the write happen under mu so an invalidation either sees the
// written entry and deletes it, or bumps the generation first.
func (c *CachedBackend) fill(ctx context.Context, item *models.Item, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.fills[item.ID]; ok && p.generation != generation {
		c.logger.Debug("skipping stale cache fill", "id", item.ID)
		return
	}
	c.store(ctx, item)
}

func (c *CachedBackend) invalidate(ctx context.Context, id string) {
	c.mu.Lock()
	if p, ok := c.fills[id]; ok {
		p.generation++
	}
	c.mu.Unlock()

	if err := c.client.Del(ctx, itemKey(id)).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "id", id, "error", err)
	}
}
