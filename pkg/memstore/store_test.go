package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

func TestStore_InsertAssignsIDAndTimestamps(t *testing.T) {
	s := New()
	ctx := context.Background()

	item, err := s.Insert(ctx, models.Item{Name: "Ring", Price: 10, Quantity: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, item.CreatedAt, item.UpdatedAt)

	found, err := s.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ring", found.Name)
}

func TestStore_ListNewestFirst(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return fixed })
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Insert(ctx, models.Item{Name: name})
		require.NoError(t, err)
	}

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Name)
	assert.Equal(t, "first", items[2].Name)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))
}

func TestStore_UpdateMergesFields(t *testing.T) {
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWithClock(func() time.Time { return fixed })
	ctx := context.Background()

	item, err := s.Insert(ctx, models.Item{Name: "Ring", Price: 10, Quantity: 2, Materials: "gold"})
	require.NoError(t, err)

	qty := 5
	updated, err := s.Update(ctx, item.ID, models.ItemPatch{Quantity: &qty})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 10.0, updated.Price)
	assert.Equal(t, "gold", updated.Materials)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt), "updated_at must advance even with a frozen clock")
}

func TestStore_NotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.Update(ctx, "missing", models.ItemPatch{Name: models.Str("x")})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.Remove(ctx, "missing"), storage.ErrNotFound)
}

func TestStore_RemoveIsHardDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	item, err := s.Insert(ctx, models.Item{Name: "Ring"})
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, item.ID))
	_, err = s.Get(ctx, item.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_ConcurrentInsertsAreAllRetained(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Insert(ctx, models.Item{Name: "concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, n)

	seen := make(map[string]bool, n)
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestStore_InstancesAreIsolated(t *testing.T) {
	a, b := New(), New()
	_, err := a.Insert(context.Background(), models.Item{Name: "only in a"})
	require.NoError(t, err)

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())
}
