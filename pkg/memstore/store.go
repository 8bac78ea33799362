// Package memstore is the in-process fallback backend used when no database is
// configured.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

// Store keeps items in insertion order behind a mutex. Each Store is independent;
// there is no package-level collection.
type Store struct {
	mu    sync.RWMutex
	items []models.Item
	now   func() time.Time
}

var _ storage.Backend = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

func (s *Store) Name() string {
	return "memory"
}

func (s *Store) List(_ context.Context) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Item, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, storage.ErrNotFound
	}
	item := s.items[idx]
	return &item, nil
}

func (s *Store) Insert(_ context.Context, item models.Item) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = uuid.New().String()
	item.Stamp(s.now())
	// Keep CreatedAt monotonic so insertion order and newest-first agree.
	if n := len(s.items); n > 0 && !item.CreatedAt.After(s.items[n-1].CreatedAt) {
		item.CreatedAt = models.NextTimestamp(s.items[n-1].CreatedAt, item.CreatedAt)
		item.UpdatedAt = item.CreatedAt
	}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *Store) Update(_ context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, storage.ErrNotFound
	}
	patch.Apply(&s.items[idx], s.now())
	item := s.items[idx]
	return &item, nil
}

func (s *Store) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return storage.ErrNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
