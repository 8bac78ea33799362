// Package inventory owns validation, normalization and aggregate statistics for
// catalog items on top of a storage.Backend.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/stats"
	"up2you.app/storefront/pkg/storage"
)

// Filter narrows ListItems. Zero values match everything.
type Filter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
}

func (f Filter) matches(item *models.Item) bool {
	if f.Category != "" && f.Category != "all" && item.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			return false
		}
	}
	return true
}

// Store is the inventory service. It never retries; backend failures come back
// as ErrNotFound, *storage.UnavailableError or a wrapped error carrying the
// original message.
type Store struct {
	backend storage.Backend
	logger  *slog.Logger
}

// NewStore wraps backend. A nil logger falls back to slog.Default().
func NewStore(backend storage.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backend: backend,
		logger:  logger.With("component", "inventory", "backend", backend.Name()),
	}
}

// BackendName reports which backend was selected at startup.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Ping checks the backend connection when it has one.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(storage.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// AddItem validates input and stores a new item.
func (s *Store) AddItem(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	item, err := newItem(in)
	if err != nil {
		return nil, err
	}

	stored, err := s.backend.Insert(ctx, item)
	if err != nil {
		return nil, s.translate("insert item", err)
	}
	s.logger.Debug("item created", "id", stored.ID, "name", stored.Name)
	return stored, nil
}

// GetItem returns a single item.
func (s *Store) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, s.translate("get item", err)
	}
	return item, nil
}

// ListItems returns items newest first, narrowed by filter. An unprovisioned
// backend yields an empty list.
func (s *Store) ListItems(ctx context.Context, filter Filter) ([]models.Item, error) {
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Item, 0, len(items))
	for i := range items {
		if filter.matches(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// Categories returns the distinct non-empty categories in name order.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, item := range items {
		if item.Category == "" {
			continue
		}
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// UpdateItem applies a partial update. Fields omitted from in keep their value;
// an update that supplies no field at all is rejected.
func (s *Store) UpdateItem(ctx context.Context, id string, in models.ItemInput) (*models.Item, error) {
	patch, err := newPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, &ValidationError{Field: "body", Message: "no fields to update"}
	}

	updated, err := s.backend.Update(ctx, id, patch)
	if err != nil {
		return nil, s.translate("update item", err)
	}
	s.logger.Debug("item updated", "id", id)
	return updated, nil
}

// DeleteItem hard-deletes an item. Carts holding a snapshot of it are unaffected.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := s.backend.Remove(ctx, id); err != nil {
		return s.translate("delete item", err)
	}
	s.logger.Debug("item deleted", "id", id)
	return nil
}

// GetStats aggregates the full item list. An unprovisioned backend yields zero stats.
func (s *Store) GetStats(ctx context.Context) (*models.Stats, error) {
	if src, ok := s.backend.(storage.StatsSource); ok {
		result, err := src.Stats(ctx)
		if err == nil {
			return result, nil
		}
		if storage.IsUnavailable(err) {
			s.logger.Warn("stats unavailable, reporting empty inventory", "error", err)
			empty := stats.Compute(nil)
			return &empty, nil
		}
		return nil, s.translate("aggregate stats", err)
	}

	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	result := stats.Compute(items)
	return &result, nil
}

// LowStock lists items at or below threshold units.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LowStock(items, threshold), nil
}

// ExportFlat flattens every item, in list order, for the CSV formatter. Text
// fields carry no raw line breaks.
func (s *Store) ExportFlat(ctx context.Context) ([]models.FlatRecord, error) {
	items, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.FlatRecord, 0, len(items))
	for _, item := range items {
		records = append(records, models.FlatRecord{
			Name:        cleanText(item.Name),
			Category:    cleanText(item.Category),
			Description: cleanText(item.Description),
			Materials:   cleanText(item.Materials),
			Price:       item.Price,
			Quantity:    item.Quantity,
			Location:    cleanText(item.Location),
		})
	}
	return records, nil
}

func (s *Store) list(ctx context.Context) ([]models.Item, error) {
	items, err := s.backend.List(ctx)
	if err != nil {
		if storage.IsUnavailable(err) {
			s.logger.Warn("backend unavailable, reporting empty inventory", "error", err)
			return []models.Item{}, nil
		}
		return nil, s.translate("list items", err)
	}
	return items, nil
}

func (s *Store) translate(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case storage.IsUnavailable(err):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
