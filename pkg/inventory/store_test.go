package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"up2you.app/storefront/pkg/memstore"
	"up2you.app/storefront/pkg/models"
	"up2you.app/storefront/pkg/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(memstore.New(), nil)
}

// brokenBackend fails every call with err.
type brokenBackend struct {
	err error
}

func (b brokenBackend) Name() string { return "broken" }
func (b brokenBackend) List(context.Context) ([]models.Item, error) {
	return nil, b.err
}
func (b brokenBackend) Get(context.Context, string) (*models.Item, error) {
	return nil, b.err
}
func (b brokenBackend) Insert(context.Context, models.Item) (*models.Item, error) {
	return nil, b.err
}
func (b brokenBackend) Update(context.Context, string, models.ItemPatch) (*models.Item, error) {
	return nil, b.err
}
func (b brokenBackend) Remove(context.Context, string) error {
	return b.err
}

func TestAddItem_TrimsNameAndKeepsNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, models.ItemInput{
		Name:     models.Str("  Ring  "),
		Price:    models.Num("10"),
		Quantity: models.Num("2"),
	})
	require.NoError(t, err)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ring", got.Name)
	assert.Equal(t, 10.0, got.Price)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, "", got.Description)
}

func TestAddItem_RejectsEmptyName(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []*string{nil, models.Str(""), models.Str("   "), models.Str("\n")} {
		_, err := s.AddItem(context.Background(), models.ItemInput{Name: name, Price: models.Num("3")})
		require.Error(t, err)
		assert.True(t, IsValidation(err), "expected ValidationError, got %v", err)
	}
}

func TestAddItem_CoercesInvalidNumbers(t *testing.T) {
	tests := []struct {
		name      string
		price     *models.Numeric
		quantity  *models.Numeric
		wantPrice float64
		wantQty   int
	}{
		{"missing", nil, nil, 0, 0},
		{"garbage", models.Num("abc"), models.Num("lots"), 0, 0},
		{"negative", models.Num("-5"), models.Num("-3"), 0, 0},
		{"fractional quantity", models.Num("1.5"), models.Num("3.9"), 1.5, 3},
		{"padded", models.Num(" 7 "), models.Num(" 4 "), 7, 4},
		{"not a number", models.Num("NaN"), models.Num("Inf"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			item, err := s.AddItem(context.Background(), models.ItemInput{
				Name: models.Str("Item"), Price: tt.price, Quantity: tt.quantity,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, item.Price)
			assert.Equal(t, tt.wantQty, item.Quantity)
			assert.GreaterOrEqual(t, item.Price, 0.0)
			assert.GreaterOrEqual(t, item.Quantity, 0)
		})
	}
}

func TestUpdateItem_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, models.ItemInput{
		Name: models.Str("Ring"), Price: models.Num("10"), Quantity: models.Num("1"), Materials: models.Str("silver"),
	})
	require.NoError(t, err)

	updated, err := s.UpdateItem(ctx, item.ID, models.ItemInput{Quantity: models.Num("5")})
	require.NoError(t, err)

	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, 10.0, updated.Price)
	assert.Equal(t, "Ring", updated.Name)
	assert.Equal(t, "silver", updated.Materials)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, item.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))
}

func TestUpdateItem_RevalidatesName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, models.ItemInput{Name: models.Str("Ring")})
	require.NoError(t, err)

	_, err = s.UpdateItem(ctx, item.ID, models.ItemInput{Name: models.Str("  ")})
	assert.True(t, IsValidation(err))

	renamed, err := s.UpdateItem(ctx, item.ID, models.ItemInput{Name: models.Str(" Band ")})
	require.NoError(t, err)
	assert.Equal(t, "Band", renamed.Name)
}

func TestUpdateItem_RejectsEmptyUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, models.ItemInput{Name: models.Str("Ring"), Quantity: models.Num("2")})
	require.NoError(t, err)

	_, err = s.UpdateItem(ctx, item.ID, models.ItemInput{})
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "no fields to update")

	stored, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateItem(context.Background(), "nope", models.ItemInput{Quantity: models.Num("1")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.AddItem(ctx, models.ItemInput{Name: models.Str("Ring")})
	require.NoError(t, err)

	require.NoError(t, s.DeleteItem(ctx, item.ID))

	_, err = s.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteItem(ctx, item.ID), ErrNotFound)
	assert.ErrorIs(t, s.DeleteItem(ctx, "unknown"), ErrNotFound)
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, models.ItemInput{Name: models.Str("a"), Price: models.Num("10"), Quantity: models.Num("2"), Category: models.Str("rings")})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, models.ItemInput{Name: models.Str("b"), Price: models.Num("5"), Quantity: models.Num("1"), Category: models.Str("rings")})
	require.NoError(t, err)

	got, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalItems)
	assert.Equal(t, 3, got.TotalQuantity)
	assert.InDelta(t, 25.0, got.TotalValue, 1e-9)
	require.Len(t, got.ByCategory, 1)
	assert.Equal(t, models.CategoryStats{Category: "rings", Count: 2, Quantity: 3}, got.ByCategory[0])
}

func TestListItems_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := []models.ItemInput{
		{Name: models.Str("Gold Ring"), Category: models.Str("rings"), Price: models.Num("120")},
		{Name: models.Str("Silver Ring"), Category: models.Str("rings"), Price: models.Num("40")},
		{Name: models.Str("Pearl Necklace"), Category: models.Str("necklaces"), Price: models.Num("90"), Description: models.Str("freshwater pearls")},
	}
	for _, in := range seed {
		_, err := s.AddItem(ctx, in)
		require.NoError(t, err)
	}

	all, err := s.ListItems(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Pearl Necklace", all[0].Name, "newest first")

	rings, err := s.ListItems(ctx, Filter{Category: "rings"})
	require.NoError(t, err)
	assert.Len(t, rings, 2)

	minPrice, maxPrice := 50.0, 100.0
	mid, err := s.ListItems(ctx, Filter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	assert.Equal(t, "Pearl Necklace", mid[0].Name)

	search, err := s.ListItems(ctx, Filter{Search: "PEARLS"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	categories, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"necklaces", "rings"}, categories)
}

func TestExportFlat_StripsLineBreaks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, models.ItemInput{
		Name:        models.Str("Ring"),
		Description: models.Str("line one\nline two\r\nline three"),
		Materials:   models.Str("gold, \"18k\""),
		Location:    models.Str("shelf\r2"),
		Price:       models.Num("10"),
		Quantity:    models.Num("2"),
	})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, models.ItemInput{Name: models.Str("Chain")})
	require.NoError(t, err)

	records, err := s.ExportFlat(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Chain", records[0].Name)
	ring := records[1]
	assert.Equal(t, "line one line two line three", ring.Description)
	assert.Equal(t, "gold, \"18k\"", ring.Materials, "quotes and commas are the formatter's job")
	assert.Equal(t, "shelf 2", ring.Location)
	assert.Equal(t, 10.0, ring.Price)
	assert.Equal(t, 2, ring.Quantity)
}

func TestLowStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, models.ItemInput{Name: models.Str("few"), Quantity: models.Num("2")})
	require.NoError(t, err)
	_, err = s.AddItem(ctx, models.ItemInput{Name: models.Str("many"), Quantity: models.Num("50")})
	require.NoError(t, err)

	low, err := s.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "few", low[0].Name)
}

func TestUnavailableBackend_DegradesReadsFailsWrites(t *testing.T) {
	s := NewStore(brokenBackend{err: storage.Unavailable("sql", errors.New("no such table: items"))}, nil)
	ctx := context.Background()

	items, err := s.ListItems(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.TotalItems)

	_, err = s.AddItem(ctx, models.ItemInput{Name: models.Str("Ring")})
	require.Error(t, err)
	assert.True(t, storage.IsUnavailable(err))
	assert.Contains(t, err.Error(), "no such table")
}

func TestBackendFailure_KeepsMessage(t *testing.T) {
	s := NewStore(brokenBackend{err: errors.New("disk full")}, nil)
	ctx := context.Background()

	_, err := s.ListItems(ctx, Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, IsValidation(err))
	assert.NotErrorIs(t, err, ErrNotFound)
}
