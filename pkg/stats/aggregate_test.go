package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"up2you.app/storefront/pkg/models"
)

func TestCompute_Totals(t *testing.T) {
	got := Compute([]models.Item{
		{Name: "a", Price: 10, Quantity: 2},
		{Name: "b", Price: 5, Quantity: 1},
	})

	assert.Equal(t, 2, got.TotalItems)
	assert.Equal(t, 3, got.TotalQuantity)
	assert.InDelta(t, 25.0, got.TotalValue, 1e-9)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil)

	assert.Equal(t, 0, got.TotalItems)
	assert.Equal(t, 0, got.TotalQuantity)
	assert.Zero(t, got.TotalValue)
	assert.NotNil(t, got.ByCategory)
	assert.Empty(t, got.ByCategory)
}

func TestCompute_CategoryBreakdown(t *testing.T) {
	got := Compute([]models.Item{
		{Name: "ring", Category: "rings", Price: 100, Quantity: 1},
		{Name: "band", Category: "rings", Price: 50, Quantity: 4},
		{Name: "chain", Category: "necklaces", Price: 80, Quantity: 2},
		{Name: "misc", Price: 1, Quantity: 7},
	})

	require.Len(t, got.ByCategory, 3)
	assert.Equal(t, models.CategoryStats{Category: "", Count: 1, Quantity: 7}, got.ByCategory[0])
	assert.Equal(t, models.CategoryStats{Category: "necklaces", Count: 1, Quantity: 2}, got.ByCategory[1])
	assert.Equal(t, models.CategoryStats{Category: "rings", Count: 2, Quantity: 5}, got.ByCategory[2])
}

func TestCompute_InvalidFiguresCountAsZero(t *testing.T) {
	got := Compute([]models.Item{
		{Name: "nan", Price: math.NaN(), Quantity: 3},
		{Name: "neg", Price: -4, Quantity: -2},
		{Name: "ok", Price: 2, Quantity: 2},
	})

	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, 5, got.TotalQuantity)
	assert.InDelta(t, 4.0, got.TotalValue, 1e-9)
}

func TestLowStock(t *testing.T) {
	items := []models.Item{
		{Name: "empty", Quantity: 0},
		{Name: "plenty", Quantity: 20},
		{Name: "few", Quantity: 3},
	}

	low := LowStock(items, 3)
	require.Len(t, low, 2)
	assert.Equal(t, "empty", low[0].Name)
	assert.Equal(t, "few", low[1].Name)
}
