// Package stats derives summary figures from a snapshot of items.
package stats

import (
	"math"
	"sort"

	"up2you.app/storefront/pkg/models"
)

// Compute returns total count, summed quantity, summed price*quantity and a
// per-category breakdown ordered by category name. Negative or NaN figures count
// as zero. Uncategorized items are grouped under "".
func Compute(items []models.Item) models.Stats {
	result := models.Stats{ByCategory: []models.CategoryStats{}}
	byCategory := make(map[string]*models.CategoryStats)

	for i := range items {
		qty := nonNegativeInt(items[i].Quantity)
		price := nonNegative(items[i].Price)

		result.TotalItems++
		result.TotalQuantity += qty
		result.TotalValue += price * float64(qty)

		row, ok := byCategory[items[i].Category]
		if !ok {
			row = &models.CategoryStats{Category: items[i].Category}
			byCategory[items[i].Category] = row
		}
		row.Count++
		row.Quantity += qty
	}

	for _, row := range byCategory {
		result.ByCategory = append(result.ByCategory, *row)
	}
	sort.Slice(result.ByCategory, func(i, j int) bool {
		return result.ByCategory[i].Category < result.ByCategory[j].Category
	})

	return result
}

// LowStock returns the items whose quantity is at or below threshold, preserving order.
func LowStock(items []models.Item, threshold int) []models.Item {
	out := []models.Item{}
	for i := range items {
		if items[i].IsLowStock(threshold) {
			out = append(out, items[i])
		}
	}
	return out
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func nonNegativeInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
