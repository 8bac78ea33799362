package ai

import (
	"fmt"
	"strings"

	"up2you.app/storefront/pkg/models"
)

const InventoryReportSystemPrompt = `You are an inventory assistant for a small jewelry and gift shop.
Read the inventory summary and give short, practical notes on:
- which categories carry most of the stock value
- items that need restocking
- anything that looks unusual (empty categories, zero-priced stock)
Answer in at most three short paragraphs.`

// formatInventoryPrompt renders stats and low-stock items as plain text for the model.
func formatInventoryPrompt(stats *models.Stats, lowStock []models.Item, threshold int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Distinct items: %d\n", stats.TotalItems)
	fmt.Fprintf(&b, "Units in stock: %d\n", stats.TotalQuantity)
	fmt.Fprintf(&b, "Stock value: %.2f\n", stats.TotalValue)

	b.WriteString("\nBy category:\n")
	for _, row := range stats.ByCategory {
		name := row.Category
		if name == "" {
			name = "(uncategorized)"
		}
		fmt.Fprintf(&b, "- %s: %d items, %d units\n", name, row.Count, row.Quantity)
	}

	fmt.Fprintf(&b, "\nItems at or below %d units:\n", threshold)
	if len(lowStock) == 0 {
		b.WriteString("- none\n")
	}
	for _, item := range lowStock {
		fmt.Fprintf(&b, "- %s (%d left, price %.2f)\n", item.Name, item.Quantity, item.Price)
	}

	return b.String()
}
