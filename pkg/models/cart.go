package models

import "fmt"

// ProductSnapshot is the display-relevant copy of an Item captured when it is added
// to a cart. Later changes to the Item do not touch it.
type ProductSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category"`
	Images   []string `json:"images"`
	IsBundle bool     `json:"is_bundle"`
}

// SnapshotOf copies the cart-relevant fields of an item.
func SnapshotOf(item *Item) ProductSnapshot {
	images := []string{}
	if item.PhotoRef != "" {
		images = append(images, item.PhotoRef)
	}
	return ProductSnapshot{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Category: item.Category,
		Images:   images,
	}
}

// CartLine is one accumulated purchase-intent entry.
type CartLine struct {
	LineID   string          `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	IsBundle bool            `json:"is_bundle"`
}

// Subtotal is price * quantity for the line.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// NewLineID derives a line id from the product id and the creation instant.
func NewLineID(productID string, unixMillis int64) string {
	return fmt.Sprintf("%s-%d", productID, unixMillis)
}

// CartView is the read model returned to clients.
type CartView struct {
	SessionID string     `json:"session_id"`
	Items     []CartLine `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
}

type AddToCartRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}
