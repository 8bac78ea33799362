package models

// CategoryStats is one row of the per-category breakdown.
type CategoryStats struct {
	Category string `json:"category" bson:"_id"`
	Count    int    `json:"count" bson:"count"`
	Quantity int    `json:"qty" bson:"qty"`
}

// Stats summarizes the whole inventory.
type Stats struct {
	TotalItems    int             `json:"total_items" bson:"total_items"`
	TotalQuantity int             `json:"total_quantity" bson:"total_quantity"`
	TotalValue    float64         `json:"total_value" bson:"total_value"`
	ByCategory    []CategoryStats `json:"by_category" bson:"by_category"`
}
