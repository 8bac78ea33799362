package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Item is a single catalog/inventory record with a price and stock quantity.
type Item struct {
	ID          string    `json:"id" bson:"_id" gorm:"column:id;primaryKey;size:64"`
	Name        string    `json:"name" bson:"name" gorm:"column:name;not null"`
	Category    string    `json:"category" bson:"category" gorm:"column:category;index"`
	Description string    `json:"description" bson:"description" gorm:"column:description"`
	Materials   string    `json:"materials" bson:"materials" gorm:"column:materials"`
	Location    string    `json:"location" bson:"location" gorm:"column:location"`
	Price       float64   `json:"price" bson:"price" gorm:"column:price;not null;default:0"`
	Quantity    int       `json:"quantity" bson:"quantity" gorm:"column:quantity;not null;default:0"`
	PhotoRef    string    `json:"photo,omitempty" bson:"photo,omitempty" gorm:"column:photo"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" gorm:"column:created_at;autoCreateTime:false;index"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName pins the relational table name for GORM.
func (Item) TableName() string {
	return "items"
}

// Value returns price * quantity, counting negative figures as zero.
func (i *Item) Value() float64 {
	if i.Price <= 0 || i.Quantity <= 0 {
		return 0
	}
	return i.Price * float64(i.Quantity)
}

func (i *Item) IsLowStock(threshold int) bool {
	return i.Quantity <= threshold
}

// ItemPatch carries a partial update. Nil fields keep the stored value.
type ItemPatch struct {
	Name        *string
	Category    *string
	Description *string
	Materials   *string
	Location    *string
	Price       *float64
	Quantity    *int
	PhotoRef    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Description == nil && p.Materials == nil &&
		p.Location == nil && p.Price == nil && p.Quantity == nil && p.PhotoRef == nil
}

// Apply merges the patch into item and stamps UpdatedAt.
func (p ItemPatch) Apply(item *Item, now time.Time) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Materials != nil {
		item.Materials = *p.Materials
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.PhotoRef != nil {
		item.PhotoRef = *p.PhotoRef
	}
	item.UpdatedAt = NextTimestamp(item.UpdatedAt, now)
}

// TimestampPrecision is the coarsest precision among the backends (BSON dates).
const TimestampPrecision = time.Millisecond

// NextTimestamp returns now, or one tick past prev when the clock has not moved on.
func NextTimestamp(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(TimestampPrecision)
	if !now.After(prev) {
		return prev.Add(TimestampPrecision)
	}
	return now
}

// Stamp sets both timestamps for a freshly inserted item.
func (i *Item) Stamp(now time.Time) {
	now = now.UTC().Truncate(TimestampPrecision)
	i.CreatedAt = now
	i.UpdatedAt = now
}

// FlatRecord is the export shape handed to the CSV formatter.
type FlatRecord struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Materials   string  `json:"materials"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Location    string  `json:"location"`
}

// ItemInput is the create/update payload as it arrives from a form or JSON body.
// Numeric fields stay raw so that the inventory store can normalize them.
type ItemInput struct {
	Name        *string  `json:"name" form:"name"`
	Category    *string  `json:"category" form:"category"`
	Description *string  `json:"description" form:"description"`
	Materials   *string  `json:"materials" form:"materials"`
	Location    *string  `json:"location" form:"location"`
	Price       *Numeric `json:"price" form:"price"`
	Quantity    *Numeric `json:"quantity" form:"quantity"`
	PhotoRef    *string  `json:"-" form:"-"`
}

// Numeric holds a number exactly as the client sent it, either as a JSON number or
// a string. Parsing and coercion are left to the inventory store.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(data)
	return nil
}

// Str is a small helper for building inputs and patches.
func Str(s string) *string {
	return &s
}

// Num wraps a raw numeric string.
func Num(s string) *Numeric {
	n := Numeric(s)
	return &n
}
