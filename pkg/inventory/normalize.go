package inventory

import (
	"math"
	"strconv"
	"strings"

	"up2you.app/storefront/pkg/models"
)

var newlines = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// cleanText removes raw line breaks so exported rows stay on one line.
func cleanText(s string) string {
	return newlines.Replace(s)
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := cleanText(*s)
	return &v
}

// parsePrice coerces missing, unparsable or negative input to 0.
func parsePrice(raw *models.Numeric) float64 {
	if raw == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(*raw)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// parseQuantity coerces missing, unparsable or negative input to 0. Fractional
// input is truncated.
func parseQuantity(raw *models.Numeric) int {
	if raw == nil {
		return 0
	}
	s := strings.TrimSpace(string(*raw))
	if v, err := strconv.Atoi(s); err == nil {
		return max(v, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func validateName(name *string) (string, error) {
	if name == nil {
		return "", &ValidationError{Field: "name", Message: "item name required"}
	}
	trimmed := strings.TrimSpace(cleanText(*name))
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Message: "item name required"}
	}
	return trimmed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// newItem validates and normalizes a create payload.
func newItem(in models.ItemInput) (models.Item, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return models.Item{}, err
	}
	return models.Item{
		Name:        name,
		Category:    strings.TrimSpace(cleanText(deref(in.Category))),
		Description: cleanText(deref(in.Description)),
		Materials:   cleanText(deref(in.Materials)),
		Location:    cleanText(deref(in.Location)),
		Price:       parsePrice(in.Price),
		Quantity:    parseQuantity(in.Quantity),
		PhotoRef:    deref(in.PhotoRef),
	}, nil
}

// newPatch validates and normalizes an update payload. Omitted fields stay nil.
func newPatch(in models.ItemInput) (models.ItemPatch, error) {
	var patch models.ItemPatch
	if in.Name != nil {
		name, err := validateName(in.Name)
		if err != nil {
			return patch, err
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(cleanText(*in.Category))
		patch.Category = &category
	}
	patch.Description = cleanOptional(in.Description)
	patch.Materials = cleanOptional(in.Materials)
	patch.Location = cleanOptional(in.Location)
	if in.Price != nil {
		price := parsePrice(in.Price)
		patch.Price = &price
	}
	if in.Quantity != nil {
		qty := parseQuantity(in.Quantity)
		patch.Quantity = &qty
	}
	patch.PhotoRef = in.PhotoRef
	return patch, nil
}
