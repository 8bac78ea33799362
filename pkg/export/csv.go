// Package export renders flattened inventory records for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"up2you.app/storefront/pkg/models"
)

// Header is the fixed CSV column order.
var Header = []string{"Name", "Category", "Description", "Materials", "Price", "Quantity", "Location"}

// ContentType and Filename are what the HTTP download advertises.
const (
	ContentType = "text/csv"
	Filename    = "inventory.csv"
)

// WriteCSV writes the header followed by one row per record.
func WriteCSV(w io.Writer, records []models.FlatRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Name,
			r.Category,
			r.Description,
			r.Materials,
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			strconv.Itoa(r.Quantity),
			r.Location,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
