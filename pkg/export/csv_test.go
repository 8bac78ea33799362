package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"up2you.app/storefront/pkg/models"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []models.FlatRecord{
		{Name: "Ring, gold", Category: "rings", Description: `say "hi"`, Price: 12.5, Quantity: 3, Location: "A1"},
		{Name: "Chain", Price: 0, Quantity: 0},
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"Ring, gold", "rings", `say "hi"`, "", "12.5", "3", "A1"}, rows[1])
	assert.Equal(t, []string{"Chain", "", "", "", "0", "0", ""}, rows[2])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Name,Category,Description,Materials,Price,Quantity,Location\n", buf.String())
}
