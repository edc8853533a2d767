// internal/csvio/csvio_test.go
package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFormat(t *testing.T) {
	out := Export([]ExportRow{
		{Name: "Premium Potato Crisps", Category: "Snacks", TotalCO2: 2.456, LastCalculated: "2026-08-31"},
		{Name: "Organic Apple Juice", Category: "Beverages", TotalCO2: 1.2, LastCalculated: "Imported"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `Product Name,Category,CO2 Emissions (kg),Last Calculated`, lines[0])
	assert.Equal(t, `"Premium Potato Crisps","Snacks",2.46,"2026-08-31"`, lines[1])
	assert.Equal(t, `"Organic Apple Juice","Beverages",1.20,"Imported"`, lines[2])
}

func TestExportEmptyListHasHeaderOnly(t *testing.T) {
	out := Export(nil)
	assert.Equal(t, ExportHeader+"\n", out)
}

func TestImportRoundTrip(t *testing.T) {
	rows := []ExportRow{
		{Name: "Crisps", Category: "Snacks", TotalCO2: 2.4, LastCalculated: "Just now"},
		{Name: "Juice", Category: "Beverages", TotalCO2: 0.8, LastCalculated: "Just now"},
		{Name: "Bread", Category: "Baked Goods", TotalCO2: 1.1, LastCalculated: "Imported"},
	}

	result, err := Import(Export(rows))
	require.NoError(t, err)
	require.Len(t, result.Products, len(rows))
	assert.Zero(t, result.Skipped)

	for i, row := range rows {
		assert.Equal(t, row.Name, result.Products[i].Name)
		assert.Equal(t, row.Category, result.Products[i].Category)
	}
}

func TestImportMissingCategoryColumnFails(t *testing.T) {
	text := "name,sku\nCrisps,SKU-1\n"

	result, err := Import(text)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
	assert.Nil(t, result)
}

func TestImportEmptyFileFails(t *testing.T) {
	_, err := Import("  \n ")
	assert.Error(t, err)
}

func TestImportSkipsMalformedRows(t *testing.T) {
	text := strings.Join([]string{
		"name,category,sku",
		`"Crisps","Snacks","SKU-1"`, // well-formed
		"Juice,Beverages",           // trailing field missing
		",Snacks,SKU-3",             // empty name
		"Bread,,SKU-4",              // empty category
	}, "\n")

	result, err := Import(text)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Crisps", result.Products[0].Name)
	assert.Equal(t, "Snacks", result.Products[0].Category)
	assert.Equal(t, 3, result.Skipped)
}

func TestImportIgnoresExtraColumns(t *testing.T) {
	text := "name,category,notes\nCrisps,Snacks,crunchy\n"

	result, err := Import(text)
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Crisps", result.Products[0].Name)
}

func TestImportAcceptsTemplate(t *testing.T) {
	result, err := Import(Template())
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
}
