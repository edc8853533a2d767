// internal/csvio/csvio.go

// Package csvio implements the flat product-list CSV exchange format.
// The import side deliberately mirrors the dashboard's simple parser:
// rows are split on newlines and commas with no quoted-comma or
// escaped-quote handling. Malformed rows are dropped, not fatal; only a
// missing required header aborts the whole import.
package csvio

import (
	"fmt"
	"strings"
)

// ExportHeader is the fixed four-column export header.
const ExportHeader = `Product Name,Category,CO2 Emissions (kg),Last Calculated`

var requiredHeaders = []string{"name", "category"}

// ExportRow is one serialized product line.
type ExportRow struct {
	Name           string
	Category       string
	TotalCO2       float64
	LastCalculated string
}

// ImportedProduct is one accepted import row. Extra columns beyond
// name/category are ignored.
type ImportedProduct struct {
	Name     string
	Category string
}

// ImportResult carries the accepted rows plus how many were dropped.
type ImportResult struct {
	Products []ImportedProduct
	Skipped  int
}

// Export serializes products in list order. String fields are always
// double-quoted and the emissions figure keeps two decimal places.
func Export(rows []ExportRow) string {
	var b strings.Builder
	b.WriteString(ExportHeader)
	b.WriteString("\n")

	for _, row := range rows {
		fmt.Fprintf(&b, "%q,%q,%.2f,%q\n", row.Name, row.Category, row.TotalCO2, row.LastCalculated)
	}

	return b.String()
}

// Template returns a small sample file for download.
func Template() string {
	return "name,category\nPremium Potato Crisps,Snacks\nOrganic Apple Juice,Beverages\n"
}

// Import parses CSV text. It fails before any row is processed when the
// header is missing a required column; after that, rows are skipped
// (never fatal) when the field count mismatches the header or name or
// category is empty after trimming and de-quoting.
func Import(text string) (*ImportResult, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("file is empty")
	}

	headers := splitFields(lines[0])
	for i, h := range headers {
		headers[i] = normalizeHeader(h)
	}

	var missing []string
	for _, required := range requiredHeaders {
		if !containsField(headers, required) {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{}
	for _, line := range lines[1:] {
		values := splitFields(line)
		if len(values) != len(headers) {
			result.Skipped++
			continue
		}

		record := make(map[string]string, len(headers))
		for i, header := range headers {
			record[header] = values[i]
		}

		if record["name"] == "" || record["category"] == "" {
			result.Skipped++
			continue
		}

		result.Products = append(result.Products, ImportedProduct{
			Name:     record["name"],
			Category: record["category"],
		})
	}

	return result, nil
}

// splitFields splits on commas and strips whitespace and all double
// quotes. Quoted commas are not supported.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, part := range parts {
		fields[i] = strings.ReplaceAll(strings.TrimSpace(part), `"`, "")
	}
	return fields
}

// normalizeHeader lowercases column names and folds the export-side
// labels onto the import names so an exported file can be re-imported.
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	switch h {
	case "product name":
		return "name"
	default:
		return h
	}
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
