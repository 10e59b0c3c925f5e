package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/usage_reports/utils"
)

// PriceCatalog maps a catalog key (the normalized PRETTY_NAME_TYPE_SIZE
// triple) to a unit price. Built once per run; immutable afterwards.
type PriceCatalog map[string]decimal.Decimal

// Lookup returns the unit price for a key, degrading to zero when absent.
func (c PriceCatalog) Lookup(key string) decimal.Decimal {
	if price, ok := c[key]; ok {
		return price
	}
	return decimal.Zero
}

// BuildCatalogKey joins the normalized identifying triple with "_". Usage
// rows build their UNIQUE_ID the same way, so the two sides join directly.
func BuildCatalogKey(serviceName, typ, size string) string {
	return utils.NormalizeKey(serviceName) + "_" + utils.NormalizeKey(typ) + "_" + utils.NormalizeKey(size)
}

var priceColumns = []string{"PRETTY_NAME", "TYPE", "SIZE", "PRICE"}

// LoadPriceCatalog reads the first sheet of the price workbook into a
// catalog. Header names are trimmed and upper-cased before lookup; the three
// key columns are normalized per field. Later rows overwrite earlier ones on
// key collision. A non-numeric PRICE cell degrades to zero; missing required
// columns are fatal.
func LoadPriceCatalog(path string) (PriceCatalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cannot open price file %s: %v", path, err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SchemaError{File: path, Missing: priceColumns}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("cannot read price sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{File: path, Missing: priceColumns}
	}

	cols := headerIndex(rows[0])
	var missing []string
	for _, name := range priceColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{File: path, Missing: missing}
	}

	catalog := make(PriceCatalog, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		key := BuildCatalogKey(
			cellAt(row, cols["PRETTY_NAME"]),
			cellAt(row, cols["TYPE"]),
			cellAt(row, cols["SIZE"]),
		)
		catalog[key] = utils.CoerceDecimal(cellAt(row, cols["PRICE"]))
	}
	return catalog, nil
}

// headerIndex maps trimmed, upper-cased header names to column indexes.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	return cols
}

// cellAt tolerates short rows: excelize trims trailing empty cells per row,
// and optional columns may be absent entirely.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
