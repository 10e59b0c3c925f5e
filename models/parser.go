package models

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/usage_reports/utils"
)

// Recognized usage columns. Others are tolerated and ignored.
const (
	colServiceName = "SERVICE NAME"
	colType        = "TYPE"
	colSize        = "SIZE"
	colApplication = "APPLICATION NAME"
	colMonth       = "MONTH"
	colHoursUsed   = "HOURS USED"
)

// DetailGroup is one workspace-group worth of reconciled rows, in the order
// they land on a detailed-report sheet (descending by total price).
type DetailGroup struct {
	OrganizationName string
	WorkspaceGroup   string
	Records          []*UsageRecord
}

type detailGroupKey struct {
	org       string
	workspace string
}

// MergeDetailGroups combines groups sharing the same (organization,
// workspace group) pair into one, re-sorting the merged rows descending by
// total price. The same pair shows up once per usage file (one file per
// month), but the detailed report carries one sheet per pair.
func MergeDetailGroups(groups []DetailGroup) []DetailGroup {
	index := make(map[detailGroupKey]int)
	var out []DetailGroup
	for _, group := range groups {
		key := detailGroupKey{group.OrganizationName, group.WorkspaceGroup}
		if i, ok := index[key]; ok {
			out[i].Records = append(out[i].Records, group.Records...)
			continue
		}
		index[key] = len(out)
		out = append(out, group)
	}
	for i := range out {
		SortByTotalPriceDesc(out[i].Records)
	}
	return out
}

// ParseUsageWorkbook parses every workspace-group sheet of one usage file
// and reconciles each row against the catalog. Sheets matching the
// "TOTAL ... <year>" rollup pattern are skipped and counted. A row is never
// dropped for bad data: unparseable hours, months or missing catalog keys
// degrade to their defaults.
func ParseUsageWorkbook(path string, meta UsageFileMeta, catalog PriceCatalog, roundTotals bool) ([]DetailGroup, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open usage file %s: %w", path, err)
	}
	defer f.Close()

	var groups []DetailGroup
	skippedSheets := 0
	for _, sheet := range f.GetSheetList() {
		if IsTotalSheet(sheet) {
			skippedSheets++
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, 0, fmt.Errorf("cannot read sheet %q of %s: %w", sheet, path, err)
		}
		if len(rows) < 2 {
			continue
		}

		cols := headerIndex(rows[0])
		records := make([]*UsageRecord, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if isEmptyRow(row) {
				continue
			}
			rec := &UsageRecord{
				ServiceName:      utils.NormalizeKey(cellAt(row, colIdx(cols, colServiceName))),
				Type:             utils.NormalizeKey(cellAt(row, colIdx(cols, colType))),
				Size:             utils.NormalizeKey(cellAt(row, colIdx(cols, colSize))),
				ApplicationName:  utils.NormalizeKey(cellAt(row, colIdx(cols, colApplication))),
				Month:            utils.MonthName(utils.NormalizeKey(cellAt(row, colIdx(cols, colMonth)))),
				HoursUsed:        utils.CoerceDecimal(cellAt(row, colIdx(cols, colHoursUsed))),
				OrganizationName: meta.OrganizationName,
				Year:             meta.Year,
				WorkspaceGroup:   sheet,
			}
			reconcileRow(rec, catalog, roundTotals)
			records = append(records, rec)
		}
		if len(records) == 0 {
			continue
		}
		SortByTotalPriceDesc(records)
		groups = append(groups, DetailGroup{
			OrganizationName: meta.OrganizationName,
			WorkspaceGroup:   sheet,
			Records:          records,
		})
	}
	return groups, skippedSheets, nil
}

// reconcileRow fills the derived fields of a parsed record: the catalog
// lookup id, the unit price (missing key degrades to zero) and the total
// price under the run-wide rounding policy.
func reconcileRow(rec *UsageRecord, catalog PriceCatalog, roundTotals bool) {
	rec.UniqueID = rec.ServiceName + "_" + rec.Type + "_" + rec.Size
	rec.UnitPrice = catalog.Lookup(rec.UniqueID)
	total := rec.UnitPrice.Mul(rec.HoursUsed)
	if roundTotals {
		total = total.Round(0)
	}
	rec.TotalPrice = total
}

// colIdx returns -1 for columns absent from the sheet, which cellAt resolves
// to an empty value.
func colIdx(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}
