package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// OrganizationSummaryRow aggregates hours and total price per
// (organization, workspace group, month, year).
type OrganizationSummaryRow struct {
	OrganizationName string
	WorkspaceGroup   string
	Month            string
	Year             int
	HoursUsed        decimal.Decimal
	TotalPrice       decimal.Decimal
}

// ApplicationSummaryRow aggregates total price per
// (organization, workspace group, application, month, year).
type ApplicationSummaryRow struct {
	OrganizationName string
	WorkspaceGroup   string
	ApplicationName  string
	Month            string
	Year             int
	TotalPrice       decimal.Decimal
}

// ComponentUsageRow counts records with positive hours per service name.
type ComponentUsageRow struct {
	ServiceName string
	Count       int
}

// SortByTotalPriceDesc sorts records descending by total price.
// Ties keep input order.
func SortByTotalPriceDesc(records []*UsageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].TotalPrice.GreaterThan(records[j].TotalPrice)
	})
}

type orgGroupKey struct {
	org       string
	workspace string
	month     string
	year      int
}

// BuildOrganizationSummary groups the consolidated dataset by
// (organization, workspace, month, year), summing hours and total price,
// sorted descending by total price.
func BuildOrganizationSummary(records []*UsageRecord) []*OrganizationSummaryRow {
	index := make(map[orgGroupKey]*OrganizationSummaryRow)
	var out []*OrganizationSummaryRow
	for _, rec := range records {
		key := orgGroupKey{rec.OrganizationName, rec.WorkspaceGroup, rec.Month, rec.Year}
		row, ok := index[key]
		if !ok {
			row = &OrganizationSummaryRow{
				OrganizationName: rec.OrganizationName,
				WorkspaceGroup:   rec.WorkspaceGroup,
				Month:            rec.Month,
				Year:             rec.Year,
			}
			index[key] = row
			out = append(out, row)
		}
		row.HoursUsed = row.HoursUsed.Add(rec.HoursUsed)
		row.TotalPrice = row.TotalPrice.Add(rec.TotalPrice)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice.GreaterThan(out[j].TotalPrice)
	})
	return out
}

type appGroupKey struct {
	org         string
	workspace   string
	application string
	month       string
	year        int
}

// BuildApplicationSummary groups the consolidated dataset by
// (organization, workspace, application, month, year), summing total price,
// sorted descending by total price.
func BuildApplicationSummary(records []*UsageRecord) []*ApplicationSummaryRow {
	index := make(map[appGroupKey]*ApplicationSummaryRow)
	var out []*ApplicationSummaryRow
	for _, rec := range records {
		key := appGroupKey{rec.OrganizationName, rec.WorkspaceGroup, rec.ApplicationName, rec.Month, rec.Year}
		row, ok := index[key]
		if !ok {
			row = &ApplicationSummaryRow{
				OrganizationName: rec.OrganizationName,
				WorkspaceGroup:   rec.WorkspaceGroup,
				ApplicationName:  rec.ApplicationName,
				Month:            rec.Month,
				Year:             rec.Year,
			}
			index[key] = row
			out = append(out, row)
		}
		row.TotalPrice = row.TotalPrice.Add(rec.TotalPrice)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice.GreaterThan(out[j].TotalPrice)
	})
	return out
}

// BuildComponentUsageSummary counts records with hours used > 0 per service
// name, sorted descending by count.
func BuildComponentUsageSummary(records []*UsageRecord) []*ComponentUsageRow {
	index := make(map[string]*ComponentUsageRow)
	var out []*ComponentUsageRow
	for _, rec := range records {
		if !rec.HoursUsed.IsPositive() {
			continue
		}
		row, ok := index[rec.ServiceName]
		if !ok {
			row = &ComponentUsageRow{ServiceName: rec.ServiceName}
			index[rec.ServiceName] = row
			out = append(out, row)
		}
		row.Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopOrganizationRow is one dashboard ranking row: an organization's total
// price across all workspaces, months and years.
type TopOrganizationRow struct {
	OrganizationName string
	TotalPrice       decimal.Decimal
}

// TopOrganizationsByTotalPrice folds the organization summary down to one
// row per organization and returns the n highest by total price.
func TopOrganizationsByTotalPrice(summary []*OrganizationSummaryRow, n int) []*TopOrganizationRow {
	index := make(map[string]*TopOrganizationRow)
	var out []*TopOrganizationRow
	for _, row := range summary {
		top, ok := index[row.OrganizationName]
		if !ok {
			top = &TopOrganizationRow{OrganizationName: row.OrganizationName}
			index[row.OrganizationName] = top
			out = append(out, top)
		}
		top.TotalPrice = top.TotalPrice.Add(row.TotalPrice)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPrice.GreaterThan(out[j].TotalPrice)
	})
	return headOf(out, n)
}

// TopApplicationsByTotalPrice ranks application summary rows directly on
// total price and returns the n largest. The ranking is explicit rather
// than relying on the summary's upstream sort order.
func TopApplicationsByTotalPrice(summary []*ApplicationSummaryRow, n int) []*ApplicationSummaryRow {
	ranked := make([]*ApplicationSummaryRow, len(summary))
	copy(ranked, summary)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPrice.GreaterThan(ranked[j].TotalPrice)
	})
	return headOf(ranked, n)
}

// ComponentHoursRow is one dashboard ranking row: hours used summed per
// (service name, workspace group).
type ComponentHoursRow struct {
	ServiceName    string
	WorkspaceGroup string
	HoursUsed      decimal.Decimal
}

type componentHoursKey struct {
	service   string
	workspace string
}

// TopComponentsByHoursUsed groups the consolidated dataset by
// (service name, workspace group), sums hours used, and returns the n
// highest.
func TopComponentsByHoursUsed(records []*UsageRecord, n int) []*ComponentHoursRow {
	index := make(map[componentHoursKey]*ComponentHoursRow)
	var out []*ComponentHoursRow
	for _, rec := range records {
		key := componentHoursKey{rec.ServiceName, rec.WorkspaceGroup}
		row, ok := index[key]
		if !ok {
			row = &ComponentHoursRow{ServiceName: rec.ServiceName, WorkspaceGroup: rec.WorkspaceGroup}
			index[key] = row
			out = append(out, row)
		}
		row.HoursUsed = row.HoursUsed.Add(rec.HoursUsed)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HoursUsed.GreaterThan(out[j].HoursUsed)
	})
	return headOf(out, n)
}

func headOf[T any](rows []T, n int) []T {
	if n < len(rows) {
		return rows[:n]
	}
	return rows
}
