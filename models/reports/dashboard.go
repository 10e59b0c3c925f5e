package reports

import (
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/usage_reports/models"
)

const dashboardTopN = 15

// writeDashboard renders the four fixed-position ranking tables. The layout
// follows the finance team's historical dashboard: tables start at row 3 in
// column B, separated by two blank rows, with columns A-F fixed at width 20.
func writeDashboard(
	f *excelize.File,
	styles *workbookStyles,
	consolidated []*models.UsageRecord,
	orgSummary []*models.OrganizationSummaryRow,
	appSummary []*models.ApplicationSummaryRow,
	componentUsage []*models.ComponentUsageRow,
) error {
	if _, err := f.NewSheet(sheetDashboard); err != nil {
		return err
	}
	row := 3

	topOrgs := models.TopOrganizationsByTotalPrice(orgSummary, dashboardTopN)
	orgRows := make([][]any, len(topOrgs))
	for i, org := range topOrgs {
		orgRows[i] = []any{org.OrganizationName, org.TotalPrice.InexactFloat64()}
	}
	row, err := writeDashboardTable(f, styles, row,
		"Top 15 Organizations by Total Price",
		[]string{"Organization Name", "Total Price"}, orgRows)
	if err != nil {
		return err
	}

	topApps := models.TopApplicationsByTotalPrice(appSummary, dashboardTopN)
	appRows := make([][]any, len(topApps))
	for i, app := range topApps {
		appRows[i] = []any{app.OrganizationName, app.WorkspaceGroup, app.ApplicationName, app.TotalPrice.InexactFloat64()}
	}
	row, err = writeDashboardTable(f, styles, row,
		"Top 15 Applications by Total Price",
		[]string{"Organization Name", "Workspace Group", "Application Name", "Total Price"}, appRows)
	if err != nil {
		return err
	}

	topComponents := models.TopComponentsByHoursUsed(consolidated, dashboardTopN)
	componentRows := make([][]any, len(topComponents))
	for i, comp := range topComponents {
		componentRows[i] = []any{comp.ServiceName, comp.WorkspaceGroup, comp.HoursUsed.InexactFloat64()}
	}
	row, err = writeDashboardTable(f, styles, row,
		"Top 15 Components by Hours Used",
		[]string{"Service Name", "Workspace Group", "Hours Used"}, componentRows)
	if err != nil {
		return err
	}

	usageCountRows := make([][]any, len(componentUsage))
	for i, comp := range componentUsage {
		usageCountRows[i] = []any{comp.ServiceName, comp.Count}
	}
	if _, err = writeDashboardTable(f, styles, row,
		"Count of Components with Hours > 0",
		[]string{"Service Name", "Count"}, usageCountRows); err != nil {
		return err
	}

	return f.SetColWidth(sheetDashboard, "A", "F", 20)
}

// writeDashboardTable writes a titled table starting at the given row in
// column B and returns the first row after the table plus two blank rows.
func writeDashboardTable(f *excelize.File, styles *workbookStyles, row int, title string, headers []string, rows [][]any) (int, error) {
	titleCell, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellValue(sheetDashboard, titleCell, title); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheetDashboard, titleCell, titleCell, styles.title); err != nil {
		return 0, err
	}
	row++

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(2+i, row)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheetDashboard, cell, h); err != nil {
			return 0, err
		}
		if err := f.SetCellStyle(sheetDashboard, cell, cell, styles.header); err != nil {
			return 0, err
		}
	}
	row++

	for _, tableRow := range rows {
		for i, value := range tableRow {
			cell, err := excelize.CoordinatesToCellName(2+i, row)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheetDashboard, cell, value); err != nil {
				return 0, err
			}
			style := styles.textLeft
			switch value.(type) {
			case int, float64:
				style = styles.number
			}
			if err := f.SetCellStyle(sheetDashboard, cell, cell, style); err != nil {
				return 0, err
			}
		}
		row++
	}
	return row + 2, nil
}
