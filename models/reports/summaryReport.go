package reports

import (
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/usage_reports/models"
)

// Sheet names of the summary artifact, in creation order.
const (
	sheetConsolidated = "Consolidated Data"
	sheetOrganization = "Organization Summary"
	sheetApplication  = "Application Summary"
	sheetDashboard    = "Dashboard"
)

var usageHeaders = []string{
	"SERVICE NAME", "TYPE", "SIZE", "APPLICATION NAME", "MONTH", "HOURS USED",
	"ORGANIZATION NAME", "YEAR", "WORKSPACE GROUP", "UNIQUE_ID", "PRICE", "TOTAL PRICE",
}

var organizationHeaders = []string{
	"ORGANIZATION NAME", "WORKSPACE GROUP", "MONTH", "YEAR", "HOURS USED", "TOTAL PRICE",
}

var applicationHeaders = []string{
	"ORGANIZATION NAME", "WORKSPACE GROUP", "APPLICATION NAME", "MONTH", "YEAR", "TOTAL PRICE",
}

// BuildSummaryWorkbook renders the consolidated dataset, both summary views
// and the dashboard into one in-memory workbook. Nothing touches disk here;
// the caller saves the file only after the whole pipeline has succeeded.
func BuildSummaryWorkbook(
	consolidated []*models.UsageRecord,
	orgSummary []*models.OrganizationSummaryRow,
	appSummary []*models.ApplicationSummaryRow,
	componentUsage []*models.ComponentUsageRow,
) (*excelize.File, error) {
	f := excelize.NewFile()
	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", sheetConsolidated); err != nil {
		return nil, err
	}
	if err := writeDataSheet(f, sheetConsolidated, usageHeaders, usageRows(consolidated), styles.header); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetOrganization); err != nil {
		return nil, err
	}
	if err := writeDataSheet(f, sheetOrganization, organizationHeaders, organizationRows(orgSummary), styles.header); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetApplication); err != nil {
		return nil, err
	}
	if err := writeDataSheet(f, sheetApplication, applicationHeaders, applicationRows(appSummary), styles.header); err != nil {
		return nil, err
	}

	if err := writeDashboard(f, styles, consolidated, orgSummary, appSummary, componentUsage); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

func usageRows(records []*models.UsageRecord) [][]any {
	rows := make([][]any, len(records))
	for i, rec := range records {
		rows[i] = []any{
			rec.ServiceName, rec.Type, rec.Size, rec.ApplicationName, rec.Month,
			rec.HoursUsed.InexactFloat64(), rec.OrganizationName, rec.Year,
			rec.WorkspaceGroup, rec.UniqueID, rec.UnitPrice.InexactFloat64(),
			rec.TotalPrice.InexactFloat64(),
		}
	}
	return rows
}

func organizationRows(summary []*models.OrganizationSummaryRow) [][]any {
	rows := make([][]any, len(summary))
	for i, row := range summary {
		rows[i] = []any{
			row.OrganizationName, row.WorkspaceGroup, row.Month, row.Year,
			row.HoursUsed.InexactFloat64(), row.TotalPrice.InexactFloat64(),
		}
	}
	return rows
}

func applicationRows(summary []*models.ApplicationSummaryRow) [][]any {
	rows := make([][]any, len(summary))
	for i, row := range summary {
		rows[i] = []any{
			row.OrganizationName, row.WorkspaceGroup, row.ApplicationName,
			row.Month, row.Year, row.TotalPrice.InexactFloat64(),
		}
	}
	return rows
}
