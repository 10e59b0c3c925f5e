package reports

import (
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/usage_reports/models"
)

func TestBuildSummaryWorkbookSheets(t *testing.T) {
	consolidated := []*models.UsageRecord{
		{
			ServiceName:      "WEBAPP",
			Type:             "STANDARD",
			Size:             "LARGE",
			ApplicationName:  "BILLING",
			Month:            "July",
			OrganizationName: "Acme",
			Year:             2024,
			WorkspaceGroup:   "W1",
			UniqueID:         "WEBAPP_STANDARD_LARGE",
			HoursUsed:        decimal.NewFromInt(5),
			UnitPrice:        decimal.NewFromInt(10),
			TotalPrice:       decimal.NewFromInt(50),
		},
	}
	orgSummary := models.BuildOrganizationSummary(consolidated)
	appSummary := models.BuildApplicationSummary(consolidated)
	componentUsage := models.BuildComponentUsageSummary(consolidated)

	f, err := BuildSummaryWorkbook(consolidated, orgSummary, appSummary, componentUsage)
	if err != nil {
		t.Fatalf("BuildSummaryWorkbook error: %v", err)
	}

	sheets := f.GetSheetList()
	want := []string{sheetConsolidated, sheetOrganization, sheetApplication, sheetDashboard}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("expected sheets %v, got %v", want, sheets)
		}
	}

	got, err := f.GetCellValue(sheetConsolidated, "L1")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "TOTAL PRICE" {
		t.Fatalf("expected last consolidated header TOTAL PRICE, got %q", got)
	}
	got, err = f.GetCellValue(sheetConsolidated, "L2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "50" {
		t.Fatalf("expected total price 50, got %q", got)
	}

	got, err = f.GetCellValue(sheetOrganization, "F2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "50" {
		t.Fatalf("expected organization total 50, got %q", got)
	}
	got, err = f.GetCellValue(sheetApplication, "C2")
	if err != nil {
		t.Fatalf("GetCellValue error: %v", err)
	}
	if got != "BILLING" {
		t.Fatalf("expected application name, got %q", got)
	}
}

func TestBuildSummaryWorkbookDashboardLayout(t *testing.T) {
	consolidated := []*models.UsageRecord{
		{
			ServiceName:      "WEBAPP",
			ApplicationName:  "BILLING",
			Month:            "July",
			OrganizationName: "Acme",
			Year:             2024,
			WorkspaceGroup:   "W1",
			HoursUsed:        decimal.NewFromInt(5),
			TotalPrice:       decimal.NewFromInt(50),
		},
		{
			ServiceName:      "DATABASE",
			ApplicationName:  "CRM",
			Month:            "July",
			OrganizationName: "Globex",
			Year:             2024,
			WorkspaceGroup:   "W1",
			HoursUsed:        decimal.NewFromInt(2),
			TotalPrice:       decimal.NewFromInt(5),
		},
	}
	orgSummary := models.BuildOrganizationSummary(consolidated)
	appSummary := models.BuildApplicationSummary(consolidated)
	componentUsage := models.BuildComponentUsageSummary(consolidated)

	f, err := BuildSummaryWorkbook(consolidated, orgSummary, appSummary, componentUsage)
	if err != nil {
		t.Fatalf("BuildSummaryWorkbook error: %v", err)
	}

	checks := []struct {
		cell string
		want string
	}{
		// First table: title row 3, headers row 4, two data rows.
		{"B3", "Top 15 Organizations by Total Price"},
		{"B4", "Organization Name"},
		{"B5", "Acme"},
		{"C5", "50"},
		{"B6", "Globex"},
		// Two blank rows after row 6, next title at row 9.
		{"B9", "Top 15 Applications by Total Price"},
		{"B11", "Acme"},
		{"D11", "BILLING"},
		{"B15", "Top 15 Components by Hours Used"},
		{"B17", "WEBAPP"},
		{"D17", "5"},
		{"B21", "Count of Components with Hours > 0"},
		{"B23", "WEBAPP"},
		{"C23", "1"},
	}
	for _, check := range checks {
		got, err := f.GetCellValue(sheetDashboard, check.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error: %v", check.cell, err)
		}
		if got != check.want {
			t.Fatalf("dashboard %s: expected %q, got %q", check.cell, check.want, got)
		}
	}
}
