package models

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func usageRecord(org, workspace, service, app, month string, year int, hours, total int64) *UsageRecord {
	return &UsageRecord{
		ServiceName:      service,
		ApplicationName:  app,
		Month:            month,
		OrganizationName: org,
		Year:             year,
		WorkspaceGroup:   workspace,
		HoursUsed:        decimal.NewFromInt(hours),
		TotalPrice:       decimal.NewFromInt(total),
	}
}

func TestSortByTotalPriceDescStableTies(t *testing.T) {
	a := usageRecord("Acme", "W1", "A", "", "July", 2024, 1, 10)
	b := usageRecord("Acme", "W1", "B", "", "July", 2024, 1, 30)
	c := usageRecord("Acme", "W1", "C", "", "July", 2024, 1, 10)
	records := []*UsageRecord{a, b, c}

	SortByTotalPriceDesc(records)

	if records[0] != b {
		t.Fatalf("expected largest first, got %s", records[0].ServiceName)
	}
	// a and c tie on 10; a came first in the input and must stay first.
	if records[1] != a || records[2] != c {
		t.Fatalf("ties must keep input order, got %s then %s", records[1].ServiceName, records[2].ServiceName)
	}
}

func TestBuildOrganizationSummary(t *testing.T) {
	records := []*UsageRecord{
		usageRecord("Acme", "W1", "A", "", "July", 2024, 2, 20),
		usageRecord("Acme", "W1", "B", "", "July", 2024, 3, 30),
		usageRecord("Acme", "W2", "A", "", "July", 2024, 1, 100),
		usageRecord("Globex", "W1", "A", "", "July", 2024, 4, 5),
	}

	summary := BuildOrganizationSummary(records)
	if len(summary) != 3 {
		t.Fatalf("expected 3 summary rows, got %d", len(summary))
	}

	// Descending by total price: Acme/W2 100, Acme/W1 50, Globex/W1 5.
	if summary[0].OrganizationName != "Acme" || summary[0].WorkspaceGroup != "W2" {
		t.Fatalf("unexpected first row: %+v", summary[0])
	}
	if summary[1].WorkspaceGroup != "W1" || summary[1].TotalPrice.String() != "50" {
		t.Fatalf("Acme/W1 expected total 50, got %+v", summary[1])
	}
	if summary[1].HoursUsed.String() != "5" {
		t.Fatalf("Acme/W1 expected 5 hours, got %s", summary[1].HoursUsed.String())
	}
	if summary[2].OrganizationName != "Globex" {
		t.Fatalf("unexpected last row: %+v", summary[2])
	}
}

func TestBuildApplicationSummary(t *testing.T) {
	records := []*UsageRecord{
		usageRecord("Acme", "W1", "A", "billing", "July", 2024, 1, 10),
		usageRecord("Acme", "W1", "B", "billing", "July", 2024, 1, 15),
		usageRecord("Acme", "W1", "A", "crm", "July", 2024, 1, 40),
		usageRecord("Acme", "W1", "A", "billing", "August", 2024, 1, 7),
	}

	summary := BuildApplicationSummary(records)
	if len(summary) != 3 {
		t.Fatalf("expected 3 summary rows, got %d", len(summary))
	}
	if summary[0].ApplicationName != "crm" || summary[0].TotalPrice.String() != "40" {
		t.Fatalf("unexpected first row: %+v", summary[0])
	}
	if summary[1].ApplicationName != "billing" || summary[1].Month != "July" || summary[1].TotalPrice.String() != "25" {
		t.Fatalf("unexpected second row: %+v", summary[1])
	}
	if summary[2].Month != "August" || summary[2].TotalPrice.String() != "7" {
		t.Fatalf("unexpected third row: %+v", summary[2])
	}
}

func TestBuildComponentUsageSummary(t *testing.T) {
	records := []*UsageRecord{
		usageRecord("Acme", "W1", "WEBAPP", "", "July", 2024, 5, 50),
		usageRecord("Acme", "W2", "WEBAPP", "", "July", 2024, 1, 10),
		usageRecord("Acme", "W1", "DATABASE", "", "July", 2024, 2, 5),
		usageRecord("Acme", "W1", "IDLE", "", "July", 2024, 0, 0),
	}

	summary := BuildComponentUsageSummary(records)
	if len(summary) != 2 {
		t.Fatalf("zero-hour services must not be counted, got %d rows", len(summary))
	}
	if summary[0].ServiceName != "WEBAPP" || summary[0].Count != 2 {
		t.Fatalf("unexpected first row: %+v", summary[0])
	}
	if summary[1].ServiceName != "DATABASE" || summary[1].Count != 1 {
		t.Fatalf("unexpected second row: %+v", summary[1])
	}
}

func TestTopOrganizationsByTotalPrice(t *testing.T) {
	var records []*UsageRecord
	for i := 0; i < 20; i++ {
		org := fmt.Sprintf("Org%02d", i)
		records = append(records, usageRecord(org, "W1", "A", "", "July", 2024, 1, int64(i+1)))
		records = append(records, usageRecord(org, "W2", "A", "", "July", 2024, 1, int64(i+1)))
	}
	summary := BuildOrganizationSummary(records)

	top := TopOrganizationsByTotalPrice(summary, 15)
	if len(top) != 15 {
		t.Fatalf("expected 15 rows, got %d", len(top))
	}
	// Org19 contributed 20 from each of two workspaces.
	if top[0].OrganizationName != "Org19" || top[0].TotalPrice.String() != "40" {
		t.Fatalf("unexpected top row: %+v", top[0])
	}
	if top[14].OrganizationName != "Org05" {
		t.Fatalf("unexpected cutoff row: %+v", top[14])
	}
}

func TestTopApplicationsByTotalPriceShortInput(t *testing.T) {
	summary := []*ApplicationSummaryRow{
		{ApplicationName: "crm", TotalPrice: decimal.NewFromInt(5)},
		{ApplicationName: "billing", TotalPrice: decimal.NewFromInt(9)},
	}

	top := TopApplicationsByTotalPrice(summary, 15)
	if len(top) != 2 {
		t.Fatalf("expected all rows when fewer than n, got %d", len(top))
	}
	if top[0].ApplicationName != "billing" || top[1].ApplicationName != "crm" {
		t.Fatalf("unexpected order: %s, %s", top[0].ApplicationName, top[1].ApplicationName)
	}
	// The input slice must not be reordered.
	if summary[0].ApplicationName != "crm" {
		t.Fatalf("input slice was mutated")
	}
}

func TestTopComponentsByHoursUsed(t *testing.T) {
	records := []*UsageRecord{
		usageRecord("Acme", "W1", "WEBAPP", "", "July", 2024, 5, 0),
		usageRecord("Acme", "W1", "WEBAPP", "", "August", 2024, 3, 0),
		usageRecord("Acme", "W2", "WEBAPP", "", "July", 2024, 10, 0),
		usageRecord("Acme", "W1", "DATABASE", "", "July", 2024, 6, 0),
	}

	top := TopComponentsByHoursUsed(records, 15)
	if len(top) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(top))
	}
	if top[0].ServiceName != "WEBAPP" || top[0].WorkspaceGroup != "W2" || top[0].HoursUsed.String() != "10" {
		t.Fatalf("unexpected first row: %+v", top[0])
	}
	if top[1].ServiceName != "WEBAPP" || top[1].WorkspaceGroup != "W1" || top[1].HoursUsed.String() != "8" {
		t.Fatalf("unexpected second row: %+v", top[1])
	}
}
