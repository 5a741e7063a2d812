package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/export"
)

func sampleReport() *core.Report {
	return &core.Report{
		TotalIncome:      decimal.RequireFromString("3000"),
		TotalExpenses:    decimal.RequireFromString("1000"),
		NetProfit:        decimal.RequireFromString("2000"),
		TotalReceivables: decimal.RequireFromString("6000"),
		TotalPayables:    decimal.RequireFromString("2400"),
		ProjectData: []core.ProjectReportRow{
			{ProjectName: "Site Rabat", Income: decimal.RequireFromString("3000"), Expenses: decimal.RequireFromString("1000"), Profit: decimal.RequireFromString("2000")},
		},
		TopCustomers: []core.PartyTotal{{Name: "Oasis Promotion", TotalPayment: decimal.RequireFromString("3500")}},
		TopSuppliers: []core.PartyTotal{{Name: "Atlas Cables", TotalPayment: decimal.RequireFromString("1000")}},
	}
}

func TestReportCSV(t *testing.T) {
	out, err := export.ReportCSV(sampleReport())
	if err != nil {
		t.Fatalf("ReportCSV: %v", err)
	}
	text := string(out)

	for _, section := range []string{"Summary", "Project Data", "Top Customers", "Top Suppliers"} {
		if !strings.Contains(text, section+"\n") {
			t.Errorf("missing section title %q", section)
		}
	}
	if !strings.Contains(text, "Total Income,Total Expenses,Net Profit,Total Receivables,Total Payables") {
		t.Error("missing summary header row")
	}
	if !strings.Contains(text, "Site Rabat,3000,1000,2000") {
		t.Error("missing project data row")
	}
	if !strings.Contains(text, "Oasis Promotion,3500") {
		t.Error("missing top customer row")
	}
}

func TestReportXLSX(t *testing.T) {
	out, err := export.ReportXLSX(sampleReport())
	if err != nil {
		t.Fatalf("ReportXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{"Summary", "Project Data", "Top Customers", "Top Suppliers"}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i, name := range want {
		if sheets[i] != name {
			t.Errorf("sheet %d: expected %q, got %q", i, name, sheets[i])
		}
	}

	profit, err := f.GetCellValue("Summary", "C2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if profit != "2000" {
		t.Errorf("expected net profit cell 2000, got %q", profit)
	}

	supplier, err := f.GetCellValue("Top Suppliers", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if supplier != "Atlas Cables" {
		t.Errorf("expected supplier 'Atlas Cables', got %q", supplier)
	}
}
