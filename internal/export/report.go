// Package export renders financial reports as downloadable CSV and XLSX
// documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

var summaryHeaders = []string{"Total Income", "Total Expenses", "Net Profit", "Total Receivables", "Total Payables"}
var projectHeaders = []string{"Project Name", "Income", "Expenses", "Profit"}

// sheet is one tabular section of a report. XLSX output maps each to a
// worksheet, CSV output concatenates them with the name as a section title.
type sheet struct {
	name    string
	headers []string
	rows    [][]string
}

func reportSheets(r *core.Report) []sheet {
	summary := sheet{
		name:    "Summary",
		headers: summaryHeaders,
		rows: [][]string{{
			r.TotalIncome.String(),
			r.TotalExpenses.String(),
			r.NetProfit.String(),
			r.TotalReceivables.String(),
			r.TotalPayables.String(),
		}},
	}

	projects := sheet{name: "Project Data", headers: projectHeaders}
	for _, row := range r.ProjectData {
		projects.rows = append(projects.rows, []string{
			row.ProjectName, row.Income.String(), row.Expenses.String(), row.Profit.String(),
		})
	}

	customers := sheet{name: "Top Customers", headers: []string{"Customer", "Total Payment"}}
	for _, p := range r.TopCustomers {
		customers.rows = append(customers.rows, []string{p.Name, p.TotalPayment.String()})
	}

	suppliers := sheet{name: "Top Suppliers", headers: []string{"Supplier", "Total Payment"}}
	for _, p := range r.TopSuppliers {
		suppliers.rows = append(suppliers.rows, []string{p.Name, p.TotalPayment.String()})
	}

	return []sheet{summary, projects, customers, suppliers}
}

// ReportCSV renders the report as sectioned CSV: each section starts with
// its title on a line of its own, then the header row and data rows.
func ReportCSV(r *core.Report) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range reportSheets(r) {
		buf.WriteString(s.name + "\n")
		w := csv.NewWriter(&buf)
		if err := w.Write(s.headers); err != nil {
			return nil, fmt.Errorf("write csv header for %s: %w", s.name, err)
		}
		if err := w.WriteAll(s.rows); err != nil {
			return nil, fmt.Errorf("write csv rows for %s: %w", s.name, err)
		}
		w.Flush()
		buf.WriteString("\n\n")
	}
	return buf.Bytes(), nil
}

// ReportXLSX renders the report as a workbook with one worksheet per section.
func ReportXLSX(r *core.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range reportSheets(r) {
		if i == 0 {
			// Reuse the default sheet for the first section.
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", s.name, err)
			}
		}

		for col, h := range s.headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("sheet %s: %w", s.name, err)
			}
			if err := f.SetCellValue(s.name, cell, h); err != nil {
				return nil, fmt.Errorf("sheet %s: %w", s.name, err)
			}
		}
		for rowIdx, row := range s.rows {
			for col, v := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return nil, fmt.Errorf("sheet %s: %w", s.name, err)
				}
				if err := f.SetCellValue(s.name, cell, v); err != nil {
					return nil, fmt.Errorf("sheet %s: %w", s.name, err)
				}
			}
		}

		last, err := excelize.ColumnNumberToName(len(s.headers))
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
		if err := f.SetColWidth(s.name, "A", last, 18); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	idx, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, fmt.Errorf("get summary sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
