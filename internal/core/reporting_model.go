package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectReportRow is the income and expense breakdown of one project
// within the report period.
type ProjectReportRow struct {
	ProjectName string          `json:"project_name"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Profit      decimal.Decimal `json:"profit"`
}

// PartyTotal ranks a customer or supplier by total payment volume.
type PartyTotal struct {
	Name         string          `json:"name"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}

// Report is a financial summary over a date range. Totals cover payments
// disbursed and invoices dated within the range; the top-party rankings
// span all time.
type Report struct {
	TotalIncome      decimal.Decimal    `json:"total_income"`
	TotalExpenses    decimal.Decimal    `json:"total_expenses"`
	NetProfit        decimal.Decimal    `json:"net_profit"`
	TotalReceivables decimal.Decimal    `json:"total_receivables"`
	TotalPayables    decimal.Decimal    `json:"total_payables"`
	ProjectData      []ProjectReportRow `json:"project_data"`
	TopCustomers     []PartyTotal       `json:"top_customers"`
	TopSuppliers     []PartyTotal       `json:"top_suppliers"`
}

// ReportingService aggregates financial activity for reporting.
type ReportingService interface {
	GenerateReport(ctx context.Context, startDate, endDate time.Time) (*Report, error)
}
