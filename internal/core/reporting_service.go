package core

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by PostgreSQL.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

const topPartyLimit = 5

// GenerateReport aggregates payments and invoices over [startDate, endDate].
func (s *reportingService) GenerateReport(ctx context.Context, startDate, endDate time.Time) (*Report, error) {
	totalIncome, err := s.sumBetween(ctx, "payments_from_customers", "amount", "disbursement_date", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("total income: %w", err)
	}
	totalExpenses, err := s.sumBetween(ctx, "payments_to_suppliers", "amount", "disbursement_date", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}
	totalReceivables, err := s.sumBetween(ctx, "internal_invoices", "amount_ttc", "invoice_date", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("total receivables: %w", err)
	}
	totalPayables, err := s.sumBetween(ctx, "external_invoices", "amount_ttc", "invoice_date", startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("total payables: %w", err)
	}

	projectData, err := s.projectBreakdown(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	topCustomers, err := s.topParties(ctx, "customers", "payments_from_customers", "customer_id")
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	topSuppliers, err := s.topParties(ctx, "suppliers", "payments_to_suppliers", "supplier_id")
	if err != nil {
		return nil, fmt.Errorf("top suppliers: %w", err)
	}

	return &Report{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		NetProfit:        totalIncome.Sub(totalExpenses),
		TotalReceivables: totalReceivables,
		TotalPayables:    totalPayables,
		ProjectData:      projectData,
		TopCustomers:     topCustomers,
		TopSuppliers:     topSuppliers,
	}, nil
}

// sumBetween totals a numeric column over rows whose date column falls in
// the inclusive range. Identifiers are service-supplied literals.
func (s *reportingService) sumBetween(ctx context.Context, table, amountCol, dateCol string, start, end time.Time) (decimal.Decimal, error) {
	query, args, err := psql.
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", amountCol)).
		From(table).
		Where(sq.Expr(dateCol+" BETWEEN ? AND ?", start, end)).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build sum query: %w", err)
	}
	var total decimal.Decimal
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// projectBreakdown lists every project with its income and expenses inside
// the period. Projects without activity appear with zero totals.
func (s *reportingService) projectBreakdown(ctx context.Context, start, end time.Time) ([]ProjectReportRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.name,
		       COALESCE((SELECT SUM(pc.amount) FROM payments_from_customers pc
		                 WHERE pc.project_id = p.id AND pc.disbursement_date BETWEEN $1 AND $2), 0),
		       COALESCE((SELECT SUM(ps.amount) FROM payments_to_suppliers ps
		                 WHERE ps.project_id = p.id AND ps.disbursement_date BETWEEN $1 AND $2), 0)
		FROM projects p
		ORDER BY p.name`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("project breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []ProjectReportRow
	for rows.Next() {
		var row ProjectReportRow
		if err := rows.Scan(&row.ProjectName, &row.Income, &row.Expenses); err != nil {
			return nil, fmt.Errorf("scan project breakdown: %w", err)
		}
		row.Profit = row.Income.Sub(row.Expenses)
		breakdown = append(breakdown, row)
	}
	return breakdown, rows.Err()
}

// topParties ranks parties by their all-time payment volume.
func (s *reportingService) topParties(ctx context.Context, partyTable, paymentTable, fkCol string) ([]PartyTotal, error) {
	query, args, err := psql.
		Select("p.name", "COALESCE(SUM(pay.amount), 0) AS total_payment").
		From(partyTable + " p").
		Join(fmt.Sprintf("%s pay ON pay.%s = p.id", paymentTable, fkCol)).
		GroupBy("p.id", "p.name").
		OrderBy("total_payment DESC").
		Limit(topPartyLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top parties query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []PartyTotal
	for rows.Next() {
		var p PartyTotal
		if err := rows.Scan(&p.Name, &p.TotalPayment); err != nil {
			return nil, fmt.Errorf("scan party total: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}
