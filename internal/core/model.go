package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds SQL with PostgreSQL $n placeholders. Services hand-write
// their fixed statements and use the builder where the statement shape
// depends on the input (partial updates, report filters).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ErrNotFound is returned when a requested record, or a record referenced
// by a foreign key in an input, does not exist. The web layer maps it to 404.
var ErrNotFound = errors.New("not found")

type Currency string

const (
	CurrencyMAD Currency = "MAD"
	CurrencyEUR Currency = "EUR"
)

// Valid reports whether c is one of the accepted currencies.
func (c Currency) Valid() bool {
	return c == CurrencyMAD || c == CurrencyEUR
}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "Cash"
	PaymentModeBankTransfer PaymentMode = "Bank Transfer"
	PaymentModeCheck        PaymentMode = "Check"
	PaymentModeCredit       PaymentMode = "Credit"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeCheck, PaymentModeCredit:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusFailed  PaymentStatus = "Failed"
	PaymentStatusMissing PaymentStatus = "Missing"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial, PaymentStatusFailed, PaymentStatusMissing:
		return true
	}
	return false
}

// defaultListLimit is the page size applied when a caller passes limit <= 0.
const defaultListLimit = 100

// listWindow normalizes skip and limit into SQL OFFSET and LIMIT values.
func listWindow(skip, limit int) (uint64, uint64) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return uint64(skip), uint64(limit)
}

// countRows returns the total number of rows in table, independent of any
// page window.
func countRows(ctx context.Context, pool *pgxpool.Pool, table string) (int, error) {
	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}

// toPtr maps the empty string to NULL for optional text columns.
func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
