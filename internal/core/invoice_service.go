package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invoiceService struct {
	pool *pgxpool.Pool
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool) InvoiceService {
	return &invoiceService{pool: pool}
}

// checkExists verifies a referenced row exists. table and entity are trusted
// literals supplied by the service itself, never user input.
func (s *invoiceService) checkExists(ctx context.Context, table, entity string, id int) error {
	var ok bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return fmt.Errorf("check %s %d: %w", entity, id, err)
	}
	if !ok {
		return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
	}
	return nil
}

// ── External invoices ─────────────────────────────────────────────────────────

const externalInvoiceColumns = "id, supplier_id, project_id, reference, invoice_date, due_date, amount_ttc, amount_ht, vat, currency_type"

func scanExternalInvoice(row pgx.Row) (*ExternalInvoice, error) {
	inv := &ExternalInvoice{}
	err := row.Scan(
		&inv.ID, &inv.SupplierID, &inv.ProjectID, &inv.Reference,
		&inv.InvoiceDate, &inv.DueDate, &inv.AmountTTC, &inv.AmountHT,
		&inv.VAT, &inv.CurrencyType,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateExternalInvoice records a purchase invoice after verifying its
// supplier and project references.
func (s *invoiceService) CreateExternalInvoice(ctx context.Context, input ExternalInvoiceInput) (*ExternalInvoice, error) {
	if err := s.checkExists(ctx, "suppliers", "supplier", input.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkExists(ctx, "projects", "project", input.ProjectID); err != nil {
		return nil, err
	}
	inv, err := scanExternalInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO external_invoices (supplier_id, project_id, reference, invoice_date, due_date,
		                               amount_ttc, amount_ht, vat, currency_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+externalInvoiceColumns,
		input.SupplierID, input.ProjectID, input.Reference, input.InvoiceDate, input.DueDate,
		input.AmountTTC, input.AmountHT, input.VAT, input.CurrencyType,
	))
	if err != nil {
		return nil, fmt.Errorf("create external invoice %q: %w", input.Reference, err)
	}
	return inv, nil
}

func (s *invoiceService) GetExternalInvoices(ctx context.Context, skip, limit int) ([]ExternalInvoice, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(externalInvoiceColumns).From("external_invoices").
		OrderBy("invoice_date DESC", "id DESC").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build external invoices query: %w", err)
	}
	invoices, err := s.queryExternal(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "external_invoices")
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (s *invoiceService) GetExternalInvoicesBySupplier(ctx context.Context, supplierID int) ([]ExternalInvoice, error) {
	if err := s.checkExists(ctx, "suppliers", "supplier", supplierID); err != nil {
		return nil, err
	}
	return s.queryExternal(ctx, `
		SELECT `+externalInvoiceColumns+`
		FROM external_invoices
		WHERE supplier_id = $1
		ORDER BY invoice_date DESC, id DESC`, supplierID)
}

func (s *invoiceService) queryExternal(ctx context.Context, query string, args ...any) ([]ExternalInvoice, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get external invoices: %w", err)
	}
	defer rows.Close()

	var invoices []ExternalInvoice
	for rows.Next() {
		inv, err := scanExternalInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan external invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (s *invoiceService) GetExternalInvoice(ctx context.Context, id int) (*ExternalInvoice, error) {
	inv, err := scanExternalInvoice(s.pool.QueryRow(ctx, `
		SELECT `+externalInvoiceColumns+`
		FROM external_invoices
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("external invoice %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get external invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *invoiceService) UpdateExternalInvoice(ctx context.Context, id int, update ExternalInvoiceUpdate) (*ExternalInvoice, error) {
	b := psql.Update("external_invoices").Where(sq.Eq{"id": id}).Suffix("RETURNING " + externalInvoiceColumns)
	changed := false
	if update.SupplierID != nil {
		if err := s.checkExists(ctx, "suppliers", "supplier", *update.SupplierID); err != nil {
			return nil, err
		}
		b = b.Set("supplier_id", *update.SupplierID)
		changed = true
	}
	if update.ProjectID != nil {
		if err := s.checkExists(ctx, "projects", "project", *update.ProjectID); err != nil {
			return nil, err
		}
		b = b.Set("project_id", *update.ProjectID)
		changed = true
	}
	if update.Reference != nil {
		b = b.Set("reference", *update.Reference)
		changed = true
	}
	if update.InvoiceDate != nil {
		b = b.Set("invoice_date", *update.InvoiceDate)
		changed = true
	}
	if update.DueDate != nil {
		b = b.Set("due_date", *update.DueDate)
		changed = true
	}
	if update.AmountTTC != nil {
		b = b.Set("amount_ttc", *update.AmountTTC)
		changed = true
	}
	if update.AmountHT != nil {
		b = b.Set("amount_ht", *update.AmountHT)
		changed = true
	}
	if update.VAT != nil {
		b = b.Set("vat", *update.VAT)
		changed = true
	}
	if update.CurrencyType != nil {
		b = b.Set("currency_type", *update.CurrencyType)
		changed = true
	}
	if !changed {
		return s.GetExternalInvoice(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build external invoice update: %w", err)
	}
	inv, err := scanExternalInvoice(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("external invoice %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update external invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *invoiceService) DeleteExternalInvoice(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM external_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete external invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("external invoice %d: %w", id, ErrNotFound)
	}
	return nil
}

// ── Internal invoices ─────────────────────────────────────────────────────────

const internalInvoiceColumns = "id, customer_id, project_id, reference, invoice_date, due_date, amount_ttc, amount_ht, vat, currency_type"

func scanInternalInvoice(row pgx.Row) (*InternalInvoice, error) {
	inv := &InternalInvoice{}
	err := row.Scan(
		&inv.ID, &inv.CustomerID, &inv.ProjectID, &inv.Reference,
		&inv.InvoiceDate, &inv.DueDate, &inv.AmountTTC, &inv.AmountHT,
		&inv.VAT, &inv.CurrencyType,
	)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// CreateInternalInvoice records a sales invoice after verifying its
// customer and project references.
func (s *invoiceService) CreateInternalInvoice(ctx context.Context, input InternalInvoiceInput) (*InternalInvoice, error) {
	if err := s.checkExists(ctx, "customers", "customer", input.CustomerID); err != nil {
		return nil, err
	}
	if err := s.checkExists(ctx, "projects", "project", input.ProjectID); err != nil {
		return nil, err
	}
	inv, err := scanInternalInvoice(s.pool.QueryRow(ctx, `
		INSERT INTO internal_invoices (customer_id, project_id, reference, invoice_date, due_date,
		                               amount_ttc, amount_ht, vat, currency_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+internalInvoiceColumns,
		input.CustomerID, input.ProjectID, input.Reference, input.InvoiceDate, input.DueDate,
		input.AmountTTC, input.AmountHT, input.VAT, input.CurrencyType,
	))
	if err != nil {
		return nil, fmt.Errorf("create internal invoice %q: %w", input.Reference, err)
	}
	return inv, nil
}

func (s *invoiceService) GetInternalInvoices(ctx context.Context, skip, limit int) ([]InternalInvoice, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(internalInvoiceColumns).From("internal_invoices").
		OrderBy("invoice_date DESC", "id DESC").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build internal invoices query: %w", err)
	}
	invoices, err := s.queryInternal(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "internal_invoices")
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (s *invoiceService) GetInternalInvoicesByCustomer(ctx context.Context, customerID int) ([]InternalInvoice, error) {
	if err := s.checkExists(ctx, "customers", "customer", customerID); err != nil {
		return nil, err
	}
	return s.queryInternal(ctx, `
		SELECT `+internalInvoiceColumns+`
		FROM internal_invoices
		WHERE customer_id = $1
		ORDER BY invoice_date DESC, id DESC`, customerID)
}

func (s *invoiceService) queryInternal(ctx context.Context, query string, args ...any) ([]InternalInvoice, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get internal invoices: %w", err)
	}
	defer rows.Close()

	var invoices []InternalInvoice
	for rows.Next() {
		inv, err := scanInternalInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan internal invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (s *invoiceService) GetInternalInvoice(ctx context.Context, id int) (*InternalInvoice, error) {
	inv, err := scanInternalInvoice(s.pool.QueryRow(ctx, `
		SELECT `+internalInvoiceColumns+`
		FROM internal_invoices
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("internal invoice %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get internal invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *invoiceService) UpdateInternalInvoice(ctx context.Context, id int, update InternalInvoiceUpdate) (*InternalInvoice, error) {
	b := psql.Update("internal_invoices").Where(sq.Eq{"id": id}).Suffix("RETURNING " + internalInvoiceColumns)
	changed := false
	if update.CustomerID != nil {
		if err := s.checkExists(ctx, "customers", "customer", *update.CustomerID); err != nil {
			return nil, err
		}
		b = b.Set("customer_id", *update.CustomerID)
		changed = true
	}
	if update.ProjectID != nil {
		if err := s.checkExists(ctx, "projects", "project", *update.ProjectID); err != nil {
			return nil, err
		}
		b = b.Set("project_id", *update.ProjectID)
		changed = true
	}
	if update.Reference != nil {
		b = b.Set("reference", *update.Reference)
		changed = true
	}
	if update.InvoiceDate != nil {
		b = b.Set("invoice_date", *update.InvoiceDate)
		changed = true
	}
	if update.DueDate != nil {
		b = b.Set("due_date", *update.DueDate)
		changed = true
	}
	if update.AmountTTC != nil {
		b = b.Set("amount_ttc", *update.AmountTTC)
		changed = true
	}
	if update.AmountHT != nil {
		b = b.Set("amount_ht", *update.AmountHT)
		changed = true
	}
	if update.VAT != nil {
		b = b.Set("vat", *update.VAT)
		changed = true
	}
	if update.CurrencyType != nil {
		b = b.Set("currency_type", *update.CurrencyType)
		changed = true
	}
	if !changed {
		return s.GetInternalInvoice(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build internal invoice update: %w", err)
	}
	inv, err := scanInternalInvoice(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("internal invoice %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update internal invoice %d: %w", id, err)
	}
	return inv, nil
}

func (s *invoiceService) DeleteInternalInvoice(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM internal_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete internal invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("internal invoice %d: %w", id, ErrNotFound)
	}
	return nil
}
