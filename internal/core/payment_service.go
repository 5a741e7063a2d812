package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type paymentService struct {
	pool *pgxpool.Pool
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

// externalInvoiceRefs resolves the supplier and project of an external invoice.
func (s *paymentService) externalInvoiceRefs(ctx context.Context, invoiceID int) (supplierID, projectID int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT supplier_id, project_id
		FROM external_invoices
		WHERE id = $1`,
		invoiceID,
	).Scan(&supplierID, &projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("external invoice %d: %w", invoiceID, ErrNotFound)
		}
		return 0, 0, fmt.Errorf("get external invoice %d: %w", invoiceID, err)
	}
	return supplierID, projectID, nil
}

// internalInvoiceRefs resolves the customer and project of an internal invoice.
func (s *paymentService) internalInvoiceRefs(ctx context.Context, invoiceID int) (customerID, projectID int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT customer_id, project_id
		FROM internal_invoices
		WHERE id = $1`,
		invoiceID,
	).Scan(&customerID, &projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("internal invoice %d: %w", invoiceID, ErrNotFound)
		}
		return 0, 0, fmt.Errorf("get internal invoice %d: %w", invoiceID, err)
	}
	return customerID, projectID, nil
}

// ── Payments to suppliers ─────────────────────────────────────────────────────

const paymentToSupplierColumns = "id, external_invoice_id, supplier_id, project_id, payment_status, payment_mode, amount, remaining, disbursement_date, payment_ref, additional_fees"

func scanPaymentToSupplier(row pgx.Row) (*PaymentToSupplier, error) {
	p := &PaymentToSupplier{}
	err := row.Scan(
		&p.ID, &p.ExternalInvoiceID, &p.SupplierID, &p.ProjectID,
		&p.PaymentStatus, &p.PaymentMode, &p.Amount, &p.Remaining,
		&p.DisbursementDate, &p.PaymentRef, &p.AdditionalFees,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePaymentToSupplier records a disbursement, deriving supplier and
// project from the settled invoice.
func (s *paymentService) CreatePaymentToSupplier(ctx context.Context, input PaymentToSupplierInput) (*PaymentToSupplier, error) {
	supplierID, projectID, err := s.externalInvoiceRefs(ctx, input.ExternalInvoiceID)
	if err != nil {
		return nil, err
	}
	p, err := scanPaymentToSupplier(s.pool.QueryRow(ctx, `
		INSERT INTO payments_to_suppliers (external_invoice_id, supplier_id, project_id, payment_status,
		                                   payment_mode, amount, remaining, disbursement_date, payment_ref, additional_fees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+paymentToSupplierColumns,
		input.ExternalInvoiceID, supplierID, projectID, input.PaymentStatus,
		input.PaymentMode, input.Amount, input.Remaining, input.DisbursementDate,
		input.PaymentRef, input.AdditionalFees,
	))
	if err != nil {
		return nil, fmt.Errorf("create payment to supplier %q: %w", input.PaymentRef, err)
	}
	return p, nil
}

func (s *paymentService) GetPaymentsToSuppliers(ctx context.Context, skip, limit int) ([]PaymentToSupplier, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(paymentToSupplierColumns).From("payments_to_suppliers").
		OrderBy("disbursement_date DESC", "id DESC").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build payments to suppliers query: %w", err)
	}
	payments, err := s.queryToSuppliers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "payments_to_suppliers")
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (s *paymentService) GetPaymentsByExternalInvoice(ctx context.Context, externalInvoiceID int) ([]PaymentToSupplier, error) {
	if _, _, err := s.externalInvoiceRefs(ctx, externalInvoiceID); err != nil {
		return nil, err
	}
	return s.queryToSuppliers(ctx, `
		SELECT `+paymentToSupplierColumns+`
		FROM payments_to_suppliers
		WHERE external_invoice_id = $1
		ORDER BY disbursement_date DESC, id DESC`, externalInvoiceID)
}

func (s *paymentService) queryToSuppliers(ctx context.Context, query string, args ...any) ([]PaymentToSupplier, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get payments to suppliers: %w", err)
	}
	defer rows.Close()

	var payments []PaymentToSupplier
	for rows.Next() {
		p, err := scanPaymentToSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment to supplier: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *paymentService) GetPaymentToSupplier(ctx context.Context, id int) (*PaymentToSupplier, error) {
	p, err := scanPaymentToSupplier(s.pool.QueryRow(ctx, `
		SELECT `+paymentToSupplierColumns+`
		FROM payments_to_suppliers
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment to supplier %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get payment to supplier %d: %w", id, err)
	}
	return p, nil
}

func (s *paymentService) UpdatePaymentToSupplier(ctx context.Context, id int, update PaymentToSupplierUpdate) (*PaymentToSupplier, error) {
	b := psql.Update("payments_to_suppliers").Where(sq.Eq{"id": id}).Suffix("RETURNING " + paymentToSupplierColumns)
	changed := false
	if update.ExternalInvoiceID != nil {
		supplierID, projectID, err := s.externalInvoiceRefs(ctx, *update.ExternalInvoiceID)
		if err != nil {
			return nil, err
		}
		b = b.Set("external_invoice_id", *update.ExternalInvoiceID).
			Set("supplier_id", supplierID).
			Set("project_id", projectID)
		changed = true
	}
	if update.PaymentStatus != nil {
		b = b.Set("payment_status", *update.PaymentStatus)
		changed = true
	}
	if update.PaymentMode != nil {
		b = b.Set("payment_mode", *update.PaymentMode)
		changed = true
	}
	if update.Amount != nil {
		b = b.Set("amount", *update.Amount)
		changed = true
	}
	if update.Remaining != nil {
		b = b.Set("remaining", *update.Remaining)
		changed = true
	}
	if update.DisbursementDate != nil {
		b = b.Set("disbursement_date", *update.DisbursementDate)
		changed = true
	}
	if update.PaymentRef != nil {
		b = b.Set("payment_ref", *update.PaymentRef)
		changed = true
	}
	if update.AdditionalFees != nil {
		b = b.Set("additional_fees", *update.AdditionalFees)
		changed = true
	}
	if !changed {
		return s.GetPaymentToSupplier(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payment to supplier update: %w", err)
	}
	p, err := scanPaymentToSupplier(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment to supplier %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update payment to supplier %d: %w", id, err)
	}
	return p, nil
}

func (s *paymentService) DeletePaymentToSupplier(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments_to_suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment to supplier %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment to supplier %d: %w", id, ErrNotFound)
	}
	return nil
}

// ── Payments from customers ───────────────────────────────────────────────────

const paymentFromCustomerColumns = "id, internal_invoice_id, customer_id, project_id, payment_status, payment_mode, amount, remaining, disbursement_date, payment_ref, additional_fees"

func scanPaymentFromCustomer(row pgx.Row) (*PaymentFromCustomer, error) {
	p := &PaymentFromCustomer{}
	err := row.Scan(
		&p.ID, &p.InternalInvoiceID, &p.CustomerID, &p.ProjectID,
		&p.PaymentStatus, &p.PaymentMode, &p.Amount, &p.Remaining,
		&p.DisbursementDate, &p.PaymentRef, &p.AdditionalFees,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePaymentFromCustomer records a receipt, deriving customer and
// project from the settled invoice.
func (s *paymentService) CreatePaymentFromCustomer(ctx context.Context, input PaymentFromCustomerInput) (*PaymentFromCustomer, error) {
	customerID, projectID, err := s.internalInvoiceRefs(ctx, input.InternalInvoiceID)
	if err != nil {
		return nil, err
	}
	p, err := scanPaymentFromCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO payments_from_customers (internal_invoice_id, customer_id, project_id, payment_status,
		                                     payment_mode, amount, remaining, disbursement_date, payment_ref, additional_fees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+paymentFromCustomerColumns,
		input.InternalInvoiceID, customerID, projectID, input.PaymentStatus,
		input.PaymentMode, input.Amount, input.Remaining, input.DisbursementDate,
		input.PaymentRef, input.AdditionalFees,
	))
	if err != nil {
		return nil, fmt.Errorf("create payment from customer %q: %w", input.PaymentRef, err)
	}
	return p, nil
}

func (s *paymentService) GetPaymentsFromCustomers(ctx context.Context, skip, limit int) ([]PaymentFromCustomer, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(paymentFromCustomerColumns).From("payments_from_customers").
		OrderBy("disbursement_date DESC", "id DESC").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build payments from customers query: %w", err)
	}
	payments, err := s.queryFromCustomers(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "payments_from_customers")
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (s *paymentService) GetPaymentsByInternalInvoice(ctx context.Context, internalInvoiceID int) ([]PaymentFromCustomer, error) {
	if _, _, err := s.internalInvoiceRefs(ctx, internalInvoiceID); err != nil {
		return nil, err
	}
	return s.queryFromCustomers(ctx, `
		SELECT `+paymentFromCustomerColumns+`
		FROM payments_from_customers
		WHERE internal_invoice_id = $1
		ORDER BY disbursement_date DESC, id DESC`, internalInvoiceID)
}

func (s *paymentService) queryFromCustomers(ctx context.Context, query string, args ...any) ([]PaymentFromCustomer, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get payments from customers: %w", err)
	}
	defer rows.Close()

	var payments []PaymentFromCustomer
	for rows.Next() {
		p, err := scanPaymentFromCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment from customer: %w", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (s *paymentService) GetPaymentFromCustomer(ctx context.Context, id int) (*PaymentFromCustomer, error) {
	p, err := scanPaymentFromCustomer(s.pool.QueryRow(ctx, `
		SELECT `+paymentFromCustomerColumns+`
		FROM payments_from_customers
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment from customer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get payment from customer %d: %w", id, err)
	}
	return p, nil
}

func (s *paymentService) UpdatePaymentFromCustomer(ctx context.Context, id int, update PaymentFromCustomerUpdate) (*PaymentFromCustomer, error) {
	b := psql.Update("payments_from_customers").Where(sq.Eq{"id": id}).Suffix("RETURNING " + paymentFromCustomerColumns)
	changed := false
	if update.InternalInvoiceID != nil {
		customerID, projectID, err := s.internalInvoiceRefs(ctx, *update.InternalInvoiceID)
		if err != nil {
			return nil, err
		}
		b = b.Set("internal_invoice_id", *update.InternalInvoiceID).
			Set("customer_id", customerID).
			Set("project_id", projectID)
		changed = true
	}
	if update.PaymentStatus != nil {
		b = b.Set("payment_status", *update.PaymentStatus)
		changed = true
	}
	if update.PaymentMode != nil {
		b = b.Set("payment_mode", *update.PaymentMode)
		changed = true
	}
	if update.Amount != nil {
		b = b.Set("amount", *update.Amount)
		changed = true
	}
	if update.Remaining != nil {
		b = b.Set("remaining", *update.Remaining)
		changed = true
	}
	if update.DisbursementDate != nil {
		b = b.Set("disbursement_date", *update.DisbursementDate)
		changed = true
	}
	if update.PaymentRef != nil {
		b = b.Set("payment_ref", *update.PaymentRef)
		changed = true
	}
	if update.AdditionalFees != nil {
		b = b.Set("additional_fees", *update.AdditionalFees)
		changed = true
	}
	if !changed {
		return s.GetPaymentFromCustomer(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build payment from customer update: %w", err)
	}
	p, err := scanPaymentFromCustomer(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("payment from customer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update payment from customer %d: %w", id, err)
	}
	return p, nil
}

func (s *paymentService) DeletePaymentFromCustomer(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM payments_from_customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment from customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment from customer %d: %w", id, ErrNotFound)
	}
	return nil
}
