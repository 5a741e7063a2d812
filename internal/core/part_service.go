package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type partService struct {
	pool *pgxpool.Pool
}

// NewPartService constructs a PartService backed by PostgreSQL.
func NewPartService(pool *pgxpool.Pool) PartService {
	return &partService{pool: pool}
}

const partColumns = "id, item_code, description, quantity, unit_price, amount, external_invoice_id, supplier_id, project_id"

func scanPart(row pgx.Row) (*Part, error) {
	p := &Part{}
	err := row.Scan(
		&p.ID, &p.ItemCode, &p.Description, &p.Quantity, &p.UnitPrice,
		&p.Amount, &p.ExternalInvoiceID, &p.SupplierID, &p.ProjectID,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// partAmount computes quantity times unit price, rounded half-up to cents.
func partAmount(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// invoiceRefs returns the supplier and project of an external invoice.
func (s *partService) invoiceRefs(ctx context.Context, externalInvoiceID int) (supplierID, projectID int, err error) {
	err = s.pool.QueryRow(ctx, `
		SELECT supplier_id, project_id
		FROM external_invoices
		WHERE id = $1`,
		externalInvoiceID,
	).Scan(&supplierID, &projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, fmt.Errorf("external invoice %d: %w", externalInvoiceID, ErrNotFound)
		}
		return 0, 0, fmt.Errorf("get external invoice %d: %w", externalInvoiceID, err)
	}
	return supplierID, projectID, nil
}

// CreatePart inserts a line item, inheriting supplier and project from the
// invoice when the input leaves them nil.
func (s *partService) CreatePart(ctx context.Context, input PartInput) (*Part, error) {
	supplierID, projectID, err := s.invoiceRefs(ctx, input.ExternalInvoiceID)
	if err != nil {
		return nil, err
	}
	if input.SupplierID != nil {
		supplierID = *input.SupplierID
	}
	if input.ProjectID != nil {
		projectID = *input.ProjectID
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	p, err := scanPart(s.pool.QueryRow(ctx, `
		INSERT INTO parts (item_code, description, quantity, unit_price, amount,
		                   external_invoice_id, supplier_id, project_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+partColumns,
		input.ItemCode, toPtr(input.Description), quantity, input.UnitPrice,
		partAmount(quantity, input.UnitPrice), input.ExternalInvoiceID, supplierID, projectID,
	))
	if err != nil {
		return nil, fmt.Errorf("create part %q: %w", input.ItemCode, err)
	}
	return p, nil
}

func (s *partService) GetParts(ctx context.Context, skip, limit int) ([]Part, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(partColumns).From("parts").
		OrderBy("id").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build parts query: %w", err)
	}
	parts, err := s.queryParts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "parts")
	if err != nil {
		return nil, 0, err
	}
	return parts, total, nil
}

func (s *partService) GetPartsByInvoice(ctx context.Context, externalInvoiceID int) ([]Part, error) {
	if _, _, err := s.invoiceRefs(ctx, externalInvoiceID); err != nil {
		return nil, err
	}
	return s.queryParts(ctx, `
		SELECT `+partColumns+`
		FROM parts
		WHERE external_invoice_id = $1
		ORDER BY id`, externalInvoiceID)
}

func (s *partService) queryParts(ctx context.Context, query string, args ...any) ([]Part, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get parts: %w", err)
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, *p)
	}
	return parts, rows.Err()
}

func (s *partService) GetPart(ctx context.Context, id int) (*Part, error) {
	p, err := scanPart(s.pool.QueryRow(ctx, `
		SELECT `+partColumns+`
		FROM parts
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("part %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get part %d: %w", id, err)
	}
	return p, nil
}

// UpdatePart merges the update into the stored part and recomputes the
// amount. Re-pointing the part at another invoice re-derives supplier and
// project from that invoice unless the update sets them explicitly.
func (s *partService) UpdatePart(ctx context.Context, id int, update PartUpdate) (*Part, error) {
	p, err := s.GetPart(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ExternalInvoiceID != nil {
		supplierID, projectID, err := s.invoiceRefs(ctx, *update.ExternalInvoiceID)
		if err != nil {
			return nil, err
		}
		p.ExternalInvoiceID = update.ExternalInvoiceID
		p.SupplierID = &supplierID
		p.ProjectID = &projectID
	}
	if update.SupplierID != nil {
		p.SupplierID = update.SupplierID
	}
	if update.ProjectID != nil {
		p.ProjectID = update.ProjectID
	}
	if update.ItemCode != nil {
		p.ItemCode = *update.ItemCode
	}
	if update.Description != nil {
		p.Description = toPtr(*update.Description)
	}
	if update.Quantity != nil {
		p.Quantity = *update.Quantity
	}
	if update.UnitPrice != nil {
		p.UnitPrice = *update.UnitPrice
	}
	p.Amount = partAmount(p.Quantity, p.UnitPrice)

	updated, err := scanPart(s.pool.QueryRow(ctx, `
		UPDATE parts
		SET item_code = $2, description = $3, quantity = $4, unit_price = $5, amount = $6,
		    external_invoice_id = $7, supplier_id = $8, project_id = $9
		WHERE id = $1
		RETURNING `+partColumns,
		id, p.ItemCode, p.Description, p.Quantity, p.UnitPrice, p.Amount,
		p.ExternalInvoiceID, p.SupplierID, p.ProjectID,
	))
	if err != nil {
		return nil, fmt.Errorf("update part %d: %w", id, err)
	}
	return updated, nil
}

func (s *partService) DeletePart(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete part %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	return nil
}
