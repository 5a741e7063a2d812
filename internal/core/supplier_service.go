package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type supplierService struct {
	pool *pgxpool.Pool
}

// NewSupplierService constructs a SupplierService backed by PostgreSQL.
func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

const supplierColumns = "id, name, ice, postal_code, rib"

func scanSupplier(row pgx.Row) (*Supplier, error) {
	s := &Supplier{}
	err := row.Scan(&s.ID, &s.Name, &s.ICE, &s.PostalCode, &s.RIB)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSupplier inserts a new supplier record.
func (s *supplierService) CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error) {
	sup, err := scanSupplier(s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, ice, postal_code, rib)
		VALUES ($1, $2, $3, $4)
		RETURNING `+supplierColumns,
		input.Name, input.ICE, toPtr(input.PostalCode), toPtr(input.RIB),
	))
	if err != nil {
		return nil, fmt.Errorf("create supplier %q: %w", input.Name, err)
	}
	return sup, nil
}

// GetSuppliers returns one page of suppliers ordered by name, plus the
// total supplier count.
func (s *supplierService) GetSuppliers(ctx context.Context, skip, limit int) ([]Supplier, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(supplierColumns).From("suppliers").
		OrderBy("name").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build suppliers query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("get suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *sup)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := countRows(ctx, s.pool, "suppliers")
	if err != nil {
		return nil, 0, err
	}
	return suppliers, total, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	sup, err := scanSupplier(s.pool.QueryRow(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get supplier %d: %w", id, err)
	}
	return sup, nil
}

// UpdateSupplier applies the non-nil fields of update to the supplier.
func (s *supplierService) UpdateSupplier(ctx context.Context, id int, update SupplierUpdate) (*Supplier, error) {
	b := psql.Update("suppliers").Where(sq.Eq{"id": id}).Suffix("RETURNING " + supplierColumns)
	if update.Name != nil {
		b = b.Set("name", *update.Name)
	}
	if update.ICE != nil {
		b = b.Set("ice", *update.ICE)
	}
	if update.PostalCode != nil {
		b = b.Set("postal_code", toPtr(*update.PostalCode))
	}
	if update.RIB != nil {
		b = b.Set("rib", toPtr(*update.RIB))
	}
	if update.Name == nil && update.ICE == nil && update.PostalCode == nil && update.RIB == nil {
		return s.GetSupplier(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build supplier update: %w", err)
	}
	sup, err := scanSupplier(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update supplier %d: %w", id, err)
	}
	return sup, nil
}

func (s *supplierService) DeleteSupplier(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d: %w", id, ErrNotFound)
	}
	return nil
}

// ── Contacts ──────────────────────────────────────────────────────────────────

const supplierContactColumns = "id, supplier_id, contact_name, phone_number, email, address, bank_details"

func scanSupplierContact(row pgx.Row) (*SupplierContact, error) {
	c := &SupplierContact{}
	err := row.Scan(&c.ID, &c.SupplierID, &c.ContactName, &c.PhoneNumber, &c.Email, &c.Address, &c.BankDetails)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateSupplierContact inserts a contact after checking the supplier exists.
func (s *supplierService) CreateSupplierContact(ctx context.Context, input SupplierContactInput) (*SupplierContact, error) {
	if _, err := s.GetSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}
	c, err := scanSupplierContact(s.pool.QueryRow(ctx, `
		INSERT INTO supplier_contacts (supplier_id, contact_name, phone_number, email, address, bank_details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+supplierContactColumns,
		input.SupplierID, input.ContactName, toPtr(input.PhoneNumber),
		toPtr(input.Email), toPtr(input.Address), toPtr(input.BankDetails),
	))
	if err != nil {
		return nil, fmt.Errorf("create supplier contact %q: %w", input.ContactName, err)
	}
	return c, nil
}

func (s *supplierService) GetSupplierContacts(ctx context.Context, skip, limit int) ([]SupplierContact, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(supplierContactColumns).From("supplier_contacts").
		OrderBy("id").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build supplier contacts query: %w", err)
	}
	contacts, err := s.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "supplier_contacts")
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (s *supplierService) GetContactsBySupplier(ctx context.Context, supplierID int) ([]SupplierContact, error) {
	if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.queryContacts(ctx, `
		SELECT `+supplierContactColumns+`
		FROM supplier_contacts
		WHERE supplier_id = $1
		ORDER BY id`, supplierID)
}

func (s *supplierService) queryContacts(ctx context.Context, query string, args ...any) ([]SupplierContact, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get supplier contacts: %w", err)
	}
	defer rows.Close()

	var contacts []SupplierContact
	for rows.Next() {
		c, err := scanSupplierContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *supplierService) GetSupplierContact(ctx context.Context, id int) (*SupplierContact, error) {
	c, err := scanSupplierContact(s.pool.QueryRow(ctx, `
		SELECT `+supplierContactColumns+`
		FROM supplier_contacts
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier contact %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get supplier contact %d: %w", id, err)
	}
	return c, nil
}

func (s *supplierService) UpdateSupplierContact(ctx context.Context, id int, update SupplierContactUpdate) (*SupplierContact, error) {
	b := psql.Update("supplier_contacts").Where(sq.Eq{"id": id}).Suffix("RETURNING " + supplierContactColumns)
	changed := false
	if update.SupplierID != nil {
		if _, err := s.GetSupplier(ctx, *update.SupplierID); err != nil {
			return nil, err
		}
		b = b.Set("supplier_id", *update.SupplierID)
		changed = true
	}
	if update.ContactName != nil {
		b = b.Set("contact_name", *update.ContactName)
		changed = true
	}
	if update.PhoneNumber != nil {
		b = b.Set("phone_number", toPtr(*update.PhoneNumber))
		changed = true
	}
	if update.Email != nil {
		b = b.Set("email", toPtr(*update.Email))
		changed = true
	}
	if update.Address != nil {
		b = b.Set("address", toPtr(*update.Address))
		changed = true
	}
	if update.BankDetails != nil {
		b = b.Set("bank_details", toPtr(*update.BankDetails))
		changed = true
	}
	if !changed {
		return s.GetSupplierContact(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build supplier contact update: %w", err)
	}
	c, err := scanSupplierContact(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier contact %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update supplier contact %d: %w", id, err)
	}
	return c, nil
}

func (s *supplierService) DeleteSupplierContact(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM supplier_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier contact %d: %w", id, ErrNotFound)
	}
	return nil
}
