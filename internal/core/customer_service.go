package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = "id, name, ice, postal_code, rib"

func scanCustomer(row pgx.Row) (*Customer, error) {
	c := &Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.ICE, &c.PostalCode, &c.RIB)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCustomer inserts a new customer record.
func (s *customerService) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, ice, postal_code, rib)
		VALUES ($1, $2, $3, $4)
		RETURNING `+customerColumns,
		input.Name, input.ICE, input.PostalCode, toPtr(input.RIB),
	))
	if err != nil {
		return nil, fmt.Errorf("create customer %q: %w", input.Name, err)
	}
	return c, nil
}

// GetCustomers returns one page of customers ordered by name, plus the
// total customer count.
func (s *customerService) GetCustomers(ctx context.Context, skip, limit int) ([]Customer, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(customerColumns).From("customers").
		OrderBy("name").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build customers query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("get customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := countRows(ctx, s.pool, "customers")
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

// UpdateCustomer applies the non-nil fields of update to the customer.
func (s *customerService) UpdateCustomer(ctx context.Context, id int, update CustomerUpdate) (*Customer, error) {
	b := psql.Update("customers").Where(sq.Eq{"id": id}).Suffix("RETURNING " + customerColumns)
	changed := false
	if update.Name != nil {
		b = b.Set("name", *update.Name)
		changed = true
	}
	if update.ICE != nil {
		b = b.Set("ice", *update.ICE)
		changed = true
	}
	if update.PostalCode != nil {
		b = b.Set("postal_code", *update.PostalCode)
		changed = true
	}
	if update.RIB != nil {
		b = b.Set("rib", toPtr(*update.RIB))
		changed = true
	}
	if !changed {
		return s.GetCustomer(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer update: %w", err)
	}
	c, err := scanCustomer(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return nil
}

// ── Contacts ──────────────────────────────────────────────────────────────────

const customerContactColumns = "id, customer_id, contact_name, phone_number, email, address, bank_details"

func scanCustomerContact(row pgx.Row) (*CustomerContact, error) {
	c := &CustomerContact{}
	err := row.Scan(&c.ID, &c.CustomerID, &c.ContactName, &c.PhoneNumber, &c.Email, &c.Address, &c.BankDetails)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCustomerContact inserts a contact after checking the customer exists.
func (s *customerService) CreateCustomerContact(ctx context.Context, input CustomerContactInput) (*CustomerContact, error) {
	if _, err := s.GetCustomer(ctx, input.CustomerID); err != nil {
		return nil, err
	}
	c, err := scanCustomerContact(s.pool.QueryRow(ctx, `
		INSERT INTO customer_contacts (customer_id, contact_name, phone_number, email, address, bank_details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerContactColumns,
		input.CustomerID, input.ContactName, toPtr(input.PhoneNumber),
		toPtr(input.Email), toPtr(input.Address), toPtr(input.BankDetails),
	))
	if err != nil {
		return nil, fmt.Errorf("create customer contact %q: %w", input.ContactName, err)
	}
	return c, nil
}

func (s *customerService) GetCustomerContacts(ctx context.Context, skip, limit int) ([]CustomerContact, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(customerContactColumns).From("customer_contacts").
		OrderBy("id").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build customer contacts query: %w", err)
	}
	contacts, err := s.queryContacts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	total, err := countRows(ctx, s.pool, "customer_contacts")
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (s *customerService) GetContactsByCustomer(ctx context.Context, customerID int) ([]CustomerContact, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.queryContacts(ctx, `
		SELECT `+customerContactColumns+`
		FROM customer_contacts
		WHERE customer_id = $1
		ORDER BY id`, customerID)
}

func (s *customerService) queryContacts(ctx context.Context, query string, args ...any) ([]CustomerContact, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get customer contacts: %w", err)
	}
	defer rows.Close()

	var contacts []CustomerContact
	for rows.Next() {
		c, err := scanCustomerContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *customerService) GetCustomerContact(ctx context.Context, id int) (*CustomerContact, error) {
	c, err := scanCustomerContact(s.pool.QueryRow(ctx, `
		SELECT `+customerContactColumns+`
		FROM customer_contacts
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer contact %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get customer contact %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) UpdateCustomerContact(ctx context.Context, id int, update CustomerContactUpdate) (*CustomerContact, error) {
	b := psql.Update("customer_contacts").Where(sq.Eq{"id": id}).Suffix("RETURNING " + customerContactColumns)
	changed := false
	if update.CustomerID != nil {
		if _, err := s.GetCustomer(ctx, *update.CustomerID); err != nil {
			return nil, err
		}
		b = b.Set("customer_id", *update.CustomerID)
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
		return s.GetCustomerContact(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer contact update: %w", err)
	}
	c, err := scanCustomerContact(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer contact %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update customer contact %d: %w", id, err)
	}
	return c, nil
}

func (s *customerService) DeleteCustomerContact(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM customer_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer contact %d: %w", id, ErrNotFound)
	}
	return nil
}
