package core

import "context"

// Supplier is a vendor the company buys from, identified by its ICE
// (Identifiant Commun de l'Entreprise) tax number.
type Supplier struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	ICE        string  `json:"ice"`
	PostalCode *string `json:"postal_code,omitempty"`
	RIB        *string `json:"rib,omitempty"`
}

// SupplierContact is a person attached to a supplier.
type SupplierContact struct {
	ID          int     `json:"id"`
	SupplierID  int     `json:"supplier_id"`
	ContactName string  `json:"contact_name"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	BankDetails *string `json:"bank_details,omitempty"`
}

// SupplierInput carries the fields needed to create a supplier.
type SupplierInput struct {
	Name       string
	ICE        string
	PostalCode string
	RIB        string
}

// SupplierUpdate carries a partial update; nil fields are left unchanged.
type SupplierUpdate struct {
	Name       *string
	ICE        *string
	PostalCode *string
	RIB        *string
}

// SupplierContactInput carries the fields needed to create a supplier contact.
type SupplierContactInput struct {
	SupplierID  int
	ContactName string
	PhoneNumber string
	Email       string
	Address     string
	BankDetails string
}

// SupplierContactUpdate carries a partial update; nil fields are left unchanged.
type SupplierContactUpdate struct {
	SupplierID  *int
	ContactName *string
	PhoneNumber *string
	Email       *string
	Address     *string
	BankDetails *string
}

// SupplierService manages suppliers and their contacts.
type SupplierService interface {
	CreateSupplier(ctx context.Context, input SupplierInput) (*Supplier, error)

	// GetSuppliers returns one page of suppliers and the total supplier
	// count. A limit <= 0 falls back to the default page size.
	GetSuppliers(ctx context.Context, skip, limit int) ([]Supplier, int, error)

	// GetSupplier returns a supplier by ID, or ErrNotFound.
	GetSupplier(ctx context.Context, id int) (*Supplier, error)
	UpdateSupplier(ctx context.Context, id int, update SupplierUpdate) (*Supplier, error)

	// DeleteSupplier removes a supplier; contacts, invoices and parts
	// referencing it are removed by the schema's ON DELETE CASCADE.
	DeleteSupplier(ctx context.Context, id int) error

	CreateSupplierContact(ctx context.Context, input SupplierContactInput) (*SupplierContact, error)
	GetSupplierContacts(ctx context.Context, skip, limit int) ([]SupplierContact, int, error)
	GetSupplierContact(ctx context.Context, id int) (*SupplierContact, error)

	// GetContactsBySupplier lists the contacts of one supplier.
	GetContactsBySupplier(ctx context.Context, supplierID int) ([]SupplierContact, error)
	UpdateSupplierContact(ctx context.Context, id int, update SupplierContactUpdate) (*SupplierContact, error)
	DeleteSupplierContact(ctx context.Context, id int) error
}
