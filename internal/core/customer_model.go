package core

import "context"

// Customer is a client the company bills, identified by its ICE tax number.
// Unlike suppliers, the postal code is mandatory.
type Customer struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	ICE        string  `json:"ice"`
	PostalCode string  `json:"postal_code"`
	RIB        *string `json:"rib,omitempty"`
}

// CustomerContact is a person attached to a customer.
type CustomerContact struct {
	ID          int     `json:"id"`
	CustomerID  int     `json:"customer_id"`
	ContactName string  `json:"contact_name"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	BankDetails *string `json:"bank_details,omitempty"`
}

// CustomerInput carries the fields needed to create a customer.
type CustomerInput struct {
	Name       string
	ICE        string
	PostalCode string
	RIB        string
}

// CustomerUpdate carries a partial update; nil fields are left unchanged.
type CustomerUpdate struct {
	Name       *string
	ICE        *string
	PostalCode *string
	RIB        *string
}

// CustomerContactInput carries the fields needed to create a customer contact.
type CustomerContactInput struct {
	CustomerID  int
	ContactName string
	PhoneNumber string
	Email       string
	Address     string
	BankDetails string
}

// CustomerContactUpdate carries a partial update; nil fields are left unchanged.
type CustomerContactUpdate struct {
	CustomerID  *int
	ContactName *string
	PhoneNumber *string
	Email       *string
	Address     *string
	BankDetails *string
}

// CustomerService manages customers and their contacts.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error)

	// GetCustomers returns one page of customers and the total customer
	// count. A limit <= 0 falls back to the default page size.
	GetCustomers(ctx context.Context, skip, limit int) ([]Customer, int, error)

	// GetCustomer returns a customer by ID, or ErrNotFound.
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	UpdateCustomer(ctx context.Context, id int, update CustomerUpdate) (*Customer, error)
	DeleteCustomer(ctx context.Context, id int) error

	CreateCustomerContact(ctx context.Context, input CustomerContactInput) (*CustomerContact, error)
	GetCustomerContacts(ctx context.Context, skip, limit int) ([]CustomerContact, int, error)
	GetCustomerContact(ctx context.Context, id int) (*CustomerContact, error)
	GetContactsByCustomer(ctx context.Context, customerID int) ([]CustomerContact, error)
	UpdateCustomerContact(ctx context.Context, id int, update CustomerContactUpdate) (*CustomerContact, error)
	DeleteCustomerContact(ctx context.Context, id int) error
}
