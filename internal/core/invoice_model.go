package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalInvoice is a purchase invoice received from a supplier.
// Amounts use the HT/TTC convention: HT excludes tax, TTC includes it.
type ExternalInvoice struct {
	ID           int              `json:"id"`
	SupplierID   int              `json:"supplier_id"`
	ProjectID    int              `json:"project_id"`
	Reference    string           `json:"reference"`
	InvoiceDate  time.Time        `json:"invoice_date"`
	DueDate      time.Time        `json:"due_date"`
	AmountTTC    decimal.Decimal  `json:"amount_ttc"`
	AmountHT     decimal.Decimal  `json:"amount_ht"`
	VAT          *decimal.Decimal `json:"vat,omitempty"`
	CurrencyType Currency         `json:"currency_type"`
}

// InternalInvoice is a sales invoice issued to a customer.
type InternalInvoice struct {
	ID           int              `json:"id"`
	CustomerID   int              `json:"customer_id"`
	ProjectID    int              `json:"project_id"`
	Reference    string           `json:"reference"`
	InvoiceDate  time.Time        `json:"invoice_date"`
	DueDate      time.Time        `json:"due_date"`
	AmountTTC    decimal.Decimal  `json:"amount_ttc"`
	AmountHT     decimal.Decimal  `json:"amount_ht"`
	VAT          *decimal.Decimal `json:"vat,omitempty"`
	CurrencyType Currency         `json:"currency_type"`
}

// ExternalInvoiceInput carries the fields needed to create an external invoice.
type ExternalInvoiceInput struct {
	SupplierID   int
	ProjectID    int
	Reference    string
	InvoiceDate  time.Time
	DueDate      time.Time
	AmountTTC    decimal.Decimal
	AmountHT     decimal.Decimal
	VAT          *decimal.Decimal
	CurrencyType Currency
}

// ExternalInvoiceUpdate carries a partial update; nil fields are left unchanged.
type ExternalInvoiceUpdate struct {
	SupplierID   *int
	ProjectID    *int
	Reference    *string
	InvoiceDate  *time.Time
	DueDate      *time.Time
	AmountTTC    *decimal.Decimal
	AmountHT     *decimal.Decimal
	VAT          *decimal.Decimal
	CurrencyType *Currency
}

// InternalInvoiceInput carries the fields needed to create an internal invoice.
type InternalInvoiceInput struct {
	CustomerID   int
	ProjectID    int
	Reference    string
	InvoiceDate  time.Time
	DueDate      time.Time
	AmountTTC    decimal.Decimal
	AmountHT     decimal.Decimal
	VAT          *decimal.Decimal
	CurrencyType Currency
}

// InternalInvoiceUpdate carries a partial update; nil fields are left unchanged.
type InternalInvoiceUpdate struct {
	CustomerID   *int
	ProjectID    *int
	Reference    *string
	InvoiceDate  *time.Time
	DueDate      *time.Time
	AmountTTC    *decimal.Decimal
	AmountHT     *decimal.Decimal
	VAT          *decimal.Decimal
	CurrencyType *Currency
}

// InvoiceService manages purchase and sales invoices. Create and update
// operations verify that the referenced supplier, customer and project
// exist and fail with ErrNotFound otherwise.
type InvoiceService interface {
	CreateExternalInvoice(ctx context.Context, input ExternalInvoiceInput) (*ExternalInvoice, error)

	// GetExternalInvoices returns one page of purchase invoices and the
	// total count. A limit <= 0 falls back to the default page size.
	GetExternalInvoices(ctx context.Context, skip, limit int) ([]ExternalInvoice, int, error)
	GetExternalInvoice(ctx context.Context, id int) (*ExternalInvoice, error)

	// GetExternalInvoicesBySupplier lists purchase invoices of one supplier.
	GetExternalInvoicesBySupplier(ctx context.Context, supplierID int) ([]ExternalInvoice, error)
	UpdateExternalInvoice(ctx context.Context, id int, update ExternalInvoiceUpdate) (*ExternalInvoice, error)
	DeleteExternalInvoice(ctx context.Context, id int) error

	CreateInternalInvoice(ctx context.Context, input InternalInvoiceInput) (*InternalInvoice, error)

	// GetInternalInvoices returns one page of sales invoices and the
	// total count.
	GetInternalInvoices(ctx context.Context, skip, limit int) ([]InternalInvoice, int, error)
	GetInternalInvoice(ctx context.Context, id int) (*InternalInvoice, error)

	// GetInternalInvoicesByCustomer lists sales invoices of one customer.
	GetInternalInvoicesByCustomer(ctx context.Context, customerID int) ([]InternalInvoice, error)
	UpdateInternalInvoice(ctx context.Context, id int, update InternalInvoiceUpdate) (*InternalInvoice, error)
	DeleteInternalInvoice(ctx context.Context, id int) error
}
