package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Part is a line item of an external invoice. Amount is always computed as
// quantity times unit price, rounded half-up to two decimal places; callers
// never set it directly.
type Part struct {
	ID                int             `json:"id"`
	ItemCode          string          `json:"item_code"`
	Description       *string         `json:"description,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	ExternalInvoiceID *int            `json:"external_invoice_id,omitempty"`
	SupplierID        *int            `json:"supplier_id,omitempty"`
	ProjectID         *int            `json:"project_id,omitempty"`
}

// PartInput carries the fields needed to create a part. SupplierID and
// ProjectID default to those of the referenced external invoice when nil.
type PartInput struct {
	ItemCode          string
	Description       string
	Quantity          int
	UnitPrice         decimal.Decimal
	ExternalInvoiceID int
	SupplierID        *int
	ProjectID         *int
}

// PartUpdate carries a partial update; nil fields are left unchanged.
// When ExternalInvoiceID changes, SupplierID and ProjectID are re-derived
// from the new invoice unless given explicitly.
type PartUpdate struct {
	ItemCode          *string
	Description       *string
	Quantity          *int
	UnitPrice         *decimal.Decimal
	ExternalInvoiceID *int
	SupplierID        *int
	ProjectID         *int
}

// PartService manages invoice line items.
type PartService interface {
	CreatePart(ctx context.Context, input PartInput) (*Part, error)

	// GetParts returns one page of parts and the total part count. A
	// limit <= 0 falls back to the default page size.
	GetParts(ctx context.Context, skip, limit int) ([]Part, int, error)

	// GetPart returns a part by ID, or ErrNotFound.
	GetPart(ctx context.Context, id int) (*Part, error)

	// GetPartsByInvoice lists the parts of one external invoice.
	GetPartsByInvoice(ctx context.Context, externalInvoiceID int) ([]Part, error)
	UpdatePart(ctx context.Context, id int, update PartUpdate) (*Part, error)
	DeletePart(ctx context.Context, id int) error
}
