package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentToSupplier is a disbursement settling an external invoice.
// SupplierID and ProjectID are always derived from the invoice.
type PaymentToSupplier struct {
	ID                int              `json:"id"`
	ExternalInvoiceID int              `json:"external_invoice_id"`
	SupplierID        int              `json:"supplier_id"`
	ProjectID         int              `json:"project_id"`
	PaymentStatus     PaymentStatus    `json:"payment_status"`
	PaymentMode       PaymentMode      `json:"payment_mode"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Remaining         *decimal.Decimal `json:"remaining,omitempty"`
	DisbursementDate  time.Time        `json:"disbursement_date"`
	PaymentRef        string           `json:"payment_ref"`
	AdditionalFees    *decimal.Decimal `json:"additional_fees,omitempty"`
}

// PaymentFromCustomer is a receipt settling an internal invoice.
// CustomerID and ProjectID are always derived from the invoice.
type PaymentFromCustomer struct {
	ID                int              `json:"id"`
	InternalInvoiceID int              `json:"internal_invoice_id"`
	CustomerID        int              `json:"customer_id"`
	ProjectID         int              `json:"project_id"`
	PaymentStatus     PaymentStatus    `json:"payment_status"`
	PaymentMode       PaymentMode      `json:"payment_mode"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Remaining         *decimal.Decimal `json:"remaining,omitempty"`
	DisbursementDate  time.Time        `json:"disbursement_date"`
	PaymentRef        string           `json:"payment_ref"`
	AdditionalFees    *decimal.Decimal `json:"additional_fees,omitempty"`
}

// PaymentToSupplierInput carries the fields needed to record a supplier payment.
type PaymentToSupplierInput struct {
	ExternalInvoiceID int
	PaymentStatus     PaymentStatus
	PaymentMode       PaymentMode
	Amount            *decimal.Decimal
	Remaining         *decimal.Decimal
	DisbursementDate  time.Time
	PaymentRef        string
	AdditionalFees    *decimal.Decimal
}

// PaymentToSupplierUpdate carries a partial update; nil fields are left unchanged.
type PaymentToSupplierUpdate struct {
	ExternalInvoiceID *int
	PaymentStatus     *PaymentStatus
	PaymentMode       *PaymentMode
	Amount            *decimal.Decimal
	Remaining         *decimal.Decimal
	DisbursementDate  *time.Time
	PaymentRef        *string
	AdditionalFees    *decimal.Decimal
}

// PaymentFromCustomerInput carries the fields needed to record a customer payment.
type PaymentFromCustomerInput struct {
	InternalInvoiceID int
	PaymentStatus     PaymentStatus
	PaymentMode       PaymentMode
	Amount            *decimal.Decimal
	Remaining         *decimal.Decimal
	DisbursementDate  time.Time
	PaymentRef        string
	AdditionalFees    *decimal.Decimal
}

// PaymentFromCustomerUpdate carries a partial update; nil fields are left unchanged.
type PaymentFromCustomerUpdate struct {
	InternalInvoiceID *int
	PaymentStatus     *PaymentStatus
	PaymentMode       *PaymentMode
	Amount            *decimal.Decimal
	Remaining         *decimal.Decimal
	DisbursementDate  *time.Time
	PaymentRef        *string
	AdditionalFees    *decimal.Decimal
}

// PaymentService records settlements on both sides of the ledger.
type PaymentService interface {
	CreatePaymentToSupplier(ctx context.Context, input PaymentToSupplierInput) (*PaymentToSupplier, error)

	// GetPaymentsToSuppliers returns one page of disbursements and the
	// total count. A limit <= 0 falls back to the default page size.
	GetPaymentsToSuppliers(ctx context.Context, skip, limit int) ([]PaymentToSupplier, int, error)
	GetPaymentToSupplier(ctx context.Context, id int) (*PaymentToSupplier, error)

	// GetPaymentsByExternalInvoice lists disbursements against one invoice.
	GetPaymentsByExternalInvoice(ctx context.Context, externalInvoiceID int) ([]PaymentToSupplier, error)
	UpdatePaymentToSupplier(ctx context.Context, id int, update PaymentToSupplierUpdate) (*PaymentToSupplier, error)
	DeletePaymentToSupplier(ctx context.Context, id int) error

	CreatePaymentFromCustomer(ctx context.Context, input PaymentFromCustomerInput) (*PaymentFromCustomer, error)

	// GetPaymentsFromCustomers returns one page of receipts and the
	// total count.
	GetPaymentsFromCustomers(ctx context.Context, skip, limit int) ([]PaymentFromCustomer, int, error)
	GetPaymentFromCustomer(ctx context.Context, id int) (*PaymentFromCustomer, error)

	// GetPaymentsByInternalInvoice lists receipts against one invoice.
	GetPaymentsByInternalInvoice(ctx context.Context, internalInvoiceID int) ([]PaymentFromCustomer, error)
	UpdatePaymentFromCustomer(ctx context.Context, id int, update PaymentFromCustomerUpdate) (*PaymentFromCustomer, error)
	DeletePaymentFromCustomer(ctx context.Context, id int) error
}
