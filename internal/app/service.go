package app

import (
	"context"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

// ApplicationService is the single interface the HTTP adapter calls. The
// embedded core interfaces expose plain CRUD; the methods declared here are
// the composite flows that cross service boundaries. Implementations must
// contain no display logic of any kind.
type ApplicationService interface {
	core.SupplierService
	core.CustomerService
	core.ProjectService
	core.PartService
	core.InvoiceService
	core.PaymentService
	core.UserService
	core.ReportingService

	// ProcessInvoices resolves the user's OpenAI key and runs the uploaded
	// documents through the extraction pipeline. The whole batch fails only
	// when no usable key is stored; document failures are reported per file.
	ProcessInvoices(ctx context.Context, userID int, docs []extraction.Document) (*ProcessResult, error)

	// StoreAPIToken encrypts and stores the user's OpenAI key. An empty key
	// clears the stored one.
	StoreAPIToken(ctx context.Context, userID int, rawKey string) (*APITokenResult, error)

	// APITokenPreview returns a masked preview of the stored key, or
	// core.ErrNotFound when none is set.
	APITokenPreview(ctx context.Context, userID int) (*APITokenResult, error)

	// ExportReport generates a report over the date range and renders it in
	// the requested format.
	ExportReport(ctx context.Context, req ReportRequest) (*ReportResult, error)
}
