package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/credentials"
	"github.com/mryoshq/Accounting-AI/internal/export"
	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

type appService struct {
	core.SupplierService
	core.CustomerService
	core.ProjectService
	core.PartService
	core.InvoiceService
	core.PaymentService
	core.UserService
	core.ReportingService

	pipeline *extraction.Pipeline
	resolver *credentials.Resolver
	secret   []byte
	logger   *zap.Logger
}

// Services bundles the domain services the facade delegates to.
type Services struct {
	Suppliers core.SupplierService
	Customers core.CustomerService
	Projects  core.ProjectService
	Parts     core.PartService
	Invoices  core.InvoiceService
	Payments  core.PaymentService
	Users     core.UserService
	Reporting core.ReportingService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	svcs Services,
	pipeline *extraction.Pipeline,
	resolver *credentials.Resolver,
	jwtSecret string,
	logger *zap.Logger,
) ApplicationService {
	return &appService{
		SupplierService:  svcs.Suppliers,
		CustomerService:  svcs.Customers,
		ProjectService:   svcs.Projects,
		PartService:      svcs.Parts,
		InvoiceService:   svcs.Invoices,
		PaymentService:   svcs.Payments,
		UserService:      svcs.Users,
		ReportingService: svcs.Reporting,
		pipeline:         pipeline,
		resolver:         resolver,
		secret:           []byte(jwtSecret),
		logger:           logger,
	}
}

// ProcessInvoices resolves the user's key and runs the batch with per-file
// isolation. Debug timing is always on; the log level decides visibility.
func (s *appService) ProcessInvoices(ctx context.Context, userID int, docs []extraction.Document) (*ProcessResult, error) {
	apiKey, err := s.resolver.DecryptedKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("processing invoice batch",
		zap.Int("user_id", userID),
		zap.Int("files", len(docs)),
	)
	results := s.pipeline.Run(ctx, apiKey, docs, true)
	return &ProcessResult{Data: results}, nil
}

// StoreAPIToken encrypts the raw key before storage; an empty key clears it.
func (s *appService) StoreAPIToken(ctx context.Context, userID int, rawKey string) (*APITokenResult, error) {
	if rawKey == "" {
		if err := s.UserService.SetAPIToken(ctx, userID, ""); err != nil {
			return nil, err
		}
		return &APITokenResult{}, nil
	}

	cipher, err := credentials.Encrypt(s.secret, rawKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt api token: %w", err)
	}
	if err := s.UserService.SetAPIToken(ctx, userID, cipher); err != nil {
		return nil, err
	}
	return &APITokenResult{Preview: credentials.Preview(rawKey)}, nil
}

func (s *appService) APITokenPreview(ctx context.Context, userID int) (*APITokenResult, error) {
	cipher, err := s.UserService.APIToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cipher == nil {
		return nil, fmt.Errorf("api token for user %d: %w", userID, core.ErrNotFound)
	}
	rawKey, err := credentials.Decrypt(s.secret, *cipher)
	if err != nil {
		return nil, &credentials.CredentialError{UserID: userID, Err: err}
	}
	return &APITokenResult{Preview: credentials.Preview(rawKey)}, nil
}

// ExportReport runs the aggregation and renders the requested format.
func (s *appService) ExportReport(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	report, err := s.ReportingService.GenerateReport(ctx, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		Report:    report,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	stamp := fmt.Sprintf("report_%s_to_%s", req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))

	switch req.Format {
	case FormatJSON, "":
		// JSON responses carry the report struct itself.
	case FormatCSV:
		content, err := export.ReportCSV(report)
		if err != nil {
			return nil, fmt.Errorf("render csv report: %w", err)
		}
		result.Content = content
		result.ContentType = "text/csv"
		result.Filename = stamp + ".csv"
	case FormatXLSX:
		content, err := export.ReportXLSX(report)
		if err != nil {
			return nil, fmt.Errorf("render xlsx report: %w", err)
		}
		result.Content = content
		result.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		result.Filename = stamp + ".xlsx"
	default:
		return nil, fmt.Errorf("unsupported report format %q", req.Format)
	}
	return result, nil
}
