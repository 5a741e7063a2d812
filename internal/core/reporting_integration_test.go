package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

func TestReporting_GenerateReport(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	suppliers := core.NewSupplierService(pool)
	customers := core.NewCustomerService(pool)
	projects := core.NewProjectService(pool)
	invoices := core.NewInvoiceService(pool)
	payments := core.NewPaymentService(pool)
	reporting := core.NewReportingService(pool)

	supplier, err := suppliers.CreateSupplier(ctx, core.SupplierInput{Name: "Atlas Cables", ICE: "000111222000033"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	customer, err := customers.CreateCustomer(ctx, core.CustomerInput{Name: "Oasis Promotion", ICE: "000999888000077", PostalCode: "10000"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	project, err := projects.CreateProject(ctx, core.ProjectInput{Name: "Site Rabat"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	idle, err := projects.CreateProject(ctx, core.ProjectInput{Name: "Site Agadir"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	extInv, err := invoices.CreateExternalInvoice(ctx, core.ExternalInvoiceInput{
		SupplierID:   supplier.ID,
		ProjectID:    project.ID,
		Reference:    "FA-100",
		InvoiceDate:  date(2024, 5, 10),
		DueDate:      date(2024, 6, 10),
		AmountTTC:    decimal.RequireFromString("2400.00"),
		AmountHT:     decimal.RequireFromString("2000.00"),
		CurrencyType: core.CurrencyMAD,
	})
	if err != nil {
		t.Fatalf("CreateExternalInvoice: %v", err)
	}
	intInv, err := invoices.CreateInternalInvoice(ctx, core.InternalInvoiceInput{
		CustomerID:   customer.ID,
		ProjectID:    project.ID,
		Reference:    "FC-200",
		InvoiceDate:  date(2024, 5, 20),
		DueDate:      date(2024, 6, 20),
		AmountTTC:    decimal.RequireFromString("6000.00"),
		AmountHT:     decimal.RequireFromString("5000.00"),
		CurrencyType: core.CurrencyMAD,
	})
	if err != nil {
		t.Fatalf("CreateInternalInvoice: %v", err)
	}

	// One disbursement inside the report window, one outside.
	out := decimal.RequireFromString("1000.00")
	if _, err := payments.CreatePaymentToSupplier(ctx, core.PaymentToSupplierInput{
		ExternalInvoiceID: extInv.ID,
		PaymentStatus:     core.PaymentStatusPartial,
		PaymentMode:       core.PaymentModeCheck,
		Amount:            &out,
		DisbursementDate:  date(2024, 5, 25),
		PaymentRef:        "CHQ-01",
	}); err != nil {
		t.Fatalf("CreatePaymentToSupplier: %v", err)
	}
	in := decimal.RequireFromString("3000.00")
	if _, err := payments.CreatePaymentFromCustomer(ctx, core.PaymentFromCustomerInput{
		InternalInvoiceID: intInv.ID,
		PaymentStatus:     core.PaymentStatusPartial,
		PaymentMode:       core.PaymentModeBankTransfer,
		Amount:            &in,
		DisbursementDate:  date(2024, 5, 28),
		PaymentRef:        "VIR-02",
	}); err != nil {
		t.Fatalf("CreatePaymentFromCustomer: %v", err)
	}
	late := decimal.RequireFromString("500.00")
	if _, err := payments.CreatePaymentFromCustomer(ctx, core.PaymentFromCustomerInput{
		InternalInvoiceID: intInv.ID,
		PaymentStatus:     core.PaymentStatusPartial,
		PaymentMode:       core.PaymentModeCash,
		Amount:            &late,
		DisbursementDate:  date(2024, 8, 1),
		PaymentRef:        "ESP-03",
	}); err != nil {
		t.Fatalf("CreatePaymentFromCustomer: %v", err)
	}

	report, err := reporting.GenerateReport(ctx, date(2024, 5, 1), date(2024, 5, 31))
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}

	if !report.TotalIncome.Equal(decimal.RequireFromString("3000.00")) {
		t.Errorf("expected income 3000.00, got %s", report.TotalIncome)
	}
	if !report.TotalExpenses.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("expected expenses 1000.00, got %s", report.TotalExpenses)
	}
	if !report.NetProfit.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("expected net profit 2000.00, got %s", report.NetProfit)
	}
	if !report.TotalReceivables.Equal(decimal.RequireFromString("6000.00")) {
		t.Errorf("expected receivables 6000.00, got %s", report.TotalReceivables)
	}
	if !report.TotalPayables.Equal(decimal.RequireFromString("2400.00")) {
		t.Errorf("expected payables 2400.00, got %s", report.TotalPayables)
	}

	if len(report.ProjectData) != 2 {
		t.Fatalf("expected 2 project rows, got %d", len(report.ProjectData))
	}
	for _, row := range report.ProjectData {
		switch row.ProjectName {
		case "Site Rabat":
			if !row.Profit.Equal(decimal.RequireFromString("2000.00")) {
				t.Errorf("Site Rabat: expected profit 2000.00, got %s", row.Profit)
			}
		case "Site Agadir":
			if !row.Income.IsZero() || !row.Expenses.IsZero() {
				t.Errorf("idle project %s must report zero totals", idle.Name)
			}
		default:
			t.Errorf("unexpected project row %q", row.ProjectName)
		}
	}

	// Rankings span all time, so the August payment counts too.
	if len(report.TopCustomers) != 1 {
		t.Fatalf("expected 1 top customer, got %d", len(report.TopCustomers))
	}
	if !report.TopCustomers[0].TotalPayment.Equal(decimal.RequireFromString("3500.00")) {
		t.Errorf("expected top customer total 3500.00, got %s", report.TopCustomers[0].TotalPayment)
	}
	if len(report.TopSuppliers) != 1 || report.TopSuppliers[0].Name != "Atlas Cables" {
		t.Errorf("unexpected top suppliers %v", report.TopSuppliers)
	}
}

func TestUser_AuthenticateAndToken(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	svc := core.NewUserService(pool)

	u, err := svc.CreateUser(ctx, core.UserInput{
		Email:    "admin@example.com",
		Password: "s3cret-passw0rd",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.HashedPassword == "s3cret-passw0rd" {
		t.Fatal("password stored in clear")
	}

	if _, err := svc.Authenticate(ctx, "admin@example.com", "s3cret-passw0rd"); err != nil {
		t.Errorf("Authenticate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin@example.com", "wrong"); err != core.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "ghost@example.com", "s3cret-passw0rd"); err != core.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.CheckPassword(ctx, u.ID, "s3cret-passw0rd"); err != nil {
		t.Errorf("CheckPassword: %v", err)
	}
	if err := svc.CheckPassword(ctx, u.ID, "wrong"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.CheckPassword(ctx, 99999, "s3cret-passw0rd"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	newPassword := "r0tated-passw0rd"
	if _, err := svc.UpdateUser(ctx, u.ID, core.UserUpdate{Password: &newPassword}); err != nil {
		t.Fatalf("UpdateUser password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin@example.com", newPassword); err != nil {
		t.Errorf("Authenticate after password change: %v", err)
	}
	if err := svc.CheckPassword(ctx, u.ID, "s3cret-passw0rd"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Errorf("old password must no longer verify, got %v", err)
	}

	if err := svc.SetAPIToken(ctx, u.ID, "ciphertext"); err != nil {
		t.Fatalf("SetAPIToken: %v", err)
	}
	cipher, err := svc.APIToken(ctx, u.ID)
	if err != nil {
		t.Fatalf("APIToken: %v", err)
	}
	if cipher == nil || *cipher != "ciphertext" {
		t.Errorf("expected stored cipher, got %v", cipher)
	}

	if err := svc.SetAPIToken(ctx, u.ID, ""); err != nil {
		t.Fatalf("SetAPIToken clear: %v", err)
	}
	cipher, err = svc.APIToken(ctx, u.ID)
	if err != nil {
		t.Fatalf("APIToken: %v", err)
	}
	if cipher != nil {
		t.Errorf("expected cleared token, got %v", *cipher)
	}
}
