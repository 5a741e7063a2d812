package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExternalInvoice_Lifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	suppliers := core.NewSupplierService(pool)
	projects := core.NewProjectService(pool)
	invoices := core.NewInvoiceService(pool)
	parts := core.NewPartService(pool)
	payments := core.NewPaymentService(pool)

	supplier, err := suppliers.CreateSupplier(ctx, core.SupplierInput{Name: "Atlas Cables", ICE: "000111222000033"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	project, err := projects.CreateProject(ctx, core.ProjectInput{Name: "Site Casablanca"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	t.Run("Create_MissingSupplier", func(t *testing.T) {
		_, err := invoices.CreateExternalInvoice(ctx, core.ExternalInvoiceInput{
			SupplierID:   99999,
			ProjectID:    project.ID,
			Reference:    "FA-2024-001",
			InvoiceDate:  date(2024, 3, 1),
			DueDate:      date(2024, 4, 1),
			AmountTTC:    decimal.RequireFromString("1200.00"),
			AmountHT:     decimal.RequireFromString("1000.00"),
			CurrencyType: core.CurrencyMAD,
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	vat := decimal.RequireFromString("200.00")
	invoice, err := invoices.CreateExternalInvoice(ctx, core.ExternalInvoiceInput{
		SupplierID:   supplier.ID,
		ProjectID:    project.ID,
		Reference:    "FA-2024-001",
		InvoiceDate:  date(2024, 3, 1),
		DueDate:      date(2024, 4, 1),
		AmountTTC:    decimal.RequireFromString("1200.00"),
		AmountHT:     decimal.RequireFromString("1000.00"),
		VAT:          &vat,
		CurrencyType: core.CurrencyMAD,
	})
	if err != nil {
		t.Fatalf("CreateExternalInvoice: %v", err)
	}
	if invoice.VAT == nil || !invoice.VAT.Equal(vat) {
		t.Errorf("expected VAT 200.00, got %v", invoice.VAT)
	}

	t.Run("Part_DerivesRefsAndAmount", func(t *testing.T) {
		p, err := parts.CreatePart(ctx, core.PartInput{
			ItemCode:          "CBL-16",
			Quantity:          3,
			UnitPrice:         decimal.RequireFromString("19.99"),
			ExternalInvoiceID: invoice.ID,
		})
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if !p.Amount.Equal(decimal.RequireFromString("59.97")) {
			t.Errorf("expected amount 59.97, got %s", p.Amount)
		}
		if p.SupplierID == nil || *p.SupplierID != supplier.ID {
			t.Errorf("expected supplier derived from invoice, got %v", p.SupplierID)
		}
		if p.ProjectID == nil || *p.ProjectID != project.ID {
			t.Errorf("expected project derived from invoice, got %v", p.ProjectID)
		}
	})

	t.Run("Part_QuantityDefaultsToOne", func(t *testing.T) {
		p, err := parts.CreatePart(ctx, core.PartInput{
			ItemCode:          "CBL-25",
			UnitPrice:         decimal.RequireFromString("7.50"),
			ExternalInvoiceID: invoice.ID,
		})
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if p.Quantity != 1 {
			t.Errorf("expected quantity 1, got %d", p.Quantity)
		}
		if !p.Amount.Equal(decimal.RequireFromString("7.50")) {
			t.Errorf("expected amount 7.50, got %s", p.Amount)
		}
	})

	t.Run("Part_UpdateRecomputesAmount", func(t *testing.T) {
		list, err := parts.GetPartsByInvoice(ctx, invoice.ID)
		if err != nil {
			t.Fatalf("GetPartsByInvoice: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 parts, got %d", len(list))
		}
		qty := 4
		p, err := parts.UpdatePart(ctx, list[0].ID, core.PartUpdate{Quantity: &qty})
		if err != nil {
			t.Fatalf("UpdatePart: %v", err)
		}
		want := list[0].UnitPrice.Mul(decimal.NewFromInt(4)).Round(2)
		if !p.Amount.Equal(want) {
			t.Errorf("expected amount %s, got %s", want, p.Amount)
		}
	})

	t.Run("Payment_DerivesRefsFromInvoice", func(t *testing.T) {
		amount := decimal.RequireFromString("600.00")
		pay, err := payments.CreatePaymentToSupplier(ctx, core.PaymentToSupplierInput{
			ExternalInvoiceID: invoice.ID,
			PaymentStatus:     core.PaymentStatusPartial,
			PaymentMode:       core.PaymentModeBankTransfer,
			Amount:            &amount,
			DisbursementDate:  date(2024, 3, 15),
			PaymentRef:        "VIR-4412",
		})
		if err != nil {
			t.Fatalf("CreatePaymentToSupplier: %v", err)
		}
		if pay.SupplierID != supplier.ID || pay.ProjectID != project.ID {
			t.Errorf("expected refs derived from invoice, got supplier %d project %d", pay.SupplierID, pay.ProjectID)
		}
		if pay.Remaining != nil {
			t.Errorf("expected nil remaining, got %v", pay.Remaining)
		}
	})

	t.Run("Invoice_UpdateCurrency", func(t *testing.T) {
		cur := core.CurrencyEUR
		inv, err := invoices.UpdateExternalInvoice(ctx, invoice.ID, core.ExternalInvoiceUpdate{CurrencyType: &cur})
		if err != nil {
			t.Fatalf("UpdateExternalInvoice: %v", err)
		}
		if inv.CurrencyType != core.CurrencyEUR {
			t.Errorf("expected EUR, got %s", inv.CurrencyType)
		}
		if inv.Reference != "FA-2024-001" {
			t.Errorf("partial update must not touch reference, got %s", inv.Reference)
		}
	})

	t.Run("Invoice_DeleteCascadesPartsAndPayments", func(t *testing.T) {
		if err := invoices.DeleteExternalInvoice(ctx, invoice.ID); err != nil {
			t.Fatalf("DeleteExternalInvoice: %v", err)
		}
		list, _, err := parts.GetParts(ctx, 0, 0)
		if err != nil {
			t.Fatalf("GetParts: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("expected parts removed with invoice, got %d", len(list))
		}
		pays, _, err := payments.GetPaymentsToSuppliers(ctx, 0, 0)
		if err != nil {
			t.Fatalf("GetPaymentsToSuppliers: %v", err)
		}
		if len(pays) != 0 {
			t.Errorf("expected payments removed with invoice, got %d", len(pays))
		}
	})
}
