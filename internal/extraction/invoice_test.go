package extraction_test

import (
	"testing"

	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

func TestParseInvoice_Defaults(t *testing.T) {
	// Omitted line-item fields take the schema defaults; omitted totals stay
	// absent rather than being computed.
	data := []byte(`{
		"invoice_number": "F-2024-001",
		"items": [{"description": "Steel brackets"}, {"code": "P-7", "quantity": 3, "unit_price": 12.5}],
		"total_amount_ht": 100.0,
		"total_amount_ttc": 120.0,
		"currency": "MAD",
		"supplier": "Atlas Metal"
	}`)

	inv, err := extraction.ParseInvoice(data)
	if err != nil {
		t.Fatalf("ParseInvoice: %v", err)
	}

	if len(inv.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(inv.Items))
	}
	if inv.Items[0].Quantity != 1 {
		t.Errorf("omitted quantity should default to 1, got %d", inv.Items[0].Quantity)
	}
	if inv.Items[0].Code != "" || inv.Items[0].UnitPrice != 0 {
		t.Errorf("omitted code/unit_price should default to zero values, got %+v", inv.Items[0])
	}
	if inv.Items[1].Quantity != 3 {
		t.Errorf("explicit quantity overridden: got %d", inv.Items[1].Quantity)
	}
	if inv.TotalVATAmount != nil {
		t.Errorf("absent total_vat_amount must stay nil, got %v", *inv.TotalVATAmount)
	}
	if inv.TotalAmountHT == nil || *inv.TotalAmountHT != 100.0 {
		t.Errorf("total_amount_ht lost in decode: %+v", inv.TotalAmountHT)
	}
}

func TestInvoice_Normalize_DecoyICE(t *testing.T) {
	tests := []struct {
		name string
		ice  string
		want string
	}{
		{"decoy as sole identifier", extraction.DecoyICE, extraction.UnknownICE},
		{"decoy with surrounding spaces", " " + extraction.DecoyICE + " ", extraction.UnknownICE},
		{"valid identifier untouched", "001546321000054", "001546321000054"},
		{"unknown sentinel passes through", extraction.UnknownICE, extraction.UnknownICE},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := extraction.Invoice{ICE: tt.ice, Currency: "MAD"}
			inv.Normalize()
			if inv.ICE != tt.want {
				t.Errorf("ICE = %q, want %q", inv.ICE, tt.want)
			}
		})
	}
}

func TestInvoice_Validate_Currency(t *testing.T) {
	tests := []struct {
		currency  string
		expectErr bool
	}{
		{"EUR", false},
		{"MAD", false},
		{"eur", false}, // Normalize upcases before Validate
		{"USD", true},
		{"", true},
		{"MAD ", false}, // trimmed by Normalize
	}

	for _, tt := range tests {
		t.Run("currency "+tt.currency, func(t *testing.T) {
			inv := extraction.Invoice{Currency: tt.currency}
			inv.Normalize()
			err := inv.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("expected rejection of currency %q, got nil", tt.currency)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error for currency %q: %v", tt.currency, err)
			}
		})
	}
}

func TestInvoice_Validate_Dates(t *testing.T) {
	inv := extraction.Invoice{Currency: "EUR", InvoiceDate: "2024-05-12", DueDate: "2024-06-11"}
	if err := inv.Validate(); err != nil {
		t.Fatalf("valid dates rejected: %v", err)
	}

	inv.DueDate = "11/06/2024"
	if err := inv.Validate(); err == nil {
		t.Error("expected rejection of non-ISO due date")
	}

	// Absent dates are a recoverable default, not a validation failure.
	inv = extraction.Invoice{Currency: "EUR"}
	if err := inv.Validate(); err != nil {
		t.Fatalf("empty dates rejected: %v", err)
	}
}
