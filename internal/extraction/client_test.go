package extraction

import (
	"errors"
	"testing"
)

func TestInvoiceSchemaMap(t *testing.T) {
	schemaMap, err := invoiceSchemaMap()
	if err != nil {
		t.Fatalf("invoiceSchemaMap: %v", err)
	}

	if ap, ok := schemaMap["additionalProperties"].(bool); !ok || ap {
		t.Errorf("schema must set additionalProperties=false, got %v", schemaMap["additionalProperties"])
	}

	props, ok := schemaMap["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties map: %v", schemaMap)
	}
	for _, field := range []string{
		"invoice_number", "invoice_date", "due_date", "items",
		"total_amount_ht", "total_vat_amount", "total_amount_ttc",
		"currency", "supplier", "customer", "ice", "postal_code",
	} {
		if _, present := props[field]; !present {
			t.Errorf("schema is missing field %q", field)
		}
	}

	currency, ok := props["currency"].(map[string]any)
	if !ok {
		t.Fatal("currency property missing")
	}
	enum, ok := currency["enum"].([]any)
	if !ok || len(enum) != 2 {
		t.Fatalf("currency enum = %v, want exactly [EUR MAD]", currency["enum"])
	}

	for _, field := range []string{"total_amount_ht", "total_vat_amount", "total_amount_ttc"} {
		prop := props[field].(map[string]any)
		types, ok := prop["type"].([]any)
		if !ok || len(types) != 2 {
			t.Errorf("%s must be nullable, got type %v", field, prop["type"])
		}
	}
}

func TestClient_Decode(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Run("valid response with decoy ICE", func(t *testing.T) {
		inv, err := client.decode([]byte(`{
			"invoice_number": "2024-17",
			"invoice_date": "2024-03-02",
			"due_date": "2024-04-01",
			"items": [{"code": "SRV", "description": "Consulting", "unit_price": 850.0, "quantity": 2}],
			"total_amount_ht": 1700.0,
			"total_vat_amount": 340.0,
			"total_amount_ttc": 2040.0,
			"currency": "MAD",
			"supplier": "Maroc Telecom",
			"customer": "",
			"ice": "002150760000076",
			"postal_code": "20000"
		}`))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if inv.ICE != UnknownICE {
			t.Errorf("decoy ICE must be overridden with %q, got %q", UnknownICE, inv.ICE)
		}
		if len(inv.Items) != 1 || inv.Items[0].Quantity != 2 {
			t.Errorf("items lost in decode: %+v", inv.Items)
		}
	})

	t.Run("unknown currency is terminal", func(t *testing.T) {
		_, err := client.decode([]byte(`{
			"invoice_number": "X", "invoice_date": "", "due_date": "", "items": [],
			"total_amount_ht": null, "total_vat_amount": null, "total_amount_ttc": null,
			"currency": "USD", "supplier": "S", "customer": "", "ice": "", "postal_code": ""
		}`))
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError for unknown currency, got %v", err)
		}
	})

	t.Run("non-JSON content", func(t *testing.T) {
		_, err := client.decode([]byte("I could not read the invoice."))
		var upstream *UpstreamError
		if !errors.As(err, &upstream) {
			t.Fatalf("expected UpstreamError for non-JSON content, got %v", err)
		}
	})
}

func TestClient_Extract_MissingInput(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Extract(t.Context(), "sk-test", "")
	if !errors.Is(err, ErrMissingInput) {
		t.Errorf("expected ErrMissingInput, got %v", err)
	}
}
