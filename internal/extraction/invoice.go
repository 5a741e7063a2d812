package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// DecoyICE is the known-bad tax identifier printed on most invoices
	// alongside the real one. It must never reach the caller.
	DecoyICE = "002150760000076"

	// UnknownICE replaces the decoy when no valid identifier was found.
	UnknownICE = "00000"
)

// Currencies accepted on an extracted invoice. Anything else is a
// schema-validation failure, never coerced.
const (
	CurrencyEUR = "EUR"
	CurrencyMAD = "MAD"
)

// LineItem is a single item row on an extracted invoice. Ordering within
// the parent invoice is significant and preserved.
type LineItem struct {
	Code        string  `json:"code" jsonschema_description:"Code of the item, name, designation or reference number"`
	Description string  `json:"description" jsonschema_description:"Description of the item"`
	UnitPrice   float64 `json:"unit_price" jsonschema_description:"Unit price of the item"`
	Quantity    int     `json:"quantity" jsonschema_description:"Quantity of the item"`
}

// UnmarshalJSON applies the schema-declared defaults: an omitted or null
// quantity is 1, everything else zero-values.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	type alias LineItem
	aux := struct {
		Quantity *int `json:"quantity"`
		*alias
	}{alias: (*alias)(li)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Quantity == nil {
		li.Quantity = 1
	} else {
		li.Quantity = *aux.Quantity
	}
	return nil
}

// Invoice is the canonical extraction result. The JSON shape doubles as the
// structured-output schema sent to the model; field descriptions are part of
// the extraction instructions. Immutable once normalized and validated.
type Invoice struct {
	InvoiceNumber  string     `json:"invoice_number" jsonschema_description:"Invoice number"`
	InvoiceDate    string     `json:"invoice_date" jsonschema_description:"Invoice date in yyyy-MM-dd format"`
	DueDate        string     `json:"due_date" jsonschema_description:"Due date in yyyy-MM-dd format"`
	Items          []LineItem `json:"items" jsonschema_description:"List of items with details including price and quantity"`
	TotalAmountHT  *float64   `json:"total_amount_ht" jsonschema_description:"Total amount excluding VAT"`
	TotalVATAmount *float64   `json:"total_vat_amount" jsonschema_description:"Total VAT amount"`
	TotalAmountTTC *float64   `json:"total_amount_ttc" jsonschema_description:"Total amount including VAT"`
	Currency       string     `json:"currency" jsonschema:"enum=EUR,enum=MAD" jsonschema_description:"Currency of the invoice"`
	Supplier       string     `json:"supplier" jsonschema_description:"Name of the supplier"`
	Customer       string     `json:"customer" jsonschema_description:"Name of the customer"`
	ICE            string     `json:"ice" jsonschema_description:"ICE number of the supplier or the customer"`
	PostalCode     string     `json:"postal_code" jsonschema_description:"Postal code of the supplier or the customer"`
}

// ParseInvoice decodes model output into an Invoice, applying the
// schema-declared defaults for omitted fields. It performs no invariant
// checks — callers run Normalize and Validate afterwards so that
// recoverable defaulting and fatal schema violations stay distinguishable.
func ParseInvoice(data []byte) (*Invoice, error) {
	var inv Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return &inv, nil
}

// Normalize cleans up model output and applies the deterministic tax-ID
// backstop: a decoy ICE is replaced with the unknown sentinel whether it
// appeared alone or alongside a valid number. The extraction instructions
// already steer the model away from the decoy; this guarantees it.
func (inv *Invoice) Normalize() {
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	inv.InvoiceDate = strings.TrimSpace(inv.InvoiceDate)
	inv.DueDate = strings.TrimSpace(inv.DueDate)
	inv.Currency = strings.ToUpper(strings.TrimSpace(inv.Currency))
	inv.Supplier = strings.TrimSpace(inv.Supplier)
	inv.Customer = strings.TrimSpace(inv.Customer)
	inv.ICE = strings.TrimSpace(inv.ICE)
	inv.PostalCode = strings.TrimSpace(inv.PostalCode)

	if inv.ICE == DecoyICE {
		inv.ICE = UnknownICE
	}

	if inv.Items == nil {
		inv.Items = []LineItem{}
	}
}

// Validate enforces the invariants that have no default: the currency must
// be one of the enumerated values and dates, when present, must be ISO
// calendar dates. Violations are terminal for the document.
func (inv *Invoice) Validate() error {
	switch inv.Currency {
	case CurrencyEUR, CurrencyMAD:
	default:
		return fmt.Errorf("currency %q is not one of [%s %s]", inv.Currency, CurrencyEUR, CurrencyMAD)
	}

	for _, field := range []struct{ name, value string }{
		{"invoice_date", inv.InvoiceDate},
		{"due_date", inv.DueDate},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", field.value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", field.name, field.value, err)
		}
	}
	return nil
}
