package web

import (
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mryoshq/Accounting-AI/internal/core"
	"github.com/mryoshq/Accounting-AI/internal/extraction"
)

// maxUploadBytes caps one extraction batch upload.
const maxUploadBytes = 64 << 20

type invoiceRequest struct {
	SupplierID   int              `json:"supplier_id"`
	CustomerID   int              `json:"customer_id"`
	ProjectID    int              `json:"project_id"`
	Reference    string           `json:"reference"`
	InvoiceDate  string           `json:"invoice_date"`
	DueDate      string           `json:"due_date"`
	AmountTTC    decimal.Decimal  `json:"amount_ttc"`
	AmountHT     decimal.Decimal  `json:"amount_ht"`
	VAT          *decimal.Decimal `json:"vat"`
	CurrencyType string           `json:"currency_type"`
}

type invoicePatch struct {
	SupplierID   *int             `json:"supplier_id"`
	CustomerID   *int             `json:"customer_id"`
	ProjectID    *int             `json:"project_id"`
	Reference    *string          `json:"reference"`
	InvoiceDate  *string          `json:"invoice_date"`
	DueDate      *string          `json:"due_date"`
	AmountTTC    *decimal.Decimal `json:"amount_ttc"`
	AmountHT     *decimal.Decimal `json:"amount_ht"`
	VAT          *decimal.Decimal `json:"vat"`
	CurrencyType *string          `json:"currency_type"`
}

// invoiceDates validates the two required date fields of a create request.
func (req invoiceRequest) invoiceDates(w http.ResponseWriter, r *http.Request) (invoiceDate, dueDate time.Time, ok bool) {
	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		writeError(w, r, "invoice_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return invoiceDate, dueDate, false
	}
	dueDate, err = parseDate(req.DueDate)
	if err != nil {
		writeError(w, r, "due_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return invoiceDate, dueDate, false
	}
	return invoiceDate, dueDate, true
}

// patchDates converts the optional date strings of a patch request.
func (req invoicePatch) patchDates(w http.ResponseWriter, r *http.Request) (invoiceDate, dueDate *time.Time, ok bool) {
	if req.InvoiceDate != nil {
		d, err := parseDate(*req.InvoiceDate)
		if err != nil {
			writeError(w, r, "invoice_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return nil, nil, false
		}
		invoiceDate = &d
	}
	if req.DueDate != nil {
		d, err := parseDate(*req.DueDate)
		if err != nil {
			writeError(w, r, "due_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return nil, nil, false
		}
		dueDate = &d
	}
	return invoiceDate, dueDate, true
}

// patchCurrency validates the optional currency of a patch request.
func (req invoicePatch) patchCurrency(w http.ResponseWriter, r *http.Request) (*core.Currency, bool) {
	if req.CurrencyType == nil {
		return nil, true
	}
	cur := core.Currency(*req.CurrencyType)
	if !cur.Valid() {
		writeError(w, r, "currency_type must be MAD or EUR", "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &cur, true
}

// ── External invoices ─────────────────────────────────────────────────────────

func (h *Handler) createExternalInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reference == "" || req.SupplierID == 0 || req.ProjectID == 0 {
		writeError(w, r, "reference, supplier_id and project_id are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	cur := core.Currency(req.CurrencyType)
	if !cur.Valid() {
		writeError(w, r, "currency_type must be MAD or EUR", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	invoiceDate, dueDate, ok := req.invoiceDates(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.CreateExternalInvoice(r.Context(), core.ExternalInvoiceInput{
		SupplierID:   req.SupplierID,
		ProjectID:    req.ProjectID,
		Reference:    req.Reference,
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		AmountTTC:    req.AmountTTC,
		AmountHT:     req.AmountHT,
		VAT:          req.VAT,
		CurrencyType: cur,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) listExternalInvoices(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	invoices, total, err := h.svc.GetExternalInvoices(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(invoices, total))
}

func (h *Handler) listInvoicesBySupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	invoices, err := h.svc.GetExternalInvoicesBySupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(invoices, len(invoices)))
}

func (h *Handler) getExternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.GetExternalInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) updateExternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req invoicePatch
	if !decodeJSON(w, r, &req) {
		return
	}
	invoiceDate, dueDate, ok := req.patchDates(w, r)
	if !ok {
		return
	}
	cur, ok := req.patchCurrency(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.UpdateExternalInvoice(r.Context(), id, core.ExternalInvoiceUpdate{
		SupplierID:   req.SupplierID,
		ProjectID:    req.ProjectID,
		Reference:    req.Reference,
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		AmountTTC:    req.AmountTTC,
		AmountHT:     req.AmountHT,
		VAT:          req.VAT,
		CurrencyType: cur,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) deleteExternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteExternalInvoice(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "External invoice deleted successfully"})
}

// ── Internal invoices ─────────────────────────────────────────────────────────

func (h *Handler) createInternalInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reference == "" || req.CustomerID == 0 || req.ProjectID == 0 {
		writeError(w, r, "reference, customer_id and project_id are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	cur := core.Currency(req.CurrencyType)
	if !cur.Valid() {
		writeError(w, r, "currency_type must be MAD or EUR", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	invoiceDate, dueDate, ok := req.invoiceDates(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.CreateInternalInvoice(r.Context(), core.InternalInvoiceInput{
		CustomerID:   req.CustomerID,
		ProjectID:    req.ProjectID,
		Reference:    req.Reference,
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		AmountTTC:    req.AmountTTC,
		AmountHT:     req.AmountHT,
		VAT:          req.VAT,
		CurrencyType: cur,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) listInternalInvoices(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	invoices, total, err := h.svc.GetInternalInvoices(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(invoices, total))
}

func (h *Handler) listInvoicesByCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	invoices, err := h.svc.GetInternalInvoicesByCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(invoices, len(invoices)))
}

func (h *Handler) getInternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	inv, err := h.svc.GetInternalInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) updateInternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req invoicePatch
	if !decodeJSON(w, r, &req) {
		return
	}
	invoiceDate, dueDate, ok := req.patchDates(w, r)
	if !ok {
		return
	}
	cur, ok := req.patchCurrency(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.UpdateInternalInvoice(r.Context(), id, core.InternalInvoiceUpdate{
		CustomerID:   req.CustomerID,
		ProjectID:    req.ProjectID,
		Reference:    req.Reference,
		InvoiceDate:  invoiceDate,
		DueDate:      dueDate,
		AmountTTC:    req.AmountTTC,
		AmountHT:     req.AmountHT,
		VAT:          req.VAT,
		CurrencyType: cur,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, inv)
}

func (h *Handler) deleteInternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteInternalInvoice(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Internal invoice deleted successfully"})
}

// ── Document extraction ───────────────────────────────────────────────────────

// processExternalInvoices handles POST /api/external-invoices/process.
func (h *Handler) processExternalInvoices(w http.ResponseWriter, r *http.Request) {
	h.processInvoices(w, r)
}

// processInternalInvoices handles POST /api/internal-invoices/process.
func (h *Handler) processInternalInvoices(w http.ResponseWriter, r *http.Request) {
	h.processInvoices(w, r)
}

// processInvoices reads the multipart "files" field and runs the batch
// through the extraction pipeline. Both invoice sides share one pipeline;
// the extraction prompt itself distinguishes purchase and sales documents.
func (h *Handler) processInvoices(w http.ResponseWriter, r *http.Request) {
	claims := authFromContext(r.Context())
	if claims == nil {
		writeError(w, r, "not authenticated", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, r, "invalid multipart upload: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, r, "no files uploaded", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	docs := make([]extraction.Document, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, r, "read upload "+fh.Filename+": "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(w, r, "read upload "+fh.Filename+": "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
			return
		}

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = http.DetectContentType(data)
		}
		docs = append(docs, extraction.Document{
			Filename:    fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	result, err := h.svc.ProcessInvoices(r.Context(), claims.UserID, docs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
