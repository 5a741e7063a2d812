package web

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

type paymentRequest struct {
	ExternalInvoiceID int              `json:"external_invoice_id"`
	InternalInvoiceID int              `json:"internal_invoice_id"`
	PaymentStatus     string           `json:"payment_status"`
	PaymentMode       string           `json:"payment_mode"`
	Amount            *decimal.Decimal `json:"amount"`
	Remaining         *decimal.Decimal `json:"remaining"`
	DisbursementDate  string           `json:"disbursement_date"`
	PaymentRef        string           `json:"payment_ref"`
	AdditionalFees    *decimal.Decimal `json:"additional_fees"`
}

type paymentPatch struct {
	ExternalInvoiceID *int             `json:"external_invoice_id"`
	InternalInvoiceID *int             `json:"internal_invoice_id"`
	PaymentStatus     *string          `json:"payment_status"`
	PaymentMode       *string          `json:"payment_mode"`
	Amount            *decimal.Decimal `json:"amount"`
	Remaining         *decimal.Decimal `json:"remaining"`
	DisbursementDate  *string          `json:"disbursement_date"`
	PaymentRef        *string          `json:"payment_ref"`
	AdditionalFees    *decimal.Decimal `json:"additional_fees"`
}

// paymentTerms validates the status, mode and disbursement date of a create request.
func (req paymentRequest) paymentTerms(w http.ResponseWriter, r *http.Request) (core.PaymentStatus, core.PaymentMode, time.Time, bool) {
	status := core.PaymentStatus(req.PaymentStatus)
	if !status.Valid() {
		writeError(w, r, "payment_status must be Paid, Pending, Partial, Failed or Missing", "BAD_REQUEST", http.StatusBadRequest)
		return status, "", time.Time{}, false
	}
	mode := core.PaymentMode(req.PaymentMode)
	if !mode.Valid() {
		writeError(w, r, "payment_mode must be Cash, Bank Transfer, Check or Credit", "BAD_REQUEST", http.StatusBadRequest)
		return status, mode, time.Time{}, false
	}
	date, err := parseDate(req.DisbursementDate)
	if err != nil {
		writeError(w, r, "disbursement_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
		return status, mode, date, false
	}
	return status, mode, date, true
}

// patchTerms validates the optional status, mode and date of a patch request.
func (req paymentPatch) patchTerms(w http.ResponseWriter, r *http.Request) (*core.PaymentStatus, *core.PaymentMode, *time.Time, bool) {
	var status *core.PaymentStatus
	if req.PaymentStatus != nil {
		s := core.PaymentStatus(*req.PaymentStatus)
		if !s.Valid() {
			writeError(w, r, "payment_status must be Paid, Pending, Partial, Failed or Missing", "BAD_REQUEST", http.StatusBadRequest)
			return nil, nil, nil, false
		}
		status = &s
	}
	var mode *core.PaymentMode
	if req.PaymentMode != nil {
		m := core.PaymentMode(*req.PaymentMode)
		if !m.Valid() {
			writeError(w, r, "payment_mode must be Cash, Bank Transfer, Check or Credit", "BAD_REQUEST", http.StatusBadRequest)
			return nil, nil, nil, false
		}
		mode = &m
	}
	var date *time.Time
	if req.DisbursementDate != nil {
		d, err := parseDate(*req.DisbursementDate)
		if err != nil {
			writeError(w, r, "disbursement_date must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return nil, nil, nil, false
		}
		date = &d
	}
	return status, mode, date, true
}

// ── Payments to suppliers ─────────────────────────────────────────────────────

func (h *Handler) createPaymentToSupplier(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExternalInvoiceID == 0 {
		writeError(w, r, "external_invoice_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	status, mode, date, ok := req.paymentTerms(w, r)
	if !ok {
		return
	}

	payment, err := h.svc.CreatePaymentToSupplier(r.Context(), core.PaymentToSupplierInput{
		ExternalInvoiceID: req.ExternalInvoiceID,
		PaymentStatus:     status,
		PaymentMode:       mode,
		Amount:            req.Amount,
		Remaining:         req.Remaining,
		DisbursementDate:  date,
		PaymentRef:        req.PaymentRef,
		AdditionalFees:    req.AdditionalFees,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) listPaymentsToSuppliers(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	payments, total, err := h.svc.GetPaymentsToSuppliers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(payments, total))
}

func (h *Handler) listPaymentsByExternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.GetPaymentsByExternalInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(payments, len(payments)))
}

func (h *Handler) getPaymentToSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	payment, err := h.svc.GetPaymentToSupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) updatePaymentToSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req paymentPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	status, mode, date, ok := req.patchTerms(w, r)
	if !ok {
		return
	}

	payment, err := h.svc.UpdatePaymentToSupplier(r.Context(), id, core.PaymentToSupplierUpdate{
		ExternalInvoiceID: req.ExternalInvoiceID,
		PaymentStatus:     status,
		PaymentMode:       mode,
		Amount:            req.Amount,
		Remaining:         req.Remaining,
		DisbursementDate:  date,
		PaymentRef:        req.PaymentRef,
		AdditionalFees:    req.AdditionalFees,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) deletePaymentToSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePaymentToSupplier(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Payment deleted successfully"})
}

// ── Payments from customers ───────────────────────────────────────────────────

func (h *Handler) createPaymentFromCustomer(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.InternalInvoiceID == 0 {
		writeError(w, r, "internal_invoice_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	status, mode, date, ok := req.paymentTerms(w, r)
	if !ok {
		return
	}

	payment, err := h.svc.CreatePaymentFromCustomer(r.Context(), core.PaymentFromCustomerInput{
		InternalInvoiceID: req.InternalInvoiceID,
		PaymentStatus:     status,
		PaymentMode:       mode,
		Amount:            req.Amount,
		Remaining:         req.Remaining,
		DisbursementDate:  date,
		PaymentRef:        req.PaymentRef,
		AdditionalFees:    req.AdditionalFees,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) listPaymentsFromCustomers(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	payments, total, err := h.svc.GetPaymentsFromCustomers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(payments, total))
}

func (h *Handler) listPaymentsByInternalInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	payments, err := h.svc.GetPaymentsByInternalInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(payments, len(payments)))
}

func (h *Handler) getPaymentFromCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	payment, err := h.svc.GetPaymentFromCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) updatePaymentFromCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req paymentPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	status, mode, date, ok := req.patchTerms(w, r)
	if !ok {
		return
	}

	payment, err := h.svc.UpdatePaymentFromCustomer(r.Context(), id, core.PaymentFromCustomerUpdate{
		InternalInvoiceID: req.InternalInvoiceID,
		PaymentStatus:     status,
		PaymentMode:       mode,
		Amount:            req.Amount,
		Remaining:         req.Remaining,
		DisbursementDate:  date,
		PaymentRef:        req.PaymentRef,
		AdditionalFees:    req.AdditionalFees,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, payment)
}

func (h *Handler) deletePaymentFromCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePaymentFromCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Payment deleted successfully"})
}
