package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

type partRequest struct {
	ItemCode          string          `json:"item_code"`
	Description       string          `json:"description"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	ExternalInvoiceID int             `json:"external_invoice_id"`
	SupplierID        *int            `json:"supplier_id"`
	ProjectID         *int            `json:"project_id"`
}

type partPatch struct {
	ItemCode          *string          `json:"item_code"`
	Description       *string          `json:"description"`
	Quantity          *int             `json:"quantity"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	ExternalInvoiceID *int             `json:"external_invoice_id"`
	SupplierID        *int             `json:"supplier_id"`
	ProjectID         *int             `json:"project_id"`
}

func (h *Handler) createPart(w http.ResponseWriter, r *http.Request) {
	var req partRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ItemCode == "" || req.ExternalInvoiceID == 0 {
		writeError(w, r, "item_code and external_invoice_id are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	p, err := h.svc.CreatePart(r.Context(), core.PartInput{
		ItemCode:          req.ItemCode,
		Description:       req.Description,
		Quantity:          req.Quantity,
		UnitPrice:         req.UnitPrice,
		ExternalInvoiceID: req.ExternalInvoiceID,
		SupplierID:        req.SupplierID,
		ProjectID:         req.ProjectID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) listParts(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	parts, total, err := h.svc.GetParts(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(parts, total))
}

func (h *Handler) listPartsByInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	parts, err := h.svc.GetPartsByInvoice(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(parts, len(parts)))
}

func (h *Handler) getPart(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.GetPart(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) updatePart(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req partPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.svc.UpdatePart(r.Context(), id, core.PartUpdate{
		ItemCode:          req.ItemCode,
		Description:       req.Description,
		Quantity:          req.Quantity,
		UnitPrice:         req.UnitPrice,
		ExternalInvoiceID: req.ExternalInvoiceID,
		SupplierID:        req.SupplierID,
		ProjectID:         req.ProjectID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h *Handler) deletePart(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeletePart(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Part deleted successfully"})
}
