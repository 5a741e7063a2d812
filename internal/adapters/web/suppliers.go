package web

import (
	"net/http"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

type supplierRequest struct {
	Name       string `json:"name"`
	ICE        string `json:"ice"`
	PostalCode string `json:"postal_code"`
	RIB        string `json:"rib"`
}

type supplierPatch struct {
	Name       *string `json:"name"`
	ICE        *string `json:"ice"`
	PostalCode *string `json:"postal_code"`
	RIB        *string `json:"rib"`
}

type contactRequest struct {
	SupplierID  int    `json:"supplier_id"`
	CustomerID  int    `json:"customer_id"`
	ContactName string `json:"contact_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	BankDetails string `json:"bank_details"`
}

type contactPatch struct {
	SupplierID  *int    `json:"supplier_id"`
	CustomerID  *int    `json:"customer_id"`
	ContactName *string `json:"contact_name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	BankDetails *string `json:"bank_details"`
}

// listResponse is the standard collection envelope. Count is the total
// number of matching rows, not the size of the returned page.
type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func collection[T any](items []T, total int) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items, Count: total}
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.ICE == "" {
		writeError(w, r, "name and ice are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	s, err := h.svc.CreateSupplier(r.Context(), core.SupplierInput{
		Name:       req.Name,
		ICE:        req.ICE,
		PostalCode: req.PostalCode,
		RIB:        req.RIB,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	suppliers, total, err := h.svc.GetSuppliers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(suppliers, total))
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	s, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req supplierPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	s, err := h.svc.UpdateSupplier(r.Context(), id, core.SupplierUpdate{
		Name:       req.Name,
		ICE:        req.ICE,
		PostalCode: req.PostalCode,
		RIB:        req.RIB,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplier(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Supplier deleted successfully"})
}

// ── Supplier contacts ─────────────────────────────────────────────────────────

func (h *Handler) createSupplierContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ContactName == "" || req.SupplierID == 0 {
		writeError(w, r, "contact_name and supplier_id are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	c, err := h.svc.CreateSupplierContact(r.Context(), core.SupplierContactInput{
		SupplierID:  req.SupplierID,
		ContactName: req.ContactName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		BankDetails: req.BankDetails,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) listSupplierContacts(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	contacts, total, err := h.svc.GetSupplierContacts(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(contacts, total))
}

func (h *Handler) listSupplierContactsBySupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	contacts, err := h.svc.GetContactsBySupplier(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(contacts, len(contacts)))
}

func (h *Handler) getSupplierContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetSupplierContact(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) updateSupplierContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req contactPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateSupplierContact(r.Context(), id, core.SupplierContactUpdate{
		SupplierID:  req.SupplierID,
		ContactName: req.ContactName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		BankDetails: req.BankDetails,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) deleteSupplierContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSupplierContact(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Supplier contact deleted successfully"})
}
