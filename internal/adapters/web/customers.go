package web

import (
	"net/http"

	"github.com/mryoshq/Accounting-AI/internal/core"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.ICE == "" || req.PostalCode == "" {
		writeError(w, r, "name, ice and postal_code are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	c, err := h.svc.CreateCustomer(r.Context(), core.CustomerInput{
		Name:       req.Name,
		ICE:        req.ICE,
		PostalCode: req.PostalCode,
		RIB:        req.RIB,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	customers, total, err := h.svc.GetCustomers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(customers, total))
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req supplierPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCustomer(r.Context(), id, core.CustomerUpdate{
		Name:       req.Name,
		ICE:        req.ICE,
		PostalCode: req.PostalCode,
		RIB:        req.RIB,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Customer deleted successfully"})
}

// ── Customer contacts ─────────────────────────────────────────────────────────

func (h *Handler) createCustomerContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ContactName == "" || req.CustomerID == 0 {
		writeError(w, r, "contact_name and customer_id are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	c, err := h.svc.CreateCustomerContact(r.Context(), core.CustomerContactInput{
		CustomerID:  req.CustomerID,
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

func (h *Handler) listCustomerContacts(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	contacts, total, err := h.svc.GetCustomerContacts(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(contacts, total))
}

func (h *Handler) listCustomerContactsByCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	contacts, err := h.svc.GetContactsByCustomer(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, collection(contacts, len(contacts)))
}

func (h *Handler) getCustomerContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetCustomerContact(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, c)
}

func (h *Handler) updateCustomerContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req contactPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateCustomerContact(r.Context(), id, core.CustomerContactUpdate{
		CustomerID:  req.CustomerID,
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

func (h *Handler) deleteCustomerContact(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteCustomerContact(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Customer contact deleted successfully"})
}
