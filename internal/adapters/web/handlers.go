// Package web is the HTTP adapter: a chi router over the application
// service, speaking JSON with cookie-based JWT sessions.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mryoshq/Accounting-AI/internal/app"
)

// dateLayout is the wire format for all date fields.
const dateLayout = "2006-01-02"

// defaultPageLimit is applied when a list request omits the limit parameter.
const defaultPageLimit = 100

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
	logger    *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string, logger *zap.Logger) http.Handler {
	h := &Handler{svc: svc, jwtSecret: jwtSecret, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Document uploads: multipart, limit managed inside the handler.
		r.Post("/api/external-invoices/process", h.processExternalInvoices)
		r.Post("/api/internal-invoices/process", h.processInternalInvoices)

		// All other protected endpoints: 1 MB body limit.
		r.Group(func(r chi.Router) {
			r.Use(RequestBodyLimit(1 << 20))

			r.Get("/api/auth/me", h.me)

			r.Route("/api/suppliers", func(r chi.Router) {
				r.Post("/", h.createSupplier)
				r.Get("/", h.listSuppliers)
				r.Get("/{id}", h.getSupplier)
				r.Patch("/{id}", h.updateSupplier)
				r.Delete("/{id}", h.deleteSupplier)
				r.Get("/{id}/contacts", h.listSupplierContactsBySupplier)
				r.Get("/{id}/invoices", h.listInvoicesBySupplier)
			})
			r.Route("/api/supplier-contacts", func(r chi.Router) {
				r.Post("/", h.createSupplierContact)
				r.Get("/", h.listSupplierContacts)
				r.Get("/{id}", h.getSupplierContact)
				r.Patch("/{id}", h.updateSupplierContact)
				r.Delete("/{id}", h.deleteSupplierContact)
			})

			r.Route("/api/customers", func(r chi.Router) {
				r.Post("/", h.createCustomer)
				r.Get("/", h.listCustomers)
				r.Get("/{id}", h.getCustomer)
				r.Patch("/{id}", h.updateCustomer)
				r.Delete("/{id}", h.deleteCustomer)
				r.Get("/{id}/contacts", h.listCustomerContactsByCustomer)
				r.Get("/{id}/invoices", h.listInvoicesByCustomer)
			})
			r.Route("/api/customer-contacts", func(r chi.Router) {
				r.Post("/", h.createCustomerContact)
				r.Get("/", h.listCustomerContacts)
				r.Get("/{id}", h.getCustomerContact)
				r.Patch("/{id}", h.updateCustomerContact)
				r.Delete("/{id}", h.deleteCustomerContact)
			})

			r.Route("/api/projects", func(r chi.Router) {
				r.Post("/", h.createProject)
				r.Get("/", h.listProjects)
				r.Get("/{id}", h.getProject)
				r.Patch("/{id}", h.updateProject)
				r.Delete("/{id}", h.deleteProject)
			})

			r.Route("/api/parts", func(r chi.Router) {
				r.Post("/", h.createPart)
				r.Get("/", h.listParts)
				r.Get("/{id}", h.getPart)
				r.Patch("/{id}", h.updatePart)
				r.Delete("/{id}", h.deletePart)
			})

			r.Route("/api/external-invoices", func(r chi.Router) {
				r.Post("/", h.createExternalInvoice)
				r.Get("/", h.listExternalInvoices)
				r.Get("/{id}", h.getExternalInvoice)
				r.Patch("/{id}", h.updateExternalInvoice)
				r.Delete("/{id}", h.deleteExternalInvoice)
				r.Get("/{id}/parts", h.listPartsByInvoice)
				r.Get("/{id}/payments", h.listPaymentsByExternalInvoice)
			})

			r.Route("/api/internal-invoices", func(r chi.Router) {
				r.Post("/", h.createInternalInvoice)
				r.Get("/", h.listInternalInvoices)
				r.Get("/{id}", h.getInternalInvoice)
				r.Patch("/{id}", h.updateInternalInvoice)
				r.Delete("/{id}", h.deleteInternalInvoice)
				r.Get("/{id}/payments", h.listPaymentsByInternalInvoice)
			})

			r.Route("/api/payments-to-suppliers", func(r chi.Router) {
				r.Post("/", h.createPaymentToSupplier)
				r.Get("/", h.listPaymentsToSuppliers)
				r.Get("/{id}", h.getPaymentToSupplier)
				r.Patch("/{id}", h.updatePaymentToSupplier)
				r.Delete("/{id}", h.deletePaymentToSupplier)
			})
			r.Route("/api/payments-from-customers", func(r chi.Router) {
				r.Post("/", h.createPaymentFromCustomer)
				r.Get("/", h.listPaymentsFromCustomers)
				r.Get("/{id}", h.getPaymentFromCustomer)
				r.Patch("/{id}", h.updatePaymentFromCustomer)
				r.Delete("/{id}", h.deletePaymentFromCustomer)
			})

			r.Route("/api/users", func(r chi.Router) {
				r.Patch("/me", h.updateMe)
				r.Patch("/me/password", h.updateMyPassword)
				r.Put("/me/api-token", h.putAPIToken)
				r.Get("/me/api-token", h.getAPITokenPreview)

				r.Post("/", h.createUser)
				r.Get("/", h.listUsers)
				r.Get("/{id}", h.getUser)
				r.Patch("/{id}", h.updateUser)
				r.Delete("/{id}", h.deleteUser)
			})

			r.Post("/api/reports", h.generateReport)
		})
	})

	return r
}

// health handles GET /api/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// urlID parses the {id} route parameter, writing a 400 on failure.
func urlID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseDate parses a required YYYY-MM-DD field.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// pageParams reads the skip and limit query parameters of a list request,
// writing a 400 on a malformed value.
func pageParams(w http.ResponseWriter, r *http.Request) (skip, limit int, ok bool) {
	skip, ok = queryInt(w, r, "skip", 0)
	if !ok {
		return 0, 0, false
	}
	limit, ok = queryInt(w, r, "limit", defaultPageLimit)
	if !ok {
		return 0, 0, false
	}
	return skip, limit, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, r, name+" must be a non-negative integer", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
