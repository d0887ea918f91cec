package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"salepoint/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Organizations ─────────────────────────────────────────────────────────
	r.Get("/api/orgs", h.apiListOrgs)
	r.Post("/api/orgs", h.apiCreateOrg)

	r.Route("/api/orgs/{code}", func(r chi.Router) {
		r.Delete("/", h.apiPurgeOrg)

		// ── Orders & payments ─────────────────────────────────────────────────
		r.Get("/orders", h.apiListOrders)
		r.Post("/orders", h.apiCreateOrder)
		r.Get("/orders/{ref}", h.apiGetOrder)
		r.Delete("/orders/{ref}", h.apiDeleteOrder)
		r.Patch("/orders/{ref}/status", h.apiUpdateOrderStatus)
		r.Get("/orders/{ref}/payments", h.apiListPayments)
		r.Post("/orders/{ref}/payments", h.apiRecordPayment)
		r.Post("/orders/{ref}/paid", h.apiMarkOrderPaid)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/reports/daily-sales", h.apiDailySales)

		// ── Catalog & master data ─────────────────────────────────────────────
		r.Get("/products", h.apiListProducts)
		r.Post("/products", h.apiCreateProduct)
		r.Delete("/products/{sku}", h.apiDeactivateProduct)
		r.Get("/customers", h.apiListCustomers)
		r.Post("/customers", h.apiCreateCustomer)
		r.Get("/tables", h.apiListTables)
		r.Post("/tables", h.apiCreateTable)
		r.Post("/tables/{id}/occupy", h.apiOccupyTable)
		r.Post("/tables/{id}/release", h.apiReleaseTable)
		r.Get("/suppliers", h.apiListSuppliers)
		r.Post("/suppliers", h.apiCreateSupplier)

		// ── Purchasing & stock ────────────────────────────────────────────────
		r.Get("/purchase-orders", h.apiListPurchaseOrders)
		r.Post("/purchase-orders", h.apiCreatePurchaseOrder)
		r.Get("/purchase-orders/{id}", h.apiGetPurchaseOrder)
		r.Post("/purchase-orders/{id}/ordered", h.apiOrderPurchaseOrder)
		r.Post("/purchase-orders/{id}/receive", h.apiReceivePurchaseOrder)
		r.Post("/purchase-orders/{id}/cancel", h.apiCancelPurchaseOrder)
		r.Get("/stock", h.apiStockLevels)
		r.Get("/stock/movements", h.apiStockMovements)
		r.Post("/stock/adjustments", h.apiStockAdjustment)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// orgCode extracts the {code} URL parameter.
func orgCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the size limit set by RequestBodyLimit middleware; HTTP 400 for all
// other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
