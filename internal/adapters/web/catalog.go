package web

import (
	"net/http"
	"strconv"

	"salepoint/internal/app"
	"salepoint/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// apiListProducts handles GET /api/orgs/{code}/products.
func (h *Handler) apiListProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context(), orgCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// apiCreateProduct handles POST /api/orgs/{code}/products.
// Body: { sku, name, kind, unit_price }.
func (h *Handler) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SKU       string `json:"sku"`
		Name      string `json:"name"`
		Kind      string `json:"kind"`
		UnitPrice string `json:"unit_price"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.SKU == "" || body.Name == "" {
		writeError(w, r, "sku and name are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	price, err := decimal.NewFromString(body.UnitPrice)
	if err != nil {
		writeError(w, r, "invalid unit_price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), app.CreateProductRequest{
		OrgCode:   orgCode(r),
		SKU:       body.SKU,
		Name:      body.Name,
		Kind:      body.Kind,
		UnitPrice: price,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, product)
}

// apiDeactivateProduct handles DELETE /api/orgs/{code}/products/{sku}.
func (h *Handler) apiDeactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeactivateProduct(r.Context(), orgCode(r), chi.URLParam(r, "sku")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiListCustomers handles GET /api/orgs/{code}/customers.
func (h *Handler) apiListCustomers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCustomers(r.Context(), orgCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Customers)
}

// apiCreateCustomer handles POST /api/orgs/{code}/customers.
func (h *Handler) apiCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	customer, err := h.svc.CreateCustomer(r.Context(), orgCode(r), core.CustomerInput{
		Name:    body.Name,
		Email:   body.Email,
		Phone:   body.Phone,
		Address: body.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, customer)
}

// apiListTables handles GET /api/orgs/{code}/tables.
func (h *Handler) apiListTables(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListTables(r.Context(), orgCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Tables)
}

// apiCreateTable handles POST /api/orgs/{code}/tables. Body: { label }.
func (h *Handler) apiCreateTable(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label string `json:"label"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Label == "" {
		writeError(w, r, "label is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	table, err := h.svc.CreateTable(r.Context(), orgCode(r), body.Label)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, table)
}

// tableID extracts the numeric {id} URL parameter.
func tableID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid table id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiOccupyTable handles POST /api/orgs/{code}/tables/{id}/occupy.
// Body: { order_id }.
func (h *Handler) apiOccupyTable(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	var body struct {
		OrderID int `json:"order_id"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.OrderID == 0 {
		writeError(w, r, "order_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	table, err := h.svc.OccupyTable(r.Context(), id, body.OrderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, table)
}

// apiReleaseTable handles POST /api/orgs/{code}/tables/{id}/release.
func (h *Handler) apiReleaseTable(w http.ResponseWriter, r *http.Request) {
	id, ok := tableID(w, r)
	if !ok {
		return
	}
	table, err := h.svc.ReleaseTable(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, table)
}

// apiListSuppliers handles GET /api/orgs/{code}/suppliers.
func (h *Handler) apiListSuppliers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSuppliers(r.Context(), orgCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Suppliers)
}

// apiCreateSupplier handles POST /api/orgs/{code}/suppliers.
func (h *Handler) apiCreateSupplier(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	supplier, err := h.svc.CreateSupplier(r.Context(), orgCode(r), core.SupplierInput{
		Name:    body.Name,
		Contact: body.Contact,
		Email:   body.Email,
		Phone:   body.Phone,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, supplier)
}
