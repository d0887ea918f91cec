package web

import (
	"fmt"
	"net/http"
	"strconv"

	"salepoint/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// poID extracts the numeric {id} URL parameter.
func poID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid purchase order id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// apiListPurchaseOrders handles GET /api/orgs/{code}/purchase-orders.
func (h *Handler) apiListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")
	var statusPtr *string
	if statusFilter != "" {
		statusPtr = &statusFilter
	}
	result, err := h.svc.ListPurchaseOrders(r.Context(), orgCode(r), statusPtr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetPurchaseOrder handles GET /api/orgs/{code}/purchase-orders/{id}.
func (h *Handler) apiGetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := poID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}

// apiCreatePurchaseOrder handles POST /api/orgs/{code}/purchase-orders.
// Body: { supplier_id, order_date?, notes?, lines: [{product_id, quantity, unit_cost}] }
func (h *Handler) apiCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SupplierID int    `json:"supplier_id"`
		OrderDate  string `json:"order_date"`
		Notes      string `json:"notes"`
		Lines      []struct {
			ProductID int    `json:"product_id"`
			Quantity  string `json:"quantity"`
			UnitCost  string `json:"unit_cost"`
		} `json:"lines"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.SupplierID == 0 {
		writeError(w, r, "supplier_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(body.Lines) == 0 {
		writeError(w, r, "at least one line is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	req := app.CreatePurchaseOrderRequest{
		OrgCode:    orgCode(r),
		SupplierID: body.SupplierID,
		OrderDate:  body.OrderDate,
		Notes:      body.Notes,
	}
	for i, l := range body.Lines {
		qty, err := decimal.NewFromString(l.Quantity)
		if err != nil || qty.IsZero() {
			writeError(w, r, fmt.Sprintf("line %d: invalid quantity", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		cost, err := decimal.NewFromString(l.UnitCost)
		if err != nil {
			writeError(w, r, fmt.Sprintf("line %d: invalid unit_cost", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.Lines = append(req.Lines, app.POLineInput{
			ProductID: l.ProductID,
			Quantity:  qty,
			UnitCost:  cost,
		})
	}

	po, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, po)
}

// apiOrderPurchaseOrder handles POST /api/orgs/{code}/purchase-orders/{id}/ordered.
func (h *Handler) apiOrderPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := poID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.OrderPurchaseOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}

// apiReceivePurchaseOrder handles POST /api/orgs/{code}/purchase-orders/{id}/receive.
func (h *Handler) apiReceivePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := poID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.ReceivePurchaseOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}

// apiCancelPurchaseOrder handles POST /api/orgs/{code}/purchase-orders/{id}/cancel.
func (h *Handler) apiCancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := poID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.CancelPurchaseOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, po)
}

// apiStockLevels handles GET /api/orgs/{code}/stock.
func (h *Handler) apiStockLevels(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetStockLevels(r.Context(), orgCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Levels)
}

// apiStockMovements handles GET /api/orgs/{code}/stock/movements.
// Query param: product_id (optional).
func (h *Handler) apiStockMovements(w http.ResponseWriter, r *http.Request) {
	var productID *int
	if pid := r.URL.Query().Get("product_id"); pid != "" {
		id, err := strconv.Atoi(pid)
		if err != nil {
			writeError(w, r, "invalid product_id", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		productID = &id
	}
	movements, err := h.svc.ListStockMovements(r.Context(), orgCode(r), productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, movements)
}

// apiStockAdjustment handles POST /api/orgs/{code}/stock/adjustments.
// Body: { product_id, quantity, reference? }. Quantity is signed.
func (h *Handler) apiStockAdjustment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID int    `json:"product_id"`
		Quantity  string `json:"quantity"`
		Reference string `json:"reference"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.ProductID == 0 {
		writeError(w, r, "product_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	qty, err := decimal.NewFromString(body.Quantity)
	if err != nil || qty.IsZero() {
		writeError(w, r, "quantity must be a non-zero number", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	movement, err := h.svc.RecordStockAdjustment(r.Context(), app.StockAdjustmentRequest{
		OrgCode:   orgCode(r),
		ProductID: body.ProductID,
		Quantity:  qty,
		Reference: body.Reference,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, movement)
}
