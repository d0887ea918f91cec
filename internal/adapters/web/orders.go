package web

import (
	"fmt"
	"net/http"

	"salepoint/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// apiListOrders handles GET /api/orgs/{code}/orders.
func (h *Handler) apiListOrders(w http.ResponseWriter, r *http.Request) {
	code := orgCode(r)
	statusFilter := r.URL.Query().Get("status")
	var statusPtr *string
	if statusFilter != "" {
		statusPtr = &statusFilter
	}
	result, err := h.svc.ListOrders(r.Context(), code, statusPtr)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// apiGetOrder handles GET /api/orgs/{code}/orders/{ref}.
func (h *Handler) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetOrder(r.Context(), orgCode(r), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// apiCreateOrder handles POST /api/orgs/{code}/orders.
// Body: { order_type, customer_id?, table_id?, tax_rate?, business_date?,
// notes?, created_by?, items: [{product_id?, name?, kind?, quantity, unit_price?}] }
func (h *Handler) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderType    string `json:"order_type"`
		CustomerID   *int   `json:"customer_id"`
		TableID      *int   `json:"table_id"`
		TaxRate      string `json:"tax_rate"`
		BusinessDate string `json:"business_date"`
		Notes        string `json:"notes"`
		CreatedBy    string `json:"created_by"`
		Items        []struct {
			ProductID *int   `json:"product_id"`
			Name      string `json:"name"`
			Kind      string `json:"kind"`
			Quantity  string `json:"quantity"`
			UnitPrice string `json:"unit_price"`
		} `json:"items"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if len(body.Items) == 0 {
		writeError(w, r, "at least one item is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	req := app.CreateOrderRequest{
		OrgCode:      orgCode(r),
		OrderType:    body.OrderType,
		CustomerID:   body.CustomerID,
		TableID:      body.TableID,
		BusinessDate: body.BusinessDate,
		Notes:        body.Notes,
		CreatedBy:    body.CreatedBy,
	}
	if body.TaxRate != "" {
		rate, err := decimal.NewFromString(body.TaxRate)
		if err != nil {
			writeError(w, r, "invalid tax_rate", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		req.TaxRate = &rate
	}
	for i, item := range body.Items {
		qty, err := decimal.NewFromString(item.Quantity)
		if err != nil || qty.IsZero() {
			writeError(w, r, fmt.Sprintf("item %d: invalid quantity", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		input := app.OrderItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Kind:      item.Kind,
			Quantity:  qty,
		}
		if item.UnitPrice != "" {
			price, err := decimal.NewFromString(item.UnitPrice)
			if err != nil {
				writeError(w, r, fmt.Sprintf("item %d: invalid unit_price", i+1), "BAD_REQUEST", http.StatusBadRequest)
				return
			}
			input.UnitPrice = &price
		}
		req.Items = append(req.Items, input)
	}

	result, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// apiUpdateOrderStatus handles PATCH /api/orgs/{code}/orders/{ref}/status.
// Body: { status }.
func (h *Handler) apiUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Status == "" {
		writeError(w, r, "status is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.UpdateOrderStatus(r.Context(), orgCode(r), chi.URLParam(r, "ref"), body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// apiDeleteOrder handles DELETE /api/orgs/{code}/orders/{ref}.
func (h *Handler) apiDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), orgCode(r), chi.URLParam(r, "ref")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apiListPayments handles GET /api/orgs/{code}/orders/{ref}/payments.
func (h *Handler) apiListPayments(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPayments(r.Context(), orgCode(r), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiRecordPayment handles POST /api/orgs/{code}/orders/{ref}/payments.
// Body: { amount, method, payment_date?, reference?, notes? }.
func (h *Handler) apiRecordPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      string `json:"amount"`
		Method      string `json:"method"`
		PaymentDate string `json:"payment_date"`
		Reference   string `json:"reference"`
		Notes       string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		writeError(w, r, "invalid amount", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordPayment(r.Context(), app.RecordPaymentRequest{
		OrgCode:     orgCode(r),
		OrderRef:    chi.URLParam(r, "ref"),
		Amount:      amount,
		Method:      body.Method,
		PaymentDate: body.PaymentDate,
		Reference:   body.Reference,
		Notes:       body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// apiMarkOrderPaid handles POST /api/orgs/{code}/orders/{ref}/paid.
func (h *Handler) apiMarkOrderPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.MarkOrderPaid(r.Context(), orgCode(r), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}
