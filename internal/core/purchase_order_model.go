package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus enumerates the purchase order lifecycle:
// draft → ordered → received, with cancellation from draft only.
type POStatus string

const (
	POStatusDraft     POStatus = "draft"
	POStatusOrdered   POStatus = "ordered"
	POStatusReceived  POStatus = "received"
	POStatusCancelled POStatus = "cancelled"
)

// PurchaseOrder represents a purchase order header.
type PurchaseOrder struct {
	ID           int             `json:"id"`
	OrgID        int             `json:"org_id"`
	SupplierID   int             `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"` // joined from suppliers
	PONumber     string          `json:"po_number"`
	Status       POStatus        `json:"status"`
	OrderDate    string          `json:"order_date"` // YYYY-MM-DD
	Total        decimal.Decimal `json:"total"`
	Notes        string          `json:"notes"`
	Lines        []PurchaseOrderLine `json:"lines"`
	OrderedAt    *time.Time      `json:"ordered_at,omitempty"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PurchaseOrderLine is one product line on a purchase order.
// Invariant: LineTotal = Quantity × UnitCost.
type PurchaseOrderLine struct {
	ID          int             `json:"id"`
	POID        int             `json:"po_id"`
	LineNumber  int             `json:"line_number"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"` // joined from products
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// POLineInput holds the fields required to create a purchase order line.
type POLineInput struct {
	ProductID int
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}
