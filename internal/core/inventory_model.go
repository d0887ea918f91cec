package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies a stock movement.
type MovementKind string

const (
	MovementPurchase   MovementKind = "purchase"
	MovementSale       MovementKind = "sale"
	MovementAdjustment MovementKind = "adjustment"
)

// StockMovement is one signed quantity delta against a product. Purchases
// are positive, sales negative; adjustments carry either sign. Movements
// are append-only; stock on hand is the sum of a product's movements.
type StockMovement struct {
	ID        int             `json:"id"`
	OrgID     int             `json:"org_id"`
	ProductID int             `json:"product_id"`
	Kind      MovementKind    `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"` // e.g. order/PO number or adjustment note
	CreatedAt time.Time       `json:"created_at"`
}

// StockLevel is a read view: current on-hand quantity per product.
type StockLevel struct {
	ProductID int             `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	OnHand    decimal.Decimal `json:"on_hand"`
}
