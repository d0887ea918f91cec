package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the lifecycle states of a sales order.
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusOnHold    OrderStatus = "on_hold"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// ItemKind distinguishes physical products from services on an order line.
// Service lines never touch stock.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindService ItemKind = "service"
)

// Order represents one sale transaction, scoped to an organization.
// Status progresses through the state machine:
//
//	open ⇄ on_hold ⇄ preparing → completed
//	open / on_hold / preparing → cancelled
//
// completed and cancelled are terminal. Transition to completed requires
// the order to be fully paid (see IsFullyPaid).
type Order struct {
	ID          int         `json:"id"`
	OrgID       int         `json:"org_id"`
	OrderNumber string      `json:"order_number"`
	Status      OrderStatus `json:"status"`
	// Paid is a one-way persisted flag: once true it is trusted over any
	// recomputation from the payment list, so late or corrected payment
	// records cannot un-pay an order.
	Paid         bool            `json:"paid"`
	OrderType    string          `json:"order_type"` // free-text label, e.g. "dine-in", "delivery"
	CustomerID   *int            `json:"customer_id,omitempty"`
	TableID      *int            `json:"table_id,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Total        decimal.Decimal `json:"total"`
	BusinessDate *string         `json:"business_date,omitempty"` // YYYY-MM-DD, overrides created_at for reporting
	Notes        string          `json:"notes"`
	CreatedBy    string          `json:"created_by"`
	Items        []OrderItem     `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderItem represents one line on an order.
// Invariant: Total = Quantity × UnitPrice (enforced at creation).
type OrderItem struct {
	ID         int             `json:"id"`
	OrderID    int             `json:"order_id"`
	LineNumber int             `json:"line_number"`
	ProductID  *int            `json:"product_id,omitempty"`
	Kind       ItemKind        `json:"kind"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total"`
}

// OrderPayment represents one payment applied toward an order.
// Payments are insert-only: never updated after creation. They are removed
// only when the owning order is deleted or the organization is purged.
type OrderPayment struct {
	ID          int             `json:"id"`
	OrgID       int             `json:"org_id"`
	OrderID     int             `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`       // free-text label matched against configured payment types
	PaymentDate string          `json:"payment_date"` // YYYY-MM-DD
	Reference   string          `json:"reference"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItemInput is used when creating a new order.
// If UnitPrice is zero and ProductID is set, the product default price is used.
type OrderItemInput struct {
	ProductID *int
	Kind      ItemKind
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// PaymentInput holds the fields required to record a payment.
type PaymentInput struct {
	Amount      decimal.Decimal
	Method      string
	PaymentDate string // YYYY-MM-DD; empty means today
	Reference   string // empty means a generated reference
	Notes       string
}
