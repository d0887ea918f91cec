package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Organization is the tenant boundary. Every other entity belongs to
// exactly one organization; there is no cross-tenant sharing.
type Organization struct {
	ID             int             `json:"id"`
	OrgCode        string          `json:"org_code"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Product represents a sellable item or service in the organization catalog.
type Product struct {
	ID        int             `json:"id"`
	OrgID     int             `json:"org_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Kind      ItemKind        `json:"kind"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// Customer represents a customer master record, scoped to an organization.
type Customer struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// DiningTable represents a physical table. Occupancy is keyed on the table
// ID and managed by TableService — releasing a table is a separate code path
// from order status reconciliation.
type DiningTable struct {
	ID             int       `json:"id"`
	OrgID          int       `json:"org_id"`
	Label          string    `json:"label"`
	Occupied       bool      `json:"occupied"`
	CurrentOrderID *int      `json:"current_order_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Supplier represents a purchasing counterparty.
type Supplier struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
