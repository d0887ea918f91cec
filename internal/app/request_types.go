package app

import (
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the input for creating a new order.
type CreateOrderRequest struct {
	OrgCode      string
	OrderType    string
	CustomerID   *int
	TableID      *int
	TaxRate      *decimal.Decimal // nil means "use the org default"
	BusinessDate string           // YYYY-MM-DD, optional
	Notes        string
	CreatedBy    string
	Items        []OrderItemInput
}

// OrderItemInput is a single line within a CreateOrderRequest. Either
// ProductID references a catalog product, or Name/Kind/UnitPrice describe an
// ad-hoc line.
type OrderItemInput struct {
	ProductID *int
	Name      string
	Kind      string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal // nil means "use product default"
}

// RecordPaymentRequest is the input for appending a payment to an order.
type RecordPaymentRequest struct {
	OrgCode     string
	OrderRef    string // numeric ID or order number
	Amount      decimal.Decimal
	Method      string
	PaymentDate string // YYYY-MM-DD, optional
	Reference   string // optional; generated when empty
	Notes       string
}

// CreateProductRequest is the input for registering a catalog item.
type CreateProductRequest struct {
	OrgCode   string
	SKU       string
	Name      string
	Kind      string // "product" or "service"
	UnitPrice decimal.Decimal
}

// CreatePurchaseOrderRequest is the input for creating a draft purchase order.
type CreatePurchaseOrderRequest struct {
	OrgCode    string
	SupplierID int
	OrderDate  string // YYYY-MM-DD, optional
	Notes      string
	Lines      []POLineInput
}

// POLineInput is a single line within a CreatePurchaseOrderRequest.
type POLineInput struct {
	ProductID int
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// StockAdjustmentRequest is the input for a manual stock correction.
type StockAdjustmentRequest struct {
	OrgCode   string
	ProductID int
	Quantity  decimal.Decimal // signed; positive adds, negative removes
	Reference string
}

// CreateOrgRequest is the input for registering a new tenant.
type CreateOrgRequest struct {
	OrgCode        string
	Name           string
	Currency       string // defaults to USD
	DefaultTaxRate decimal.Decimal
}
