package app

import "salepoint/internal/core"

// OrderResult is returned by order lifecycle operations.
type OrderResult struct {
	Order *core.Order
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders  []core.Order
	OrgCode string
}

// PaymentResult is returned by RecordPayment: the stored payment plus the
// order's settlement position after it.
type PaymentResult struct {
	Payment *core.OrderPayment
	Summary core.PaymentSummary
}

// PaymentListResult is returned by ListPayments.
type PaymentListResult struct {
	Payments []core.OrderPayment
	Summary  core.PaymentSummary
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// CustomerListResult is returned by ListCustomers.
type CustomerListResult struct {
	Customers []core.Customer
}

// TableListResult is returned by ListTables.
type TableListResult struct {
	Tables []core.DiningTable
}

// SupplierListResult is returned by ListSuppliers.
type SupplierListResult struct {
	Suppliers []core.Supplier
}

// PurchaseOrderListResult is returned by ListPurchaseOrders.
type PurchaseOrderListResult struct {
	Orders  []core.PurchaseOrder
	OrgCode string
}

// StockResult is returned by GetStockLevels.
type StockResult struct {
	Levels  []core.StockLevel
	OrgCode string
}

// OrgListResult is returned by ListOrganizations.
type OrgListResult struct {
	Organizations []core.Organization
}
