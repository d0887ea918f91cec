package app

import (
	"context"
	"time"

	"salepoint/internal/core"
)

// ApplicationService is the single interface all adapters (Web, CLI) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ListOrders returns orders for an organization, optionally filtered by status.
	ListOrders(ctx context.Context, orgCode string, status *string) (*OrderListResult, error)

	// GetOrder returns a single order by numeric ID or order number string.
	GetOrder(ctx context.Context, orgCode, ref string) (*OrderResult, error)

	// CreateOrder creates a new open order with server-computed totals.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)

	// UpdateOrderStatus moves an order through its lifecycle. Completing an
	// order requires full payment and deducts stock for product lines.
	UpdateOrderStatus(ctx context.Context, orgCode, ref, status string) (*OrderResult, error)

	// DeleteOrder removes an order together with its items and payments.
	DeleteOrder(ctx context.Context, orgCode, ref string) error

	// RecordPayment appends a payment and returns the updated settlement
	// position. It never changes the order's paid flag or status.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error)

	// ListPayments returns the payments recorded against an order, oldest first.
	ListPayments(ctx context.Context, orgCode, ref string) (*PaymentListResult, error)

	// MarkOrderPaid sets the authoritative paid flag on an order.
	MarkOrderPaid(ctx context.Context, orgCode, ref string) (*OrderResult, error)

	// GetDailySales returns the aggregated sales report for one calendar day.
	GetDailySales(ctx context.Context, req DailySalesRequest) (*core.SalesReport, error)

	// ListProducts returns all active products for an organization.
	ListProducts(ctx context.Context, orgCode string) (*ProductListResult, error)

	// CreateProduct registers a new product or service in the catalog.
	CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error)

	// DeactivateProduct soft-deletes a product by SKU.
	DeactivateProduct(ctx context.Context, orgCode, sku string) error

	// ListCustomers returns all customers for an organization.
	ListCustomers(ctx context.Context, orgCode string) (*CustomerListResult, error)

	// CreateCustomer creates a customer master record.
	CreateCustomer(ctx context.Context, orgCode string, input core.CustomerInput) (*core.Customer, error)

	// ListTables returns the dining tables of an organization.
	ListTables(ctx context.Context, orgCode string) (*TableListResult, error)

	// CreateTable registers a dining table.
	CreateTable(ctx context.Context, orgCode, label string) (*core.DiningTable, error)

	// OccupyTable seats an order at a free table.
	OccupyTable(ctx context.Context, tableID, orderID int) (*core.DiningTable, error)

	// ReleaseTable frees a table. Releasing a free table is a no-op.
	ReleaseTable(ctx context.Context, tableID int) (*core.DiningTable, error)

	// ListSuppliers returns all suppliers for an organization.
	ListSuppliers(ctx context.Context, orgCode string) (*SupplierListResult, error)

	// CreateSupplier creates a supplier master record.
	CreateSupplier(ctx context.Context, orgCode string, input core.SupplierInput) (*core.Supplier, error)

	// ListPurchaseOrders returns purchase orders, optionally filtered by status.
	ListPurchaseOrders(ctx context.Context, orgCode string, status *string) (*PurchaseOrderListResult, error)

	// GetPurchaseOrder returns a single purchase order by ID.
	GetPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error)

	// CreatePurchaseOrder creates a draft purchase order.
	CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error)

	// OrderPurchaseOrder transitions a draft PO to ordered.
	OrderPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error)

	// ReceivePurchaseOrder transitions an ordered PO to received and books
	// the incoming stock.
	ReceivePurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error)

	// CancelPurchaseOrder cancels a draft PO.
	CancelPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error)

	// GetStockLevels returns on-hand quantities for all active products.
	GetStockLevels(ctx context.Context, orgCode string) (*StockResult, error)

	// ListStockMovements returns the movement history, newest first,
	// optionally filtered to one product.
	ListStockMovements(ctx context.Context, orgCode string, productID *int) ([]core.StockMovement, error)

	// RecordStockAdjustment books a signed manual stock correction.
	RecordStockAdjustment(ctx context.Context, req StockAdjustmentRequest) (*core.StockMovement, error)

	// ListOrganizations returns all organizations.
	ListOrganizations(ctx context.Context) (*OrgListResult, error)

	// CreateOrganization registers a new tenant.
	CreateOrganization(ctx context.Context, req CreateOrgRequest) (*core.Organization, error)

	// PurgeOrganization irreversibly deletes an organization and every row
	// that belongs to it. All-or-nothing: a failure removes no data at all.
	PurgeOrganization(ctx context.Context, orgCode string) error
}

// DailySalesRequest selects the day, time zone, and report options for
// GetDailySales. Zero values fall back to today, server-local time, and the
// default report options.
type DailySalesRequest struct {
	OrgCode  string
	Day      time.Time
	Location *time.Location
	Options  core.ReportOptions
}
