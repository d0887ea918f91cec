package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"salepoint/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type appService struct {
	pool      *pgxpool.Pool
	orders    core.OrderService
	reports   core.ReportService
	catalog   core.CatalogService
	customers core.CustomerService
	tables    core.TableService
	suppliers core.SupplierService
	purchases core.PurchaseOrderService
	inventory core.InventoryService
	orgs      core.OrgService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	pool *pgxpool.Pool,
	orders core.OrderService,
	reports core.ReportService,
	catalog core.CatalogService,
	customers core.CustomerService,
	tables core.TableService,
	suppliers core.SupplierService,
	purchases core.PurchaseOrderService,
	inventory core.InventoryService,
	orgs core.OrgService,
) ApplicationService {
	return &appService{
		pool:      pool,
		orders:    orders,
		reports:   reports,
		catalog:   catalog,
		customers: customers,
		tables:    tables,
		suppliers: suppliers,
		purchases: purchases,
		inventory: inventory,
		orgs:      orgs,
	}
}

// resolveOrder accepts either a numeric order ID or an order number string
// like "ORD-000042".
func (s *appService) resolveOrder(ctx context.Context, orgCode, ref string) (*core.Order, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return s.orders.GetOrder(ctx, id)
	}
	return s.orders.GetOrderByNumber(ctx, orgCode, ref)
}

func (s *appService) ListOrders(ctx context.Context, orgCode string, status *string) (*OrderListResult, error) {
	var st *core.OrderStatus
	if status != nil && *status != "" {
		parsed := core.OrderStatus(*status)
		if !core.ValidStatus(parsed) {
			return nil, fmt.Errorf("unknown order status %q", *status)
		}
		st = &parsed
	}
	orders, err := s.orders.GetOrders(ctx, orgCode, st)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders, OrgCode: orgCode}, nil
}

func (s *appService) GetOrder(ctx context.Context, orgCode, ref string) (*OrderResult, error) {
	order, err := s.resolveOrder(ctx, orgCode, ref)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	input := core.CreateOrderInput{
		OrderType:  req.OrderType,
		CustomerID: req.CustomerID,
		TableID:    req.TableID,
		TaxRate:    req.TaxRate,
		Notes:      req.Notes,
		CreatedBy:  req.CreatedBy,
	}
	if req.BusinessDate != "" {
		input.BusinessDate = &req.BusinessDate
	}
	for _, item := range req.Items {
		price := decimal.Zero
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		input.Items = append(input.Items, core.OrderItemInput{
			ProductID: item.ProductID,
			Kind:      core.ItemKind(item.Kind),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	order, err := s.orders.CreateOrder(ctx, req.OrgCode, input)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) UpdateOrderStatus(ctx context.Context, orgCode, ref, status string) (*OrderResult, error) {
	order, err := s.resolveOrder(ctx, orgCode, ref)
	if err != nil {
		return nil, err
	}
	updated, err := s.orders.UpdateStatus(ctx, order.ID, core.OrderStatus(status), s.inventory)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: updated}, nil
}

func (s *appService) DeleteOrder(ctx context.Context, orgCode, ref string) error {
	order, err := s.resolveOrder(ctx, orgCode, ref)
	if err != nil {
		return err
	}
	return s.orders.DeleteOrder(ctx, order.ID)
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	order, err := s.resolveOrder(ctx, req.OrgCode, req.OrderRef)
	if err != nil {
		return nil, err
	}
	payment, summary, err := s.orders.RecordPayment(ctx, order.ID, core.PaymentInput{
		Amount:      req.Amount,
		Method:      req.Method,
		PaymentDate: req.PaymentDate,
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: payment, Summary: summary}, nil
}

func (s *appService) ListPayments(ctx context.Context, orgCode, ref string) (*PaymentListResult, error) {
	order, err := s.resolveOrder(ctx, orgCode, ref)
	if err != nil {
		return nil, err
	}
	payments, err := s.orders.GetPayments(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{
		Payments: payments,
		Summary:  core.SummarizePayments(order.Total, payments),
	}, nil
}

func (s *appService) MarkOrderPaid(ctx context.Context, orgCode, ref string) (*OrderResult, error) {
	order, err := s.resolveOrder(ctx, orgCode, ref)
	if err != nil {
		return nil, err
	}
	updated, err := s.orders.MarkAsPaid(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: updated}, nil
}

func (s *appService) GetDailySales(ctx context.Context, req DailySalesRequest) (*core.SalesReport, error) {
	day := req.Day
	if day.IsZero() {
		day = time.Now()
	}
	return s.reports.DailySales(ctx, req.OrgCode, day, req.Location, req.Options)
}

func (s *appService) ListProducts(ctx context.Context, orgCode string) (*ProductListResult, error) {
	products, err := s.catalog.GetProducts(ctx, orgCode)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*core.Product, error) {
	return s.catalog.CreateProduct(ctx, req.OrgCode, req.SKU, req.Name, core.ItemKind(req.Kind), req.UnitPrice)
}

func (s *appService) DeactivateProduct(ctx context.Context, orgCode, sku string) error {
	return s.catalog.DeactivateProduct(ctx, orgCode, sku)
}

func (s *appService) ListCustomers(ctx context.Context, orgCode string) (*CustomerListResult, error) {
	customers, err := s.customers.GetCustomers(ctx, orgCode)
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) CreateCustomer(ctx context.Context, orgCode string, input core.CustomerInput) (*core.Customer, error) {
	return s.customers.CreateCustomer(ctx, orgCode, input)
}

func (s *appService) ListTables(ctx context.Context, orgCode string) (*TableListResult, error) {
	tables, err := s.tables.GetTables(ctx, orgCode)
	if err != nil {
		return nil, err
	}
	return &TableListResult{Tables: tables}, nil
}

func (s *appService) CreateTable(ctx context.Context, orgCode, label string) (*core.DiningTable, error) {
	return s.tables.CreateTable(ctx, orgCode, label)
}

func (s *appService) OccupyTable(ctx context.Context, tableID, orderID int) (*core.DiningTable, error) {
	return s.tables.Occupy(ctx, tableID, orderID)
}

func (s *appService) ReleaseTable(ctx context.Context, tableID int) (*core.DiningTable, error) {
	return s.tables.Release(ctx, tableID)
}

func (s *appService) ListSuppliers(ctx context.Context, orgCode string) (*SupplierListResult, error) {
	suppliers, err := s.suppliers.GetSuppliers(ctx, orgCode)
	if err != nil {
		return nil, err
	}
	return &SupplierListResult{Suppliers: suppliers}, nil
}

func (s *appService) CreateSupplier(ctx context.Context, orgCode string, input core.SupplierInput) (*core.Supplier, error) {
	return s.suppliers.CreateSupplier(ctx, orgCode, input)
}

func (s *appService) ListPurchaseOrders(ctx context.Context, orgCode string, status *string) (*PurchaseOrderListResult, error) {
	var st *core.POStatus
	if status != nil && *status != "" {
		parsed := core.POStatus(*status)
		st = &parsed
	}
	orders, err := s.purchases.GetPOs(ctx, orgCode, st)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderListResult{Orders: orders, OrgCode: orgCode}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error) {
	return s.purchases.GetPO(ctx, poID)
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*core.PurchaseOrder, error) {
	lines := make([]core.POLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, core.POLineInput{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
		})
	}
	return s.purchases.CreatePO(ctx, req.OrgCode, req.SupplierID, req.OrderDate, lines, req.Notes)
}

func (s *appService) OrderPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error) {
	return s.purchases.MarkOrdered(ctx, poID)
}

func (s *appService) ReceivePurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error) {
	return s.purchases.ReceivePO(ctx, poID, s.inventory)
}

func (s *appService) CancelPurchaseOrder(ctx context.Context, poID int) (*core.PurchaseOrder, error) {
	return s.purchases.CancelPO(ctx, poID)
}

func (s *appService) GetStockLevels(ctx context.Context, orgCode string) (*StockResult, error) {
	levels, err := s.inventory.GetStockLevels(ctx, orgCode)
	if err != nil {
		return nil, err
	}
	return &StockResult{Levels: levels, OrgCode: orgCode}, nil
}

func (s *appService) ListStockMovements(ctx context.Context, orgCode string, productID *int) ([]core.StockMovement, error) {
	return s.inventory.GetMovements(ctx, orgCode, productID)
}

func (s *appService) RecordStockAdjustment(ctx context.Context, req StockAdjustmentRequest) (*core.StockMovement, error) {
	return s.inventory.RecordAdjustment(ctx, req.OrgCode, req.ProductID, req.Quantity, req.Reference)
}

func (s *appService) ListOrganizations(ctx context.Context) (*OrgListResult, error) {
	orgs, err := s.orgs.GetOrganizations(ctx)
	if err != nil {
		return nil, err
	}
	return &OrgListResult{Organizations: orgs}, nil
}

func (s *appService) CreateOrganization(ctx context.Context, req CreateOrgRequest) (*core.Organization, error) {
	return s.orgs.CreateOrganization(ctx, req.OrgCode, req.Name, req.Currency, req.DefaultTaxRate)
}

func (s *appService) PurgeOrganization(ctx context.Context, orgCode string) error {
	return s.orgs.PurgeOrganization(ctx, orgCode)
}
