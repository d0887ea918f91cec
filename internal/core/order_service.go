package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderService manages the sales order lifecycle: creation, payments, the
// paid flag, and guarded status transitions.
type OrderService interface {
	// CreateOrder creates a new open order with computed line totals,
	// subtotal, tax, and grand total. Client-supplied figures are never
	// trusted; everything is derived from quantity × unit price.
	CreateOrder(ctx context.Context, orgCode string, input CreateOrderInput) (*Order, error)

	// Queries
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	GetOrderByNumber(ctx context.Context, orgCode, orderNumber string) (*Order, error)
	GetOrders(ctx context.Context, orgCode string, status *OrderStatus) ([]Order, error)
	// GetPayments returns the payments recorded against one order,
	// oldest first.
	GetPayments(ctx context.Context, orderID int) ([]OrderPayment, error)

	// RecordPayment inserts an immutable payment row and returns it with
	// the refreshed payment summary. It does not set the paid flag — that
	// is an explicit caller action via MarkAsPaid.
	RecordPayment(ctx context.Context, orderID int, input PaymentInput) (*OrderPayment, PaymentSummary, error)

	// MarkAsPaid sets the order's paid flag. The write is a plain field
	// overwrite, so calling it twice is a no-op. Status is untouched.
	MarkAsPaid(ctx context.Context, orderID int) (*Order, error)

	// UpdateStatus transitions the order to newStatus under a row lock.
	// Moving to completed requires the order to be fully paid
	// (ErrPaymentIncomplete otherwise); completed and cancelled are
	// terminal (ErrTerminalStatus). Pass inv=nil to skip stock deduction
	// on completion.
	UpdateStatus(ctx context.Context, orderID int, newStatus OrderStatus, inv InventoryService) (*Order, error)

	// DeleteOrder removes the order with its items and payments in one
	// transaction. Admin-only surface.
	DeleteOrder(ctx context.Context, orderID int) error
}

// CreateOrderInput holds the fields required to create an order.
type CreateOrderInput struct {
	OrderType    string
	CustomerID   *int
	TableID      *int
	TaxRate      *decimal.Decimal // nil means the organization default
	BusinessDate *string          // YYYY-MM-DD
	Notes        string
	CreatedBy    string
	Items        []OrderItemInput
}

type orderService struct {
	pool *pgxpool.Pool
}

func NewOrderService(pool *pgxpool.Pool) OrderService {
	return &orderService{pool: pool}
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// resolveOrg looks up the internal org ID and default tax rate from an org code.
func resolveOrg(ctx context.Context, q pgxQuerier, orgCode string) (int, decimal.Decimal, error) {
	var id int
	var taxRate decimal.Decimal
	err := q.QueryRow(ctx,
		"SELECT id, default_tax_rate FROM organizations WHERE org_code = $1", orgCode,
	).Scan(&id, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, decimal.Zero, fmt.Errorf("organization %s not found", orgCode)
		}
		return 0, decimal.Zero, fmt.Errorf("failed to resolve organization %s: %w", orgCode, err)
	}
	return id, taxRate, nil
}

// nextOrderNumber assigns the next order number for an org. The sequence row
// is updated inside the caller's transaction, so numbers are gapless per
// committed order.
func nextOrderNumber(ctx context.Context, tx pgx.Tx, orgID int) (string, error) {
	var n int64
	err := tx.QueryRow(ctx, `
		INSERT INTO order_sequences (org_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (org_id) DO UPDATE SET last_number = order_sequences.last_number + 1
		RETURNING last_number
	`, orgID).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to advance order sequence: %w", err)
	}
	return fmt.Sprintf("ORD-%06d", n), nil
}

func (s *orderService) CreateOrder(ctx context.Context, orgCode string, input CreateOrderInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("order must have at least one item")
	}
	if input.BusinessDate != nil && *input.BusinessDate != "" {
		if _, err := time.Parse("2006-01-02", *input.BusinessDate); err != nil {
			return nil, fmt.Errorf("invalid business date %q: %w", *input.BusinessDate, err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orgID, defaultTaxRate, err := resolveOrg(ctx, tx, orgCode)
	if err != nil {
		return nil, err
	}

	taxRate := defaultTaxRate
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, fmt.Errorf("tax rate cannot be negative")
		}
		taxRate = *input.TaxRate
	}

	type resolvedItem struct {
		productID *int
		kind      ItemKind
		name      string
		quantity  decimal.Decimal
		unitPrice decimal.Decimal
		total     decimal.Decimal
	}

	subtotal := decimal.Zero
	var resolved []resolvedItem
	for i, item := range input.Items {
		if item.Quantity.IsZero() || item.Quantity.IsNegative() {
			return nil, fmt.Errorf("item %d: quantity must be > 0", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("item %d: unit price cannot be negative", i+1)
		}

		kind := item.Kind
		name := item.Name
		price := item.UnitPrice

		// An item referencing the catalog inherits name, kind, and price
		// defaults from the product record.
		if item.ProductID != nil {
			var p Product
			err = tx.QueryRow(ctx,
				"SELECT name, kind, unit_price FROM products WHERE id = $1 AND org_id = $2 AND is_active = true",
				*item.ProductID, orgID,
			).Scan(&p.Name, &p.Kind, &p.UnitPrice)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, fmt.Errorf("item %d: product %d not found for organization %s", i+1, *item.ProductID, orgCode)
				}
				return nil, fmt.Errorf("item %d: failed to resolve product: %w", i+1, err)
			}
			if name == "" {
				name = p.Name
			}
			if kind == "" {
				kind = p.Kind
			}
			if price.IsZero() {
				price = p.UnitPrice
			}
		}
		if name == "" {
			return nil, fmt.Errorf("item %d: name is required", i+1)
		}
		if kind != KindProduct && kind != KindService {
			return nil, fmt.Errorf("item %d: kind must be %q or %q", i+1, KindProduct, KindService)
		}

		lineTotal := item.Quantity.Mul(price)
		subtotal = subtotal.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: item.ProductID,
			kind:      kind,
			name:      name,
			quantity:  item.Quantity,
			unitPrice: price,
			total:     lineTotal,
		})
	}

	taxAmount := subtotal.Mul(taxRate)
	total := subtotal.Add(taxAmount)

	orderNumber, err := nextOrderNumber(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (org_id, order_number, status, paid, order_type, customer_id, table_id,
		                    subtotal, tax_rate, tax_amount, total, business_date, notes, created_by)
		VALUES ($1, $2, 'open', false, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, orgID, orderNumber, input.OrderType, input.CustomerID, input.TableID,
		subtotal, taxRate, taxAmount, total, input.BusinessDate, input.Notes, input.CreatedBy,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for i, ri := range resolved {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, line_number, product_id, kind, name, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, orderID, i+1, ri.productID, ri.kind, ri.name, ri.quantity, ri.unitPrice, ri.total)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// ── Payments ─────────────────────────────────────────────────────────────────

func (s *orderService) RecordPayment(ctx context.Context, orderID int, input PaymentInput) (*OrderPayment, PaymentSummary, error) {
	if input.Amount.IsZero() || input.Amount.IsNegative() {
		return nil, PaymentSummary{}, fmt.Errorf("payment amount must be > 0")
	}
	if input.Method == "" {
		return nil, PaymentSummary{}, fmt.Errorf("payment method is required")
	}

	paymentDate := input.PaymentDate
	if paymentDate == "" {
		paymentDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", paymentDate); err != nil {
		return nil, PaymentSummary{}, fmt.Errorf("invalid payment date %q: %w", paymentDate, err)
	}
	reference := input.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	var orgID int
	var total decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT org_id, total FROM orders WHERE id = $1", orderID,
	).Scan(&orgID, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, PaymentSummary{}, fmt.Errorf("order %d not found", orderID)
		}
		return nil, PaymentSummary{}, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	var p OrderPayment
	err = s.pool.QueryRow(ctx, `
		INSERT INTO order_payments (org_id, order_id, amount, method, payment_date, reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, org_id, order_id, amount, method, payment_date::text, reference, notes, created_at
	`, orgID, orderID, input.Amount, input.Method, paymentDate, reference, input.Notes).Scan(
		&p.ID, &p.OrgID, &p.OrderID, &p.Amount, &p.Method, &p.PaymentDate, &p.Reference, &p.Notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, PaymentSummary{}, fmt.Errorf("failed to record payment: %w", err)
	}

	payments, err := s.GetPayments(ctx, orderID)
	if err != nil {
		return nil, PaymentSummary{}, err
	}
	return &p, SummarizePayments(total, payments), nil
}

func (s *orderService) GetPayments(ctx context.Context, orderID int) ([]OrderPayment, error) {
	return fetchPaymentsQ(ctx, s.pool, orderID)
}

func fetchPaymentsQ(ctx context.Context, q pgxQuerier, orderID int) ([]OrderPayment, error) {
	rows, err := q.Query(ctx, `
		SELECT id, org_id, order_id, amount, method, payment_date::text, reference, notes, created_at
		FROM order_payments
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []OrderPayment
	for rows.Next() {
		var p OrderPayment
		if err := rows.Scan(&p.ID, &p.OrgID, &p.OrderID, &p.Amount, &p.Method,
			&p.PaymentDate, &p.Reference, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (s *orderService) MarkAsPaid(ctx context.Context, orderID int) (*Order, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET paid = true, updated_at = NOW() WHERE id = $1",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order %d as paid: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("order %d not found", orderID)
	}
	return s.GetOrder(ctx, orderID)
}

// ── Status transitions ───────────────────────────────────────────────────────

func (s *orderService) UpdateStatus(ctx context.Context, orderID int, newStatus OrderStatus, inv InventoryService) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the order row so concurrent transitions serialize.
	var o Order
	err = tx.QueryRow(ctx, `
		SELECT id, org_id, order_number, status, paid, total
		FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&o.ID, &o.OrgID, &o.OrderNumber, &o.Status, &o.Paid, &o.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	// Payment state is read inside the same transaction as the guard check.
	payments, err := fetchPaymentsQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := CheckCompletion(&o, payments, newStatus); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		newStatus, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	// Completing an order deducts stock for its product lines. Service
	// lines are skipped inside RecordSaleTx.
	if newStatus == StatusCompleted && o.Status != StatusCompleted && inv != nil {
		items, err := fetchOrderItemsQ(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		if err := inv.RecordSaleTx(ctx, tx, o.OrgID, orderID, items); err != nil {
			return nil, fmt.Errorf("stock deduction failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	return s.GetOrder(ctx, orderID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const orderSelect = `
	SELECT id, org_id, order_number, status, paid, order_type, customer_id, table_id,
	       subtotal, tax_rate, tax_amount, total, business_date::text, notes, created_by,
	       created_at, updated_at
	FROM orders`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrgID, &o.OrderNumber, &o.Status, &o.Paid, &o.OrderType,
		&o.CustomerID, &o.TableID, &o.Subtotal, &o.TaxRate, &o.TaxAmount, &o.Total,
		&o.BusinessDate, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, orderSelect+" WHERE id = $1", orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d not found", orderID)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	items, err := fetchOrderItemsQ(ctx, s.pool, orderID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *orderService) GetOrderByNumber(ctx context.Context, orgCode, orderNumber string) (*Order, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var orderID int
	err = s.pool.QueryRow(ctx,
		"SELECT id FROM orders WHERE org_id = $1 AND order_number = $2",
		orgID, orderNumber,
	).Scan(&orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s not found for organization %s", orderNumber, orgCode)
		}
		return nil, fmt.Errorf("failed to lookup order by number: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) GetOrders(ctx context.Context, orgCode string, status *OrderStatus) ([]Order, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	query := orderSelect + " WHERE org_id = $1"
	args := []any{orgID}
	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func fetchOrderItemsQ(ctx context.Context, q pgxQuerier, orderID int) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, line_number, product_id, kind, name, quantity, unit_price, total
		FROM order_items
		WHERE order_id = $1
		ORDER BY line_number
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.LineNumber, &it.ProductID,
			&it.Kind, &it.Name, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, nil
}

// ── Deletion ─────────────────────────────────────────────────────────────────

func (s *orderService) DeleteOrder(ctx context.Context, orderID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "DELETE FROM order_payments WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete payments for order %d: %w", orderID, err)
	}
	if _, err = tx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return fmt.Errorf("failed to delete items for order %d: %w", orderID, err)
	}
	tag, err := tx.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}
	return tx.Commit(ctx)
}
