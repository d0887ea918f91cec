package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"salepoint/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE order_payments, order_items, orders, order_sequences,
		               stock_movements, purchase_order_lines, purchase_orders, po_sequences,
		               suppliers, dining_tables, customers, products, organizations CASCADE;

		INSERT INTO organizations (id, org_code, name, currency, default_tax_rate)
		VALUES (1, 'demo', 'Demo Coffee Co', 'USD', 0.10);
		SELECT setval('organizations_id_seq', 10);

		INSERT INTO products (id, org_id, sku, name, kind, unit_price) VALUES
		(1, 1, 'COF-01', 'Coffee',      'product', 4.00),
		(2, 1, 'BGL-01', 'Bagel',       'product', 3.50),
		(3, 1, 'SVC-01', 'Gift Wrap',   'service', 2.00);
		SELECT setval('products_id_seq', 10);

		INSERT INTO customers (id, org_id, name, email, phone, address)
		VALUES (1, 1, 'Walk-in', '', '', '');
		SELECT setval('customers_id_seq', 10);

		INSERT INTO suppliers (id, org_id, name, contact, email, phone)
		VALUES (1, 1, 'Bean Wholesale', 'Sam', 'sales@beans.example', '+1-555-0100');
		SELECT setval('suppliers_id_seq', 10);

		INSERT INTO dining_tables (id, org_id, label) VALUES (1, 1, 'T1');
		SELECT setval('dining_tables_id_seq', 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}

func intPtr(v int) *int { return &v }

func TestOrderService_FullPaymentCycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orderSvc := core.NewOrderService(pool)
	invSvc := core.NewInventoryService(pool)

	// 1. Create an order: 2 × Coffee @ 4.00 + 1 × Bagel @ 3.50 = 11.50,
	//    tax 10% → total 12.65.
	order, err := orderSvc.CreateOrder(ctx, "demo", core.CreateOrderInput{
		OrderType: "dine-in",
		TableID:   intPtr(1),
		CreatedBy: "cashier-1",
		Items: []core.OrderItemInput{
			{ProductID: intPtr(1), Quantity: decimal.NewFromInt(2)},
			{ProductID: intPtr(2), Quantity: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.Status != core.StatusOpen {
		t.Errorf("expected open, got %s", order.Status)
	}
	if order.OrderNumber == "" {
		t.Error("order must be assigned an order number")
	}
	if !order.Subtotal.Equal(decimal.NewFromFloat(11.50)) {
		t.Errorf("subtotal = %s, want 11.50", order.Subtotal)
	}
	if !order.Total.Equal(decimal.NewFromFloat(12.65)) {
		t.Errorf("total = %s, want 12.65", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if !order.Items[0].Total.Equal(decimal.NewFromInt(8)) {
		t.Errorf("line 1 total = %s, want 8 (quantity × unit price)", order.Items[0].Total)
	}

	// 2. Completing before any payment must fail with the payment guard.
	if _, err := orderSvc.UpdateStatus(ctx, order.ID, core.StatusCompleted, invSvc); !errors.Is(err, core.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}

	// 3. Partial payment still fails the guard.
	_, summary, err := orderSvc.RecordPayment(ctx, order.ID, core.PaymentInput{
		Amount: decimal.NewFromInt(10), Method: "cash",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !summary.Remaining.Equal(decimal.NewFromFloat(2.65)) {
		t.Errorf("remaining = %s, want 2.65", summary.Remaining)
	}
	if _, err := orderSvc.UpdateStatus(ctx, order.ID, core.StatusCompleted, invSvc); !errors.Is(err, core.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete after partial payment, got %v", err)
	}

	// 4. Second payment overshoots: 10 + 5 = 15 against 12.65.
	_, summary, err = orderSvc.RecordPayment(ctx, order.ID, core.PaymentInput{
		Amount: decimal.NewFromInt(5), Method: "card",
	})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !summary.ChangeDue.Equal(decimal.NewFromFloat(2.35)) {
		t.Errorf("change due = %s, want 2.35", summary.ChangeDue)
	}
	if !summary.DisplayRemaining.IsZero() {
		t.Errorf("display remaining = %s, want 0", summary.DisplayRemaining)
	}

	// 5. Completion now succeeds and deducts stock for product lines.
	order, err = orderSvc.UpdateStatus(ctx, order.ID, core.StatusCompleted, invSvc)
	if err != nil {
		t.Fatalf("UpdateStatus to completed failed: %v", err)
	}
	if order.Status != core.StatusCompleted {
		t.Errorf("expected completed, got %s", order.Status)
	}

	levels, err := invSvc.GetStockLevels(ctx, "demo")
	if err != nil {
		t.Fatalf("GetStockLevels failed: %v", err)
	}
	byName := map[string]decimal.Decimal{}
	for _, l := range levels {
		byName[l.Name] = l.OnHand
	}
	if !byName["Coffee"].Equal(decimal.NewFromInt(-2)) {
		t.Errorf("Coffee on hand = %s, want -2 after sale", byName["Coffee"])
	}
	if !byName["Bagel"].Equal(decimal.NewFromInt(-1)) {
		t.Errorf("Bagel on hand = %s, want -1 after sale", byName["Bagel"])
	}

	// 6. Completed is terminal.
	if _, err := orderSvc.UpdateStatus(ctx, order.ID, core.StatusOpen, nil); !errors.Is(err, core.ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus when leaving completed, got %v", err)
	}
}

func TestOrderService_MarkAsPaidShortCircuitsGuard(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orderSvc := core.NewOrderService(pool)

	order, err := orderSvc.CreateOrder(ctx, "demo", core.CreateOrderInput{
		OrderType: "takeaway",
		Items: []core.OrderItemInput{
			{ProductID: intPtr(1), Quantity: decimal.NewFromInt(1)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// No payments recorded, but the persisted paid flag is authoritative.
	order, err = orderSvc.MarkAsPaid(ctx, order.ID)
	if err != nil {
		t.Fatalf("MarkAsPaid failed: %v", err)
	}
	if !order.Paid {
		t.Fatal("paid flag not set")
	}
	if order.Status != core.StatusOpen {
		t.Errorf("MarkAsPaid must not change status, got %s", order.Status)
	}

	// Calling it twice is a no-op overwrite.
	if _, err := orderSvc.MarkAsPaid(ctx, order.ID); err != nil {
		t.Fatalf("second MarkAsPaid failed: %v", err)
	}

	if _, err := orderSvc.UpdateStatus(ctx, order.ID, core.StatusCompleted, nil); err != nil {
		t.Fatalf("completion with paid flag set should succeed, got %v", err)
	}
}

func TestOrderService_DeleteRemovesChildren(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orderSvc := core.NewOrderService(pool)

	order, err := orderSvc.CreateOrder(ctx, "demo", core.CreateOrderInput{
		OrderType: "takeaway",
		Items:     []core.OrderItemInput{{ProductID: intPtr(2), Quantity: decimal.NewFromInt(3)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, _, err := orderSvc.RecordPayment(ctx, order.ID, core.PaymentInput{
		Amount: decimal.NewFromInt(1), Method: "cash",
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if err := orderSvc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := orderSvc.GetOrder(ctx, order.ID); err == nil {
		t.Fatal("expected not-found after delete")
	}

	var count int
	if err := pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM order_payments WHERE order_id = $1", order.ID,
	).Scan(&count); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 orphaned payments, got %d", count)
	}
}
