package core_test

import (
	"context"
	"testing"

	"salepoint/internal/core"

	"github.com/shopspring/decimal"
)

func TestOrgService_PurgeRemovesEverything(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orgSvc := core.NewOrgService(pool)
	orderSvc := core.NewOrderService(pool)

	// A second org must survive the purge of the first untouched.
	if _, err := orgSvc.CreateOrganization(ctx, "other", "Other Shop", "EUR", decimal.NewFromFloat(0.20)); err != nil {
		t.Fatalf("CreateOrganization failed: %v", err)
	}

	order, err := orderSvc.CreateOrder(ctx, "demo", core.CreateOrderInput{
		OrderType: "takeaway",
		Items:     []core.OrderItemInput{{ProductID: intPtr(1), Quantity: decimal.NewFromInt(2)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, _, err := orderSvc.RecordPayment(ctx, order.ID, core.PaymentInput{
		Amount: decimal.NewFromInt(1), Method: "cash",
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	if err := orgSvc.PurgeOrganization(ctx, "demo"); err != nil {
		t.Fatalf("PurgeOrganization failed: %v", err)
	}

	if _, err := orgSvc.GetOrganization(ctx, "demo"); err == nil {
		t.Fatal("expected not-found for purged org")
	}
	if _, err := orgSvc.GetOrganization(ctx, "other"); err != nil {
		t.Fatalf("untouched org must survive a purge, got %v", err)
	}

	for _, table := range []string{"orders", "order_items", "order_payments", "products", "customers", "suppliers", "dining_tables"} {
		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected %s to be empty after purge, found %d rows", table, count)
		}
	}
}

func TestOrgService_PurgeUnknownOrg(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orgSvc := core.NewOrgService(pool)
	if err := orgSvc.PurgeOrganization(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error purging unknown org")
	}
}
