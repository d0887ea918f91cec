package core_test

import (
	"context"
	"strings"
	"testing"

	"salepoint/internal/core"

	"github.com/shopspring/decimal"
)

func TestPurchaseOrderService_ReceiveBooksStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	poSvc := core.NewPurchaseOrderService(pool)
	invSvc := core.NewInventoryService(pool)

	po, err := poSvc.CreatePO(ctx, "demo", 1, "2026-08-01", []core.POLineInput{
		{ProductID: 1, Quantity: decimal.NewFromInt(50), UnitCost: decimal.NewFromFloat(1.20)},
		{ProductID: 2, Quantity: decimal.NewFromInt(24), UnitCost: decimal.NewFromFloat(0.80)},
	}, "weekly restock")
	if err != nil {
		t.Fatalf("CreatePO failed: %v", err)
	}
	if po.Status != core.POStatusDraft {
		t.Errorf("expected draft, got %s", po.Status)
	}
	if !po.Total.Equal(decimal.NewFromFloat(79.20)) {
		t.Errorf("total = %s, want 79.20", po.Total)
	}
	if po.PONumber == "" {
		t.Error("PO must be assigned a number")
	}

	// Receiving a draft PO must be rejected: it has to be ordered first.
	if _, err := poSvc.ReceivePO(ctx, po.ID, invSvc); err == nil {
		t.Fatal("expected error receiving a draft PO")
	} else if !strings.Contains(err.Error(), "draft") {
		t.Errorf("error should name the current status, got %v", err)
	}

	po, err = poSvc.MarkOrdered(ctx, po.ID)
	if err != nil {
		t.Fatalf("MarkOrdered failed: %v", err)
	}
	if po.OrderedAt == nil {
		t.Error("ordered_at must be stamped")
	}

	// Ordered POs cannot be cancelled.
	if _, err := poSvc.CancelPO(ctx, po.ID); err == nil {
		t.Fatal("expected error cancelling an ordered PO")
	}

	po, err = poSvc.ReceivePO(ctx, po.ID, invSvc)
	if err != nil {
		t.Fatalf("ReceivePO failed: %v", err)
	}
	if po.Status != core.POStatusReceived {
		t.Errorf("expected received, got %s", po.Status)
	}
	if po.ReceivedAt == nil {
		t.Error("received_at must be stamped")
	}

	levels, err := invSvc.GetStockLevels(ctx, "demo")
	if err != nil {
		t.Fatalf("GetStockLevels failed: %v", err)
	}
	byName := map[string]decimal.Decimal{}
	for _, l := range levels {
		byName[l.Name] = l.OnHand
	}
	if !byName["Coffee"].Equal(decimal.NewFromInt(50)) {
		t.Errorf("Coffee on hand = %s, want 50", byName["Coffee"])
	}
	if !byName["Bagel"].Equal(decimal.NewFromInt(24)) {
		t.Errorf("Bagel on hand = %s, want 24", byName["Bagel"])
	}

	// Receiving twice must be rejected, stock unchanged.
	if _, err := poSvc.ReceivePO(ctx, po.ID, invSvc); err == nil {
		t.Fatal("expected error on double receive")
	}
	levels, _ = invSvc.GetStockLevels(ctx, "demo")
	for _, l := range levels {
		if l.Name == "Coffee" && !l.OnHand.Equal(decimal.NewFromInt(50)) {
			t.Errorf("Coffee on hand after double receive = %s, want 50", l.OnHand)
		}
	}
}

func TestPurchaseOrderService_RejectsServiceProducts(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	poSvc := core.NewPurchaseOrderService(pool)

	// Product 3 is a service item; services are never stocked.
	_, err := poSvc.CreatePO(ctx, "demo", 1, "", []core.POLineInput{
		{ProductID: 3, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1)},
	}, "")
	if err == nil {
		t.Fatal("expected error for service product on a PO")
	}
}
