package core_test

import (
	"errors"
	"testing"

	"salepoint/internal/core"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    core.OrderStatus
		to      core.OrderStatus
		wantErr error
	}{
		{"open to on_hold", core.StatusOpen, core.StatusOnHold, nil},
		{"on_hold back to open", core.StatusOnHold, core.StatusOpen, nil},
		{"open to preparing", core.StatusOpen, core.StatusPreparing, nil},
		{"preparing to completed", core.StatusPreparing, core.StatusCompleted, nil},
		{"on_hold directly to completed", core.StatusOnHold, core.StatusCompleted, nil},
		{"open to cancelled", core.StatusOpen, core.StatusCancelled, nil},
		{"self transition", core.StatusOpen, core.StatusOpen, nil},
		{"terminal self transition", core.StatusCompleted, core.StatusCompleted, nil},
		{"leaving completed", core.StatusCompleted, core.StatusOpen, core.ErrTerminalStatus},
		{"leaving cancelled", core.StatusCancelled, core.StatusPreparing, core.ErrTerminalStatus},
		{"cancel a completed order", core.StatusCompleted, core.StatusCancelled, core.ErrTerminalStatus},
		{"unknown current status", core.OrderStatus("shipped"), core.StatusOpen, core.ErrInvalidTransition},
		{"unknown target status", core.StatusOpen, core.OrderStatus("done"), core.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := core.CheckTransition(tt.from, tt.to)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckCompletion_PaymentGuard(t *testing.T) {
	order := &core.Order{
		OrderNumber: "ORD-000001",
		Status:      core.StatusOpen,
		Total:       dec("100.00"),
	}

	// Not fully paid: completion must be rejected regardless of other fields.
	err := core.CheckCompletion(order, payments("99.99"), core.StatusCompleted)
	if !errors.Is(err, core.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}

	// No payments at all.
	err = core.CheckCompletion(order, nil, core.StatusCompleted)
	if !errors.Is(err, core.ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete with empty payments, got %v", err)
	}

	// Exactly covered.
	if err := core.CheckCompletion(order, payments("60.00", "40.00"), core.StatusCompleted); err != nil {
		t.Fatalf("unexpected error when fully paid: %v", err)
	}

	// Paid flag short-circuits even with no payments.
	order.Paid = true
	if err := core.CheckCompletion(order, nil, core.StatusCompleted); err != nil {
		t.Fatalf("unexpected error with paid flag set: %v", err)
	}
}

func TestCheckCompletion_NonCompletedTargetsUnguarded(t *testing.T) {
	order := &core.Order{Status: core.StatusOpen, Total: dec("100.00")}

	for _, to := range []core.OrderStatus{core.StatusOnHold, core.StatusPreparing, core.StatusCancelled} {
		if err := core.CheckCompletion(order, nil, to); err != nil {
			t.Errorf("transition open → %s should not require payment, got %v", to, err)
		}
	}
}
