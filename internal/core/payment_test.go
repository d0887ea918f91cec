package core_test

import (
	"testing"

	"salepoint/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func payments(amounts ...string) []core.OrderPayment {
	var out []core.OrderPayment
	for _, a := range amounts {
		out = append(out, core.OrderPayment{Amount: dec(a)})
	}
	return out
}

func TestTotalPaid(t *testing.T) {
	tests := []struct {
		name     string
		payments []core.OrderPayment
		want     string
	}{
		{"empty list", nil, "0"},
		{"single payment", payments("50.00"), "50.00"},
		{"two payments", payments("60.00", "40.00"), "100.00"},
		{"cent precision", payments("0.10", "0.20"), "0.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.TotalPaid(tt.payments)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalPaid = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRemainingAndChange(t *testing.T) {
	// Overpaid order: total 50, one payment of 70.
	total := dec("50.00")
	pays := payments("70.00")

	if got := core.Remaining(total, pays); !got.Equal(dec("-20.00")) {
		t.Errorf("Remaining = %s, want -20.00", got)
	}
	if got := core.ChangeDue(total, pays); !got.Equal(dec("20.00")) {
		t.Errorf("ChangeDue = %s, want 20.00", got)
	}

	summary := core.SummarizePayments(total, pays)
	if !summary.Remaining.Equal(dec("-20.00")) {
		t.Errorf("summary raw remaining = %s, want -20.00", summary.Remaining)
	}
	if !summary.DisplayRemaining.IsZero() {
		t.Errorf("summary display remaining = %s, want 0", summary.DisplayRemaining)
	}
	if !summary.ChangeDue.Equal(dec("20.00")) {
		t.Errorf("summary change due = %s, want 20.00", summary.ChangeDue)
	}
}

func TestSummarizePayments_ExactSettlement(t *testing.T) {
	// Total 100, payments 60 (cash) + 40 (card).
	summary := core.SummarizePayments(dec("100.00"), payments("60.00", "40.00"))

	if !summary.TotalPaid.Equal(dec("100.00")) {
		t.Errorf("TotalPaid = %s, want 100.00", summary.TotalPaid)
	}
	if !summary.Remaining.IsZero() {
		t.Errorf("Remaining = %s, want 0", summary.Remaining)
	}
	if !summary.ChangeDue.IsZero() {
		t.Errorf("ChangeDue = %s, want 0", summary.ChangeDue)
	}
}

func TestIsFullyPaid(t *testing.T) {
	tests := []struct {
		name     string
		paid     bool
		total    string
		payments []core.OrderPayment
		want     bool
	}{
		{"paid flag trusted with no payments", true, "100.00", nil, true},
		{"paid flag trusted over insufficient payments", true, "100.00", payments("1.00"), true},
		{"unpaid with no payments", false, "100.00", nil, false},
		{"unpaid zero-total with no payments", false, "0", nil, false},
		{"payments exactly cover total", false, "100.00", payments("60.00", "40.00"), true},
		{"payments exceed total", false, "100.00", payments("150.00"), true},
		{"one cent short", false, "100.00", payments("99.99"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &core.Order{Paid: tt.paid, Total: dec(tt.total)}
			if got := core.IsFullyPaid(order, tt.payments); got != tt.want {
				t.Errorf("IsFullyPaid = %v, want %v", got, tt.want)
			}
		})
	}
}
