package core

import "github.com/shopspring/decimal"

// PaymentSummary is the derived view of an order's payment position.
// It is never persisted; callers recompute it from the payment list.
type PaymentSummary struct {
	TotalPaid decimal.Decimal `json:"total_paid"`
	// Remaining is the raw signed balance: Total − TotalPaid. Negative means
	// overpayment; callers that need a display value use DisplayRemaining.
	Remaining        decimal.Decimal `json:"remaining"`
	DisplayRemaining decimal.Decimal `json:"display_remaining"` // Remaining clamped at zero
	ChangeDue        decimal.Decimal `json:"change_due"`        // max(0, TotalPaid − Total)
}

// TotalPaid sums the amounts of a payment list. An empty list sums to zero.
func TotalPaid(payments []OrderPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Remaining returns orderTotal − TotalPaid(payments). The value is signed:
// a negative result means the order is overpaid.
func Remaining(orderTotal decimal.Decimal, payments []OrderPayment) decimal.Decimal {
	return orderTotal.Sub(TotalPaid(payments))
}

// ChangeDue returns the overpayment amount, floored at zero.
func ChangeDue(orderTotal decimal.Decimal, payments []OrderPayment) decimal.Decimal {
	change := TotalPaid(payments).Sub(orderTotal)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// SummarizePayments computes the full payment position for an order total.
func SummarizePayments(orderTotal decimal.Decimal, payments []OrderPayment) PaymentSummary {
	paid := TotalPaid(payments)
	remaining := orderTotal.Sub(paid)

	display := remaining
	if display.IsNegative() {
		display = decimal.Zero
	}
	change := paid.Sub(orderTotal)
	if change.IsNegative() {
		change = decimal.Zero
	}

	return PaymentSummary{
		TotalPaid:        paid,
		Remaining:        remaining,
		DisplayRemaining: display,
		ChangeDue:        change,
	}
}

// IsFullyPaid reports whether an order is settled.
//
// The persisted Paid flag is authoritative: once set it short-circuits true
// without consulting the payment list, so corrected or out-of-band payment
// records cannot retroactively un-pay an order. Otherwise an order is fully
// paid when it has at least one payment and the payments cover the total.
// An unpaid order with no payments is never fully paid, even at total zero.
func IsFullyPaid(order *Order, payments []OrderPayment) bool {
	if order.Paid {
		return true
	}
	if len(payments) == 0 {
		return false
	}
	return TotalPaid(payments).GreaterThanOrEqual(order.Total)
}
