package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for status reconciliation. Callers discriminate with
// errors.Is; the web adapter maps them to 409/422 responses.
var (
	// ErrPaymentIncomplete is returned when a transition to completed is
	// attempted on an order that is not fully paid.
	ErrPaymentIncomplete = errors.New("order is not fully paid")

	// ErrTerminalStatus is returned when a transition out of completed or
	// cancelled is attempted.
	ErrTerminalStatus = errors.New("order status is terminal")

	// ErrInvalidTransition is returned for transitions involving an unknown
	// status value.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// validStatuses is the closed set of order statuses.
var validStatuses = map[OrderStatus]bool{
	StatusOpen:      true,
	StatusOnHold:    true,
	StatusPreparing: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

// IsTerminal reports whether s admits no further transitions.
func IsTerminal(s OrderStatus) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CheckTransition validates a status transition without considering payment
// state. Any non-terminal status may move to any other status, including
// directly on_hold → completed; terminal statuses admit nothing. A
// self-transition on a non-terminal status is allowed (callers treat it as
// a no-op refresh of updated_at).
func CheckTransition(from, to OrderStatus) error {
	if !ValidStatus(from) {
		return fmt.Errorf("%w: unknown current status %q", ErrInvalidTransition, from)
	}
	if !ValidStatus(to) {
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidTransition, to)
	}
	if IsTerminal(from) && from != to {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrTerminalStatus, from, to)
	}
	return nil
}

// CheckCompletion validates the full guard for a transition to the target
// status: the structural transition rules plus, for completed, the hard
// fully-paid precondition.
func CheckCompletion(order *Order, payments []OrderPayment, to OrderStatus) error {
	if err := CheckTransition(order.Status, to); err != nil {
		return err
	}
	if to == StatusCompleted && !IsFullyPaid(order, payments) {
		summary := SummarizePayments(order.Total, payments)
		return fmt.Errorf("%w: order %s has %s of %s paid",
			ErrPaymentIncomplete, order.OrderNumber, summary.TotalPaid, order.Total)
	}
	return nil
}
