package core_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"salepoint/internal/core"
)

func completedOrder(id int, total string, items ...core.OrderItem) core.Order {
	return core.Order{
		ID:     id,
		Status: core.StatusCompleted,
		Total:  dec(total),
		Items:  items,
	}
}

func item(productID int, name, qty, lineTotal string) core.OrderItem {
	var pid *int
	if productID != 0 {
		pid = &productID
	}
	return core.OrderItem{
		ProductID: pid,
		Kind:      core.KindProduct,
		Name:      name,
		Quantity:  dec(qty),
		Total:     dec(lineTotal),
	}
}

func TestAggregateSales_EmptyInput(t *testing.T) {
	report := core.AggregateSales(nil, map[int][]core.OrderPayment{}, core.ReportOptions{})

	if !report.TotalSales.IsZero() || !report.TotalTax.IsZero() || !report.TotalSubtotal.IsZero() {
		t.Errorf("expected all-zero totals, got sales=%s tax=%s subtotal=%s",
			report.TotalSales, report.TotalTax, report.TotalSubtotal)
	}
	if len(report.SalesByPaymentType) != 0 || len(report.SalesByOrderType) != 0 {
		t.Errorf("expected empty maps, got %v / %v", report.SalesByPaymentType, report.SalesByOrderType)
	}
	if len(report.TopSellingItems) != 0 {
		t.Errorf("expected no top items, got %v", report.TopSellingItems)
	}
	if !report.AverageOrderValue.IsZero() {
		t.Errorf("average order value must be 0 with no completed orders, got %s", report.AverageOrderValue)
	}
}

func TestAggregateSales_CompletedOnlyRevenue(t *testing.T) {
	// Three same-day orders: completed 10, completed 20, cancelled 1000.
	orders := []core.Order{
		completedOrder(1, "10"),
		completedOrder(2, "20"),
		{ID: 3, Status: core.StatusCancelled, Total: dec("1000")},
	}

	report := core.AggregateSales(orders, nil, core.ReportOptions{})

	if !report.TotalSales.Equal(dec("30")) {
		t.Errorf("TotalSales = %s, want 30 (cancelled excluded)", report.TotalSales)
	}
	wantStatus := map[core.OrderStatus]int{core.StatusCompleted: 2, core.StatusCancelled: 1}
	if !reflect.DeepEqual(report.OrdersByStatus, wantStatus) {
		t.Errorf("OrdersByStatus = %v, want %v", report.OrdersByStatus, wantStatus)
	}
	if !report.AverageOrderValue.Equal(dec("15")) {
		t.Errorf("AverageOrderValue = %s, want 15", report.AverageOrderValue)
	}
}

func TestAggregateSales_Idempotent(t *testing.T) {
	orders := []core.Order{
		completedOrder(1, "100", item(7, "Coffee", "2", "8.00")),
		{ID: 2, Status: core.StatusOpen, Total: dec("5"), OrderType: "dine-in"},
	}
	paymentsByOrder := map[int][]core.OrderPayment{
		1: {{Amount: dec("100"), Method: "cash"}},
	}

	first := core.AggregateSales(orders, paymentsByOrder, core.ReportOptions{})
	second := core.AggregateSales(orders, paymentsByOrder, core.ReportOptions{})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAggregateSales_PaymentTypeAsymmetry(t *testing.T) {
	// Payments exist on both a completed and a cancelled order. By default
	// every order in the map counts toward the payment-type totals.
	orders := []core.Order{
		completedOrder(1, "60"),
		{ID: 2, Status: core.StatusCancelled, Total: dec("40")},
	}
	paymentsByOrder := map[int][]core.OrderPayment{
		1: {{Amount: dec("60.00"), Method: "cash"}},
		2: {{Amount: dec("40.00"), Method: "card"}},
	}

	all := core.AggregateSales(orders, paymentsByOrder, core.ReportOptions{})
	if !all.SalesByPaymentType["cash"].Equal(dec("60.00")) || !all.SalesByPaymentType["card"].Equal(dec("40.00")) {
		t.Errorf("default payment-type map = %v, want cash=60.00 card=40.00", all.SalesByPaymentType)
	}

	completedOnly := core.AggregateSales(orders, paymentsByOrder, core.ReportOptions{PaymentTypeCompletedOnly: true})
	if !completedOnly.SalesByPaymentType["cash"].Equal(dec("60.00")) {
		t.Errorf("completed-only cash = %s, want 60.00", completedOnly.SalesByPaymentType["cash"])
	}
	if _, ok := completedOnly.SalesByPaymentType["card"]; ok {
		t.Errorf("completed-only map must exclude the cancelled order's payment, got %v", completedOnly.SalesByPaymentType)
	}
}

func TestAggregateSales_TopSellingItems(t *testing.T) {
	// Two orders each containing Coffee (qty 2 and qty 3).
	orders := []core.Order{
		completedOrder(1, "50",
			item(7, "Coffee", "2", "8.00"),
			item(8, "Bagel", "1", "3.50"),
		),
		completedOrder(2, "50",
			item(7, "Coffee", "3", "12.00"),
		),
	}

	report := core.AggregateSales(orders, nil, core.ReportOptions{})

	if len(report.TopSellingItems) != 2 {
		t.Fatalf("expected 2 distinct items, got %d", len(report.TopSellingItems))
	}
	top := report.TopSellingItems[0]
	if top.Name != "Coffee" || !top.Quantity.Equal(dec("5")) || !top.Total.Equal(dec("20.00")) {
		t.Errorf("top item = %+v, want Coffee qty 5 total 20.00", top)
	}
	if !report.TotalItemsSold.Equal(dec("6")) {
		t.Errorf("TotalItemsSold = %s, want 6", report.TotalItemsSold)
	}
}

func TestAggregateSales_TopNTruncation(t *testing.T) {
	var orders []core.Order
	var items []core.OrderItem
	for i := 1; i <= 10; i++ {
		items = append(items, item(i, fmt.Sprintf("Item %02d", i), "1", fmt.Sprintf("%d.00", i)))
	}
	orders = append(orders, completedOrder(1, "55", items...))

	report := core.AggregateSales(orders, nil, core.ReportOptions{TopN: 4})
	if len(report.TopSellingItems) != 4 {
		t.Fatalf("expected 4 items with TopN=4, got %d", len(report.TopSellingItems))
	}
	// Highest line total first.
	if report.TopSellingItems[0].Name != "Item 10" {
		t.Errorf("first ranked item = %s, want Item 10", report.TopSellingItems[0].Name)
	}
}

func TestAggregateSales_OrderTypeGrouping(t *testing.T) {
	orders := []core.Order{
		{ID: 1, Status: core.StatusCompleted, OrderType: "dine-in", Total: dec("30")},
		{ID: 2, Status: core.StatusCompleted, OrderType: "delivery", Total: dec("45")},
		{ID: 3, Status: core.StatusCompleted, OrderType: "dine-in", Total: dec("20")},
		{ID: 4, Status: core.StatusOpen, OrderType: "dine-in", Total: dec("99")},
	}

	report := core.AggregateSales(orders, nil, core.ReportOptions{})
	if !report.SalesByOrderType["dine-in"].Equal(dec("50")) {
		t.Errorf("dine-in = %s, want 50 (open order excluded)", report.SalesByOrderType["dine-in"])
	}
	if !report.SalesByOrderType["delivery"].Equal(dec("45")) {
		t.Errorf("delivery = %s, want 45", report.SalesByOrderType["delivery"])
	}
}

func TestSameBusinessDay(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 3, 14, 15, 0, 0, 0, loc)
	bd := "2026-03-14"
	otherBD := "2026-03-13"

	tests := []struct {
		name  string
		order core.Order
		want  bool
	}{
		{"business date matches", core.Order{BusinessDate: &bd, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, loc)}, true},
		{"business date overrides created_at", core.Order{BusinessDate: &otherBD, CreatedAt: day}, false},
		{"falls back to created_at", core.Order{CreatedAt: time.Date(2026, 3, 14, 23, 59, 59, 0, loc)}, true},
		{"created_at on another day", core.Order{CreatedAt: time.Date(2026, 3, 15, 0, 0, 1, 0, loc)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.SameBusinessDay(&tt.order, day, loc); got != tt.want {
				t.Errorf("SameBusinessDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByDay_CalendarSemantics(t *testing.T) {
	// 23:30 UTC on March 14 is March 15 in UTC+1: calendar day, not a
	// 24-hour window, decides membership.
	plus1 := time.FixedZone("UTC+1", 3600)
	orders := []core.Order{
		{ID: 1, CreatedAt: time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)},
	}

	day14 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if got := core.FilterByDay(orders, day14, plus1); len(got) != 0 {
		t.Errorf("order at 23:30Z should belong to March 15 in UTC+1, got %d matches", len(got))
	}
	day15 := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	if got := core.FilterByDay(orders, day15, plus1); len(got) != 1 {
		t.Errorf("expected 1 match on March 15 in UTC+1, got %d", len(got))
	}
}
