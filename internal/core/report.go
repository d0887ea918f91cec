package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTopN is the default size of the top-selling-items ranking.
const DefaultTopN = 20

// ReportOptions controls the knobs the aggregation exposes.
type ReportOptions struct {
	// TopN bounds TopSellingItems; zero or negative means DefaultTopN.
	TopN int
	// PaymentTypeCompletedOnly restricts SalesByPaymentType to payments on
	// completed orders. When false, payments across every order passed in
	// are summed regardless of status.
	PaymentTypeCompletedOnly bool
}

// ItemSales is one entry in the top-selling-items ranking.
type ItemSales struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// SalesReport holds grouped totals over a set of orders and their payments.
// Revenue figures (TotalSales, TotalTax, TotalSubtotal, SalesByOrderType,
// TotalItemsSold, TopSellingItems, AverageOrderValue) count completed orders
// only; OrdersByStatus counts every order passed in.
type SalesReport struct {
	TotalSales         decimal.Decimal            `json:"total_sales"`
	TotalTax           decimal.Decimal            `json:"total_tax"`
	TotalSubtotal      decimal.Decimal            `json:"total_subtotal"`
	TotalItemsSold     decimal.Decimal            `json:"total_items_sold"`
	SalesByPaymentType map[string]decimal.Decimal `json:"sales_by_payment_type"`
	SalesByOrderType   map[string]decimal.Decimal `json:"sales_by_order_type"`
	TopSellingItems    []ItemSales                `json:"top_selling_items"`
	OrdersByStatus     map[OrderStatus]int        `json:"orders_by_status"`
	CompletedOrders    int                        `json:"completed_orders"`
	AverageOrderValue  decimal.Decimal            `json:"average_order_value"`
}

// itemKey identifies a line item for grouping: product ID when present,
// otherwise the item name (ad-hoc lines have no product reference).
type itemKey struct {
	productID int
	name      string
}

func keyFor(item OrderItem) itemKey {
	if item.ProductID != nil {
		return itemKey{productID: *item.ProductID}
	}
	return itemKey{name: item.Name}
}

// AggregateSales reduces a set of orders and a payments-by-order-ID mapping
// into grouped totals. It is a pure function: it never mutates its inputs
// and calling it twice on the same data yields identical results.
func AggregateSales(orders []Order, paymentsByOrder map[int][]OrderPayment, opts ReportOptions) *SalesReport {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	report := &SalesReport{
		SalesByPaymentType: make(map[string]decimal.Decimal),
		SalesByOrderType:   make(map[string]decimal.Decimal),
		OrdersByStatus:     make(map[OrderStatus]int),
	}

	itemTotals := make(map[itemKey]*ItemSales)

	for _, order := range orders {
		report.OrdersByStatus[order.Status]++

		if order.Status != StatusCompleted {
			continue
		}
		report.CompletedOrders++
		report.TotalSales = report.TotalSales.Add(order.Total)
		report.TotalTax = report.TotalTax.Add(order.TaxAmount)
		report.TotalSubtotal = report.TotalSubtotal.Add(order.Subtotal)
		report.SalesByOrderType[order.OrderType] = report.SalesByOrderType[order.OrderType].Add(order.Total)

		for _, item := range order.Items {
			report.TotalItemsSold = report.TotalItemsSold.Add(item.Quantity)

			key := keyFor(item)
			entry, ok := itemTotals[key]
			if !ok {
				entry = &ItemSales{Name: item.Name}
				itemTotals[key] = entry
			}
			entry.Quantity = entry.Quantity.Add(item.Quantity)
			entry.Total = entry.Total.Add(item.Total)
		}
	}

	completedIDs := make(map[int]bool, report.CompletedOrders)
	if opts.PaymentTypeCompletedOnly {
		for _, order := range orders {
			if order.Status == StatusCompleted {
				completedIDs[order.ID] = true
			}
		}
	}
	for orderID, payments := range paymentsByOrder {
		if opts.PaymentTypeCompletedOnly && !completedIDs[orderID] {
			continue
		}
		for _, p := range payments {
			report.SalesByPaymentType[p.Method] = report.SalesByPaymentType[p.Method].Add(p.Amount)
		}
	}

	ranked := make([]ItemSales, 0, len(itemTotals))
	for _, entry := range itemTotals {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	report.TopSellingItems = ranked

	if report.CompletedOrders > 0 {
		report.AverageOrderValue = report.TotalSales.Div(decimal.NewFromInt(int64(report.CompletedOrders)))
	}
	return report
}

// SameBusinessDay reports whether an order belongs to the given calendar day
// in loc. An order with a business-assigned date uses that date; otherwise
// the creation timestamp decides. Equality is by year-month-day, never by
// timestamp range.
func SameBusinessDay(order *Order, day time.Time, loc *time.Location) bool {
	want := day.In(loc).Format("2006-01-02")
	if order.BusinessDate != nil && *order.BusinessDate != "" {
		return *order.BusinessDate == want
	}
	return order.CreatedAt.In(loc).Format("2006-01-02") == want
}

// FilterByDay returns the subset of orders on the given calendar day in loc.
func FilterByDay(orders []Order, day time.Time, loc *time.Location) []Order {
	var out []Order
	for i := range orders {
		if SameBusinessDay(&orders[i], day, loc) {
			out = append(out, orders[i])
		}
	}
	return out
}
