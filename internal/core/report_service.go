package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// paymentFetchConcurrency bounds the fan-out when loading payments and
// items for a day's orders.
const paymentFetchConcurrency = 8

// ReportService assembles the daily sales report: date-filtered orders,
// their payments, and the aggregated totals.
type ReportService interface {
	// DailySales returns the sales report for one calendar day in loc
	// (nil means the server's local time zone). Orders are matched by
	// business date when present, creation timestamp otherwise.
	DailySales(ctx context.Context, orgCode string, day time.Time, loc *time.Location, opts ReportOptions) (*SalesReport, error)
}

type reportService struct {
	pool   *pgxpool.Pool
	orders OrderService
}

func NewReportService(pool *pgxpool.Pool, orders OrderService) ReportService {
	return &reportService{pool: pool, orders: orders}
}

func (s *reportService) DailySales(ctx context.Context, orgCode string, day time.Time, loc *time.Location, opts ReportOptions) (*SalesReport, error) {
	if loc == nil {
		loc = time.Local
	}

	all, err := s.orders.GetOrders(ctx, orgCode, nil)
	if err != nil {
		return nil, err
	}
	orders := FilterByDay(all, day, loc)

	// Concurrent fan-out: payments for every order, items for completed
	// orders (the only ones the revenue aggregates consume). Completion
	// order is unspecified; results land in indexed slots.
	payments := make([][]OrderPayment, len(orders))
	items := make([][]OrderItem, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(paymentFetchConcurrency)
	for i := range orders {
		i := i
		g.Go(func() error {
			p, err := fetchPaymentsQ(gctx, s.pool, orders[i].ID)
			if err != nil {
				return fmt.Errorf("order %s: %w", orders[i].OrderNumber, err)
			}
			payments[i] = p
			return nil
		})
		if orders[i].Status == StatusCompleted {
			g.Go(func() error {
				it, err := fetchOrderItemsQ(gctx, s.pool, orders[i].ID)
				if err != nil {
					return fmt.Errorf("order %s: %w", orders[i].OrderNumber, err)
				}
				items[i] = it
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	paymentsByOrder := make(map[int][]OrderPayment, len(orders))
	for i := range orders {
		orders[i].Items = items[i]
		paymentsByOrder[orders[i].ID] = payments[i]
	}

	return AggregateSales(orders, paymentsByOrder, opts), nil
}
