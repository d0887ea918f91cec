package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService tracks stock as an append-only movement log.
// TX-scoped operations run inside a caller-provided transaction so stock
// changes commit atomically with the order or purchase-order transition
// that caused them.
type InventoryService interface {
	GetStockLevels(ctx context.Context, orgCode string) ([]StockLevel, error)
	// GetMovements returns movements newest first, optionally filtered to
	// one product.
	GetMovements(ctx context.Context, orgCode string, productID *int) ([]StockMovement, error)
	// RecordAdjustment inserts a manual signed correction.
	RecordAdjustment(ctx context.Context, orgCode string, productID int, qty decimal.Decimal, reference string) (*StockMovement, error)

	// RecordSaleTx writes negative movements for the product lines of a
	// completed order. Service lines and ad-hoc lines without a product
	// reference are skipped.
	RecordSaleTx(ctx context.Context, tx pgx.Tx, orgID, orderID int, items []OrderItem) error
	// RecordPurchaseTx writes positive movements for received PO lines.
	RecordPurchaseTx(ctx context.Context, tx pgx.Tx, orgID int, poNumber string, lines []PurchaseOrderLine) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) GetStockLevels(ctx context.Context, orgCode string) ([]StockLevel, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.sku, p.name, COALESCE(SUM(m.quantity), 0)
		FROM products p
		LEFT JOIN stock_movements m ON m.product_id = p.id
		WHERE p.org_id = $1 AND p.kind = 'product' AND p.is_active = true
		GROUP BY p.id, p.sku, p.name
		ORDER BY p.sku
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var sl StockLevel
		if err := rows.Scan(&sl.ProductID, &sl.SKU, &sl.Name, &sl.OnHand); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, sl)
	}
	return levels, nil
}

func (s *inventoryService) GetMovements(ctx context.Context, orgCode string, productID *int) ([]StockMovement, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, org_id, product_id, kind, quantity, reference, created_at
		FROM stock_movements
		WHERE org_id = $1`
	args := []any{orgID}
	if productID != nil {
		query += " AND product_id = $2"
		args = append(args, *productID)
	}
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.OrgID, &m.ProductID, &m.Kind, &m.Quantity, &m.Reference, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, nil
}

func (s *inventoryService) RecordAdjustment(ctx context.Context, orgCode string, productID int, qty decimal.Decimal, reference string) (*StockMovement, error) {
	if qty.IsZero() {
		return nil, fmt.Errorf("adjustment quantity cannot be zero")
	}

	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.pool.QueryRow(ctx,
		"SELECT true FROM products WHERE id = $1 AND org_id = $2 AND kind = 'product'",
		productID, orgID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d not found for organization %s", productID, orgCode)
		}
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}

	var m StockMovement
	err = s.pool.QueryRow(ctx, `
		INSERT INTO stock_movements (org_id, product_id, kind, quantity, reference)
		VALUES ($1, $2, 'adjustment', $3, $4)
		RETURNING id, org_id, product_id, kind, quantity, reference, created_at
	`, orgID, productID, qty, reference).Scan(
		&m.ID, &m.OrgID, &m.ProductID, &m.Kind, &m.Quantity, &m.Reference, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}
	return &m, nil
}

func (s *inventoryService) RecordSaleTx(ctx context.Context, tx pgx.Tx, orgID, orderID int, items []OrderItem) error {
	var orderNumber string
	if err := tx.QueryRow(ctx, "SELECT order_number FROM orders WHERE id = $1", orderID).Scan(&orderNumber); err != nil {
		return fmt.Errorf("failed to resolve order %d for stock deduction: %w", orderID, err)
	}

	for _, item := range items {
		if item.Kind != KindProduct || item.ProductID == nil {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (org_id, product_id, kind, quantity, reference)
			VALUES ($1, $2, 'sale', $3, $4)
		`, orgID, *item.ProductID, item.Quantity.Neg(), orderNumber)
		if err != nil {
			return fmt.Errorf("failed to record sale movement for product %d: %w", *item.ProductID, err)
		}
	}
	return nil
}

func (s *inventoryService) RecordPurchaseTx(ctx context.Context, tx pgx.Tx, orgID int, poNumber string, lines []PurchaseOrderLine) error {
	for _, line := range lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO stock_movements (org_id, product_id, kind, quantity, reference)
			VALUES ($1, $2, 'purchase', $3, $4)
		`, orgID, line.ProductID, line.Quantity, poNumber)
		if err != nil {
			return fmt.Errorf("failed to record purchase movement for product %d: %w", line.ProductID, err)
		}
	}
	return nil
}
