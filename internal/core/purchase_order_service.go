package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PurchaseOrderService manages the purchase order lifecycle. Receiving a PO
// records stock movements in the same transaction as the status change.
type PurchaseOrderService interface {
	// CreatePO creates a new draft purchase order with computed line totals.
	CreatePO(ctx context.Context, orgCode string, supplierID int, orderDate string, lines []POLineInput, notes string) (*PurchaseOrder, error)

	// MarkOrdered transitions draft → ordered.
	MarkOrdered(ctx context.Context, poID int) (*PurchaseOrder, error)

	// ReceivePO transitions ordered → received and books positive stock
	// movements for every line via InventoryService.
	ReceivePO(ctx context.Context, poID int, inv InventoryService) (*PurchaseOrder, error)

	// CancelPO transitions draft → cancelled. Ordered and received POs
	// cannot be cancelled.
	CancelPO(ctx context.Context, poID int) (*PurchaseOrder, error)

	GetPO(ctx context.Context, poID int) (*PurchaseOrder, error)
	// GetPOs returns purchase orders for an org, newest first, optionally
	// filtered by status.
	GetPOs(ctx context.Context, orgCode string, status *POStatus) ([]PurchaseOrder, error)
}

type purchaseOrderService struct {
	pool *pgxpool.Pool
}

func NewPurchaseOrderService(pool *pgxpool.Pool) PurchaseOrderService {
	return &purchaseOrderService{pool: pool}
}

// nextPONumber assigns the next PO number for an org off a dedicated sequence row.
func nextPONumber(ctx context.Context, tx pgx.Tx, orgID int) (string, error) {
	var n int64
	err := tx.QueryRow(ctx, `
		INSERT INTO po_sequences (org_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (org_id) DO UPDATE SET last_number = po_sequences.last_number + 1
		RETURNING last_number
	`, orgID).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to advance PO sequence: %w", err)
	}
	return fmt.Sprintf("PO-%06d", n), nil
}

func (s *purchaseOrderService) CreatePO(ctx context.Context, orgCode string, supplierID int, orderDate string, lines []POLineInput, notes string) (*PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("purchase order must have at least one line")
	}
	if orderDate == "" {
		orderDate = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", orderDate); err != nil {
		return nil, fmt.Errorf("invalid order date %q: %w", orderDate, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orgID, _, err := resolveOrg(ctx, tx, orgCode)
	if err != nil {
		return nil, err
	}

	var supplierActive bool
	err = tx.QueryRow(ctx,
		"SELECT is_active FROM suppliers WHERE id = $1 AND org_id = $2",
		supplierID, orgID,
	).Scan(&supplierActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d not found for organization %s", supplierID, orgCode)
		}
		return nil, fmt.Errorf("failed to resolve supplier: %w", err)
	}
	if !supplierActive {
		return nil, fmt.Errorf("supplier %d is inactive", supplierID)
	}

	total := decimal.Zero
	for i, line := range lines {
		if line.Quantity.IsZero() || line.Quantity.IsNegative() {
			return nil, fmt.Errorf("line %d: quantity must be > 0", i+1)
		}
		if line.UnitCost.IsNegative() {
			return nil, fmt.Errorf("line %d: unit cost cannot be negative", i+1)
		}
		var kind ItemKind
		err = tx.QueryRow(ctx,
			"SELECT kind FROM products WHERE id = $1 AND org_id = $2 AND is_active = true",
			line.ProductID, orgID,
		).Scan(&kind)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("line %d: product %d not found for organization %s", i+1, line.ProductID, orgCode)
			}
			return nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
		}
		if kind != KindProduct {
			return nil, fmt.Errorf("line %d: product %d is a service and cannot be purchased into stock", i+1, line.ProductID)
		}
		total = total.Add(line.Quantity.Mul(line.UnitCost))
	}

	poNumber, err := nextPONumber(ctx, tx, orgID)
	if err != nil {
		return nil, err
	}

	var poID int
	err = tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (org_id, supplier_id, po_number, status, order_date, total, notes)
		VALUES ($1, $2, $3, 'draft', $4, $5, $6)
		RETURNING id
	`, orgID, supplierID, poNumber, orderDate, total, notes).Scan(&poID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert purchase order: %w", err)
	}

	for i, line := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO purchase_order_lines (po_id, line_number, product_id, quantity, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, poID, i+1, line.ProductID, line.Quantity, line.UnitCost, line.Quantity.Mul(line.UnitCost))
		if err != nil {
			return nil, fmt.Errorf("failed to insert PO line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit PO creation: %w", err)
	}
	return s.GetPO(ctx, poID)
}

// transition locks the PO row, checks the expected current status, and runs
// apply inside the same transaction.
func (s *purchaseOrderService) transition(ctx context.Context, poID int, from, to POStatus, apply func(tx pgx.Tx, orgID int, poNumber string) error) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orgID int
	var status POStatus
	var poNumber string
	err = tx.QueryRow(ctx,
		"SELECT org_id, status, po_number FROM purchase_orders WHERE id = $1 FOR UPDATE",
		poID,
	).Scan(&orgID, &status, &poNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d not found", poID)
		}
		return nil, fmt.Errorf("failed to fetch purchase order %d: %w", poID, err)
	}
	if status != from {
		return nil, fmt.Errorf("purchase order %s cannot move to %s: status is %s (must be %s)", poNumber, to, status, from)
	}

	if apply != nil {
		if err := apply(tx, orgID, poNumber); err != nil {
			return nil, err
		}
	}

	col := map[POStatus]string{POStatusOrdered: "ordered_at", POStatusReceived: "received_at"}[to]
	query := "UPDATE purchase_orders SET status = $1 WHERE id = $2"
	if col != "" {
		query = fmt.Sprintf("UPDATE purchase_orders SET status = $1, %s = NOW() WHERE id = $2", col)
	}
	if _, err = tx.Exec(ctx, query, to, poID); err != nil {
		return nil, fmt.Errorf("failed to transition purchase order %d: %w", poID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit PO transition: %w", err)
	}
	return s.GetPO(ctx, poID)
}

func (s *purchaseOrderService) MarkOrdered(ctx context.Context, poID int) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, POStatusDraft, POStatusOrdered, nil)
}

func (s *purchaseOrderService) ReceivePO(ctx context.Context, poID int, inv InventoryService) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, POStatusOrdered, POStatusReceived, func(tx pgx.Tx, orgID int, poNumber string) error {
		if inv == nil {
			return nil
		}
		lines, err := fetchPOLinesQ(ctx, tx, poID)
		if err != nil {
			return err
		}
		if err := inv.RecordPurchaseTx(ctx, tx, orgID, poNumber, lines); err != nil {
			return fmt.Errorf("stock receipt failed: %w", err)
		}
		return nil
	})
}

func (s *purchaseOrderService) CancelPO(ctx context.Context, poID int) (*PurchaseOrder, error) {
	return s.transition(ctx, poID, POStatusDraft, POStatusCancelled, nil)
}

func (s *purchaseOrderService) GetPO(ctx context.Context, poID int) (*PurchaseOrder, error) {
	var po PurchaseOrder
	err := s.pool.QueryRow(ctx, `
		SELECT po.id, po.org_id, po.supplier_id, sp.name, po.po_number, po.status,
		       po.order_date::text, po.total, po.notes, po.ordered_at, po.received_at, po.created_at
		FROM purchase_orders po
		JOIN suppliers sp ON sp.id = po.supplier_id
		WHERE po.id = $1
	`, poID).Scan(
		&po.ID, &po.OrgID, &po.SupplierID, &po.SupplierName, &po.PONumber, &po.Status,
		&po.OrderDate, &po.Total, &po.Notes, &po.OrderedAt, &po.ReceivedAt, &po.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("purchase order %d not found", poID)
		}
		return nil, fmt.Errorf("failed to fetch purchase order %d: %w", poID, err)
	}

	lines, err := fetchPOLinesQ(ctx, s.pool, poID)
	if err != nil {
		return nil, err
	}
	po.Lines = lines
	return &po, nil
}

func (s *purchaseOrderService) GetPOs(ctx context.Context, orgCode string, status *POStatus) ([]PurchaseOrder, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT po.id, po.org_id, po.supplier_id, sp.name, po.po_number, po.status,
		       po.order_date::text, po.total, po.notes, po.ordered_at, po.received_at, po.created_at
		FROM purchase_orders po
		JOIN suppliers sp ON sp.id = po.supplier_id
		WHERE po.org_id = $1`
	args := []any{orgID}
	if status != nil {
		query += " AND po.status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY po.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var pos []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.OrgID, &po.SupplierID, &po.SupplierName, &po.PONumber, &po.Status,
			&po.OrderDate, &po.Total, &po.Notes, &po.OrderedAt, &po.ReceivedAt, &po.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		pos = append(pos, po)
	}
	return pos, nil
}

func fetchPOLinesQ(ctx context.Context, q pgxQuerier, poID int) ([]PurchaseOrderLine, error) {
	rows, err := q.Query(ctx, `
		SELECT l.id, l.po_id, l.line_number, l.product_id, p.name, l.quantity, l.unit_cost, l.line_total
		FROM purchase_order_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.po_id = $1
		ORDER BY l.line_number
	`, poID)
	if err != nil {
		return nil, fmt.Errorf("failed to query PO lines: %w", err)
	}
	defer rows.Close()

	var lines []PurchaseOrderLine
	for rows.Next() {
		var l PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.POID, &l.LineNumber, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitCost, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan PO line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, nil
}
