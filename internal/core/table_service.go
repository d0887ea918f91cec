package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TableService manages dining table occupancy. It is deliberately decoupled
// from order status reconciliation: callers release a table by table ID when
// an order reaches a terminal status.
type TableService interface {
	CreateTable(ctx context.Context, orgCode, label string) (*DiningTable, error)
	GetTables(ctx context.Context, orgCode string) ([]DiningTable, error)
	// Occupy attaches an order to a free table.
	Occupy(ctx context.Context, tableID, orderID int) (*DiningTable, error)
	// Release frees the table regardless of the attached order's state.
	// Releasing a free table is a no-op.
	Release(ctx context.Context, tableID int) (*DiningTable, error)
}

type tableService struct {
	pool *pgxpool.Pool
}

func NewTableService(pool *pgxpool.Pool) TableService {
	return &tableService{pool: pool}
}

func (s *tableService) CreateTable(ctx context.Context, orgCode, label string) (*DiningTable, error) {
	if label == "" {
		return nil, fmt.Errorf("table label is required")
	}

	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var t DiningTable
	err = s.pool.QueryRow(ctx, `
		INSERT INTO dining_tables (org_id, label)
		VALUES ($1, $2)
		RETURNING id, org_id, label, occupied, current_order_id, created_at
	`, orgID, label).Scan(&t.ID, &t.OrgID, &t.Label, &t.Occupied, &t.CurrentOrderID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create table %q: %w", label, err)
	}
	return &t, nil
}

func (s *tableService) GetTables(ctx context.Context, orgCode string) ([]DiningTable, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, org_id, label, occupied, current_order_id, created_at
		FROM dining_tables
		WHERE org_id = $1
		ORDER BY label
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []DiningTable
	for rows.Next() {
		var t DiningTable
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Label, &t.Occupied, &t.CurrentOrderID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func (s *tableService) Occupy(ctx context.Context, tableID, orderID int) (*DiningTable, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var occupied bool
	err = tx.QueryRow(ctx,
		"SELECT occupied FROM dining_tables WHERE id = $1 FOR UPDATE", tableID,
	).Scan(&occupied)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table %d not found", tableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}
	if occupied {
		return nil, fmt.Errorf("table %d is already occupied", tableID)
	}

	if _, err = tx.Exec(ctx,
		"UPDATE dining_tables SET occupied = true, current_order_id = $1 WHERE id = $2",
		orderID, tableID,
	); err != nil {
		return nil, fmt.Errorf("failed to occupy table %d: %w", tableID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit table occupancy: %w", err)
	}
	return s.getTable(ctx, tableID)
}

func (s *tableService) Release(ctx context.Context, tableID int) (*DiningTable, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE dining_tables SET occupied = false, current_order_id = NULL WHERE id = $1",
		tableID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to release table %d: %w", tableID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("table %d not found", tableID)
	}
	return s.getTable(ctx, tableID)
}

func (s *tableService) getTable(ctx context.Context, tableID int) (*DiningTable, error) {
	var t DiningTable
	err := s.pool.QueryRow(ctx, `
		SELECT id, org_id, label, occupied, current_order_id, created_at
		FROM dining_tables WHERE id = $1
	`, tableID).Scan(&t.ID, &t.OrgID, &t.Label, &t.Occupied, &t.CurrentOrderID, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table %d: %w", tableID, err)
	}
	return &t, nil
}
