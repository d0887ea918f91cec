package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SupplierInput holds the fields required to create a supplier.
type SupplierInput struct {
	Name    string
	Contact string
	Email   string
	Phone   string
}

// SupplierService manages supplier master records.
type SupplierService interface {
	CreateSupplier(ctx context.Context, orgCode string, input SupplierInput) (*Supplier, error)
	GetSuppliers(ctx context.Context, orgCode string) ([]Supplier, error)
	GetSupplier(ctx context.Context, supplierID int) (*Supplier, error)
	DeactivateSupplier(ctx context.Context, supplierID int) error
}

type supplierService struct {
	pool *pgxpool.Pool
}

func NewSupplierService(pool *pgxpool.Pool) SupplierService {
	return &supplierService{pool: pool}
}

func (s *supplierService) CreateSupplier(ctx context.Context, orgCode string, input SupplierInput) (*Supplier, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var sp Supplier
	err = s.pool.QueryRow(ctx, `
		INSERT INTO suppliers (org_id, name, contact, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, org_id, name, contact, email, phone, is_active, created_at
	`, orgID, input.Name, input.Contact, input.Email, input.Phone).Scan(
		&sp.ID, &sp.OrgID, &sp.Name, &sp.Contact, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}
	return &sp, nil
}

func (s *supplierService) GetSuppliers(ctx context.Context, orgCode string) ([]Supplier, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, org_id, name, contact, email, phone, is_active, created_at
		FROM suppliers
		WHERE org_id = $1 AND is_active = true
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.OrgID, &sp.Name, &sp.Contact, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, sp)
	}
	return suppliers, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, supplierID int) (*Supplier, error) {
	var sp Supplier
	err := s.pool.QueryRow(ctx, `
		SELECT id, org_id, name, contact, email, phone, is_active, created_at
		FROM suppliers WHERE id = $1
	`, supplierID).Scan(&sp.ID, &sp.OrgID, &sp.Name, &sp.Contact, &sp.Email, &sp.Phone, &sp.IsActive, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("supplier %d not found", supplierID)
		}
		return nil, fmt.Errorf("failed to fetch supplier %d: %w", supplierID, err)
	}
	return &sp, nil
}

func (s *supplierService) DeactivateSupplier(ctx context.Context, supplierID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE suppliers SET is_active = false WHERE id = $1", supplierID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate supplier %d: %w", supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier %d not found", supplierID)
	}
	return nil
}
