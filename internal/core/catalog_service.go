package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages the product catalog for an organization.
type CatalogService interface {
	CreateProduct(ctx context.Context, orgCode, sku, name string, kind ItemKind, unitPrice decimal.Decimal) (*Product, error)
	GetProducts(ctx context.Context, orgCode string) ([]Product, error)
	GetProduct(ctx context.Context, orgCode, sku string) (*Product, error)
	// DeactivateProduct soft-deletes: the product stays referenced by
	// historical orders and movements but disappears from active lists.
	DeactivateProduct(ctx context.Context, orgCode, sku string) error
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) CreateProduct(ctx context.Context, orgCode, sku, name string, kind ItemKind, unitPrice decimal.Decimal) (*Product, error) {
	if sku == "" || name == "" {
		return nil, fmt.Errorf("sku and name are required")
	}
	if kind != KindProduct && kind != KindService {
		return nil, fmt.Errorf("kind must be %q or %q", KindProduct, KindService)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("unit price cannot be negative")
	}

	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var p Product
	err = s.pool.QueryRow(ctx, `
		INSERT INTO products (org_id, sku, name, kind, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, org_id, sku, name, kind, unit_price, is_active, created_at
	`, orgID, sku, name, kind, unitPrice).Scan(
		&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.Kind, &p.UnitPrice, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product %q: %w", sku, err)
	}
	return &p, nil
}

func (s *catalogService) GetProducts(ctx context.Context, orgCode string) ([]Product, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, org_id, sku, name, kind, unit_price, is_active, created_at
		FROM products
		WHERE org_id = $1 AND is_active = true
		ORDER BY sku
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.Kind, &p.UnitPrice, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, orgCode, sku string) (*Product, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var p Product
	err = s.pool.QueryRow(ctx, `
		SELECT id, org_id, sku, name, kind, unit_price, is_active, created_at
		FROM products
		WHERE org_id = $1 AND sku = $2
	`, orgID, sku).Scan(&p.ID, &p.OrgID, &p.SKU, &p.Name, &p.Kind, &p.UnitPrice, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q not found for organization %s", sku, orgCode)
		}
		return nil, fmt.Errorf("failed to fetch product %q: %w", sku, err)
	}
	return &p, nil
}

func (s *catalogService) DeactivateProduct(ctx context.Context, orgCode, sku string) error {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET is_active = false WHERE org_id = $1 AND sku = $2",
		orgID, sku,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate product %q: %w", sku, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %q not found for organization %s", sku, orgCode)
	}
	return nil
}
