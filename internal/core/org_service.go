package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrgService manages organizations (tenants) and the superadmin purge.
type OrgService interface {
	CreateOrganization(ctx context.Context, orgCode, name, currency string, defaultTaxRate decimal.Decimal) (*Organization, error)
	GetOrganization(ctx context.Context, orgCode string) (*Organization, error)
	GetOrganizations(ctx context.Context) ([]Organization, error)

	// PurgeOrganization deletes every record belonging to the tenant and
	// finally the organization row itself, all inside one transaction.
	// Either everything is removed or nothing is: a failure rolls the
	// whole purge back, so no orphaned partial state can persist. The
	// returned error names the table at which the sequence stopped.
	PurgeOrganization(ctx context.Context, orgCode string) error
}

type orgService struct {
	pool *pgxpool.Pool
}

func NewOrgService(pool *pgxpool.Pool) OrgService {
	return &orgService{pool: pool}
}

func (s *orgService) CreateOrganization(ctx context.Context, orgCode, name, currency string, defaultTaxRate decimal.Decimal) (*Organization, error) {
	if orgCode == "" || name == "" {
		return nil, fmt.Errorf("org code and name are required")
	}
	if currency == "" {
		currency = "USD"
	}
	if defaultTaxRate.IsNegative() {
		return nil, fmt.Errorf("default tax rate cannot be negative")
	}

	var org Organization
	err := s.pool.QueryRow(ctx, `
		INSERT INTO organizations (org_code, name, currency, default_tax_rate)
		VALUES ($1, $2, $3, $4)
		RETURNING id, org_code, name, currency, default_tax_rate, created_at
	`, orgCode, name, currency, defaultTaxRate).Scan(
		&org.ID, &org.OrgCode, &org.Name, &org.Currency, &org.DefaultTaxRate, &org.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization %q: %w", orgCode, err)
	}
	return &org, nil
}

func (s *orgService) GetOrganization(ctx context.Context, orgCode string) (*Organization, error) {
	var org Organization
	err := s.pool.QueryRow(ctx, `
		SELECT id, org_code, name, currency, default_tax_rate, created_at
		FROM organizations WHERE org_code = $1
	`, orgCode).Scan(&org.ID, &org.OrgCode, &org.Name, &org.Currency, &org.DefaultTaxRate, &org.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("organization %s not found", orgCode)
		}
		return nil, fmt.Errorf("failed to fetch organization %s: %w", orgCode, err)
	}
	return &org, nil
}

func (s *orgService) GetOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, org_code, name, currency, default_tax_rate, created_at
		FROM organizations
		ORDER BY org_code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.OrgCode, &org.Name, &org.Currency, &org.DefaultTaxRate, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// purgeSteps lists the per-table delete statements in dependency order:
// children before parents, so foreign keys never block a later step.
var purgeSteps = []struct {
	table string
	query string
}{
	{"order_payments", "DELETE FROM order_payments WHERE org_id = $1"},
	{"order_items", "DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE org_id = $1)"},
	{"orders", "DELETE FROM orders WHERE org_id = $1"},
	{"order_sequences", "DELETE FROM order_sequences WHERE org_id = $1"},
	{"stock_movements", "DELETE FROM stock_movements WHERE org_id = $1"},
	{"purchase_order_lines", "DELETE FROM purchase_order_lines WHERE po_id IN (SELECT id FROM purchase_orders WHERE org_id = $1)"},
	{"purchase_orders", "DELETE FROM purchase_orders WHERE org_id = $1"},
	{"po_sequences", "DELETE FROM po_sequences WHERE org_id = $1"},
	{"suppliers", "DELETE FROM suppliers WHERE org_id = $1"},
	{"dining_tables", "DELETE FROM dining_tables WHERE org_id = $1"},
	{"customers", "DELETE FROM customers WHERE org_id = $1"},
	{"products", "DELETE FROM products WHERE org_id = $1"},
	{"organizations", "DELETE FROM organizations WHERE id = $1"},
}

func (s *orgService) PurgeOrganization(ctx context.Context, orgCode string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin purge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orgID, _, err := resolveOrg(ctx, tx, orgCode)
	if err != nil {
		return err
	}

	for i, step := range purgeSteps {
		if _, err := tx.Exec(ctx, step.query, orgID); err != nil {
			return fmt.Errorf("purge of organization %s aborted at step %d (table %s), no data was removed: %w",
				orgCode, i+1, step.table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit purge of organization %s: %w", orgCode, err)
	}
	return nil
}
