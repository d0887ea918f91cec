package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerInput holds the fields required to create a customer.
type CustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CustomerService manages customer master records.
type CustomerService interface {
	CreateCustomer(ctx context.Context, orgCode string, input CustomerInput) (*Customer, error)
	GetCustomers(ctx context.Context, orgCode string) ([]Customer, error)
	GetCustomer(ctx context.Context, customerID int) (*Customer, error)
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

func (s *customerService) CreateCustomer(ctx context.Context, orgCode string, input CustomerInput) (*Customer, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}

	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	var c Customer
	err = s.pool.QueryRow(ctx, `
		INSERT INTO customers (org_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, org_id, name, email, phone, address, created_at
	`, orgID, input.Name, input.Email, input.Phone, input.Address).Scan(
		&c.ID, &c.OrgID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) GetCustomers(ctx context.Context, orgCode string) ([]Customer, error) {
	orgID, _, err := resolveOrg(ctx, s.pool, orgCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, org_id, name, email, phone, address, created_at
		FROM customers
		WHERE org_id = $1
		ORDER BY name
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx, `
		SELECT id, org_id, name, email, phone, address, created_at
		FROM customers WHERE id = $1
	`, customerID).Scan(&c.ID, &c.OrgID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %d not found", customerID)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", customerID, err)
	}
	return &c, nil
}
