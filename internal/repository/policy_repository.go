package repository

import (
	"context"
	"fmt"

	"ecoinsure/internal/models"

	"github.com/jmoiron/sqlx"
)

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Create mirrors a bound policy into PostgreSQL. The in-memory lifecycle
// store stays authoritative; this table backs reporting only.
func (r *PolicyRepository) Create(ctx context.Context, p *models.Policy) error {
	query := `
		INSERT INTO policy (id, product_id, product_name, company_name, coverage_amount, premium, status, start_date, end_date)
		VALUES (:id, :product_id, :product_name, :company_name, :coverage_amount, :premium, :status, :start_date, :end_date)
	`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}
	return nil
}

// UpdateStatus mirrors a status transition.
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id string, status models.PolicyStatus) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE policy SET status = $1 WHERE id = $2`, status, id); err != nil {
		return fmt.Errorf("failed to update policy status: %w", err)
	}
	return nil
}

// GetByCompanyName retrieves all policies for a company, newest first.
func (r *PolicyRepository) GetByCompanyName(ctx context.Context, companyName string) ([]models.Policy, error) {
	var policies []models.Policy
	query := `
		SELECT id, product_id, product_name, company_name, coverage_amount, premium, status, start_date, end_date
		FROM policy
		WHERE company_name = $1
		ORDER BY start_date DESC
	`

	if err := r.db.SelectContext(ctx, &policies, query, companyName); err != nil {
		return nil, fmt.Errorf("failed to get policies by company: %w", err)
	}
	return policies, nil
}
