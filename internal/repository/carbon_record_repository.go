package repository

import (
	"context"
	"fmt"

	"ecoinsure/internal/models"

	"github.com/jmoiron/sqlx"
)

type CarbonRecordRepository struct {
	db *sqlx.DB
}

func NewCarbonRecordRepository(db *sqlx.DB) *CarbonRecordRepository {
	return &CarbonRecordRepository{db: db}
}

// Create persists a carbon record, including the ledger hash assigned by the
// service layer.
func (r *CarbonRecordRepository) Create(ctx context.Context, rec *models.CarbonRecord) error {
	query := `
		INSERT INTO carbon_record (id, company_id, record_date, source, scope, amount, status, blockchain_hash)
		VALUES (:id, :company_id, :record_date, :source, :scope, :amount, :status, :blockchain_hash)
	`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("failed to create carbon record: %w", err)
	}
	return nil
}

// GetByCompanyID retrieves all carbon records for a company, newest first.
func (r *CarbonRecordRepository) GetByCompanyID(ctx context.Context, companyID string) ([]models.CarbonRecord, error) {
	var records []models.CarbonRecord
	query := `
		SELECT id, company_id, record_date, source, scope, amount, status, blockchain_hash
		FROM carbon_record
		WHERE company_id = $1
		ORDER BY record_date DESC
	`

	if err := r.db.SelectContext(ctx, &records, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to get carbon records by company id: %w", err)
	}
	return records, nil
}

// Delete removes a carbon record by ID.
func (r *CarbonRecordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM carbon_record WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete carbon record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("carbon record not found")
	}
	return nil
}
