package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ecoinsure/internal/models"
	"ecoinsure/internal/store"

	"github.com/google/uuid"
)

// CarbonLedger is the durable mirror for emission records. Implemented by the
// PostgreSQL repository; tests substitute a stub.
type CarbonLedger interface {
	Create(ctx context.Context, rec *models.CarbonRecord) error
	GetByCompanyID(ctx context.Context, companyID string) ([]models.CarbonRecord, error)
	Delete(ctx context.Context, id string) error
}

// CarbonService owns the emission ledger: the in-memory store is the runtime
// source of truth, and records are mirrored into PostgreSQL where the ledger
// hash is assigned. With no database a record stays pending.
type CarbonService struct {
	records     *store.Store[models.CarbonRecord]
	supplyChain []models.SupplyChainNode

	mu   sync.RWMutex
	repo CarbonLedger
}

func NewCarbonService(records *store.Store[models.CarbonRecord], repo CarbonLedger) *CarbonService {
	return &CarbonService{
		records:     records,
		repo:        repo,
		supplyChain: models.SeedSupplyChain(),
	}
}

// AttachLedger binds the durable mirror once a database connection becomes
// available, e.g. after a background reconnect.
func (s *CarbonService) AttachLedger(repo CarbonLedger) {
	s.mu.Lock()
	s.repo = repo
	s.mu.Unlock()
}

func (s *CarbonService) ledger() CarbonLedger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// AddRecord registers a new emission entry. Backfilled entries are imported
// as already-verified history; everything else enters pending and is promoted
// to verified once the persistence layer assigns the ledger hash.
func (s *CarbonService) AddRecord(ctx context.Context, req models.CreateCarbonRecordRequest) (models.CarbonRecord, error) {
	if req.CompanyID == "" {
		return models.CarbonRecord{}, fmt.Errorf("company id is required")
	}
	if !models.ValidScope(req.Scope) {
		return models.CarbonRecord{}, fmt.Errorf("unknown emission scope %q", req.Scope)
	}
	if req.Amount <= 0 {
		return models.CarbonRecord{}, fmt.Errorf("emission amount must be positive, got %v", req.Amount)
	}

	recordDate := time.Now()
	if req.Date != nil {
		recordDate = *req.Date
	}

	rec := models.CarbonRecord{
		ID:        uuid.NewString(),
		CompanyID: req.CompanyID,
		Date:      recordDate,
		Source:    req.Source,
		Scope:     req.Scope,
		Amount:    req.Amount,
		Status:    models.CarbonPending,
	}
	if req.Backfilled {
		rec.Status = models.CarbonVerified
	}

	if err := s.records.Insert(rec); err != nil {
		return models.CarbonRecord{}, err
	}

	repo := s.ledger()
	if repo == nil {
		slog.Warn("Carbon ledger unavailable, record kept pending", "record_id", rec.ID)
		return rec, nil
	}

	if !req.Backfilled {
		hash := ledgerHash(rec)
		rec.BlockchainHash = &hash
		rec.Status = models.CarbonVerified
	}
	if err := repo.Create(ctx, &rec); err != nil {
		slog.Warn("Failed to persist carbon record, kept pending in memory", "record_id", rec.ID, "error", err)
		fallback, getErr := s.records.Get(rec.ID)
		if getErr != nil {
			return models.CarbonRecord{}, getErr
		}
		return fallback, nil
	}

	return s.records.Update(rec.ID, func(r *models.CarbonRecord) error {
		r.Status = rec.Status
		r.BlockchainHash = rec.BlockchainHash
		return nil
	})
}

// ListByCompany returns the company's emission records, newest first.
func (s *CarbonService) ListByCompany(ctx context.Context, companyID string) ([]models.CarbonRecord, error) {
	out := []models.CarbonRecord{}
	for _, rec := range s.records.List() {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// DeleteRecord removes an emission entry from the ledger and the mirror.
func (s *CarbonService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.records.Delete(id); err != nil {
		return err
	}
	if repo := s.ledger(); repo != nil {
		if err := repo.Delete(ctx, id); err != nil {
			slog.Warn("Failed to delete mirrored carbon record", "record_id", id, "error", err)
		}
	}
	return nil
}

// LedgerHistory returns the durably persisted emission entries for a company
// from the mirror table, independent of the runtime store.
func (s *CarbonService) LedgerHistory(ctx context.Context, companyID string) ([]models.CarbonRecord, error) {
	repo := s.ledger()
	if repo == nil {
		return nil, ErrLedgerUnavailable
	}
	return repo.GetByCompanyID(ctx, companyID)
}

// SupplyChain returns the partner network used as Scope 3 assessment context.
func (s *CarbonService) SupplyChain() []models.SupplyChainNode {
	return s.supplyChain
}

// ledgerHash derives the synthetic on-chain transaction hash recorded on a
// verified emission entry.
func ledgerHash(rec models.CarbonRecord) string {
	sum := sha256.Sum256([]byte(rec.ID + rec.CompanyID + rec.Date.UTC().Format(time.RFC3339)))
	return fmt.Sprintf("0x%x", sum)
}
