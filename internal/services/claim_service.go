package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ecoinsure/internal/database/minio"
	"ecoinsure/internal/engine"
	"ecoinsure/internal/event"
	"ecoinsure/internal/models"
	"ecoinsure/internal/store"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// EvidenceStore holds claim evidence documents. Implemented by the MinIO
// client; tests substitute a stub.
type EvidenceStore interface {
	UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error
	GetFile(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, bucketName, objectName string) error
}

// ErrInvalidEvidence marks an evidence upload that is not a readable PDF.
var ErrInvalidEvidence = errors.New("evidence document is not a valid PDF")

// ErrStorageUnavailable marks evidence operations attempted without an object
// store connection.
var ErrStorageUnavailable = errors.New("evidence storage unavailable")

// ErrLedgerUnavailable marks history reads attempted without a database
// connection.
var ErrLedgerUnavailable = errors.New("persistence ledger unavailable")

// ClaimService drives the claims workflow: submission through oracle
// pre-review, automated routing, and manual resolution of deferred claims.
type ClaimService struct {
	oracle    RiskOracle
	claims    *store.Store[models.ClaimRecord]
	policies  *store.Store[models.Policy]
	storage   EvidenceStore
	publisher *event.NotificationPublisher
}

func NewClaimService(
	oracle RiskOracle,
	claims *store.Store[models.ClaimRecord],
	policies *store.Store[models.Policy],
	storage EvidenceStore,
	publisher *event.NotificationPublisher,
) *ClaimService {
	return &ClaimService{
		oracle:    oracle,
		claims:    claims,
		policies:  policies,
		storage:   storage,
		publisher: publisher,
	}
}

// SubmitClaim runs the oracle pre-review and routes the claim into its
// lifecycle status in a single step. If the oracle fails, nothing is written:
// the caller retries the whole submission.
func (s *ClaimService) SubmitClaim(ctx context.Context, req models.SubmitClaimRequest) (models.ClaimRecord, error) {
	if _, err := s.policies.Get(req.PolicyID); err != nil {
		return models.ClaimRecord{}, fmt.Errorf("claim references policy %s: %w", req.PolicyID, err)
	}
	if req.Amount <= 0 {
		return models.ClaimRecord{}, fmt.Errorf("claim amount must be positive, got %v", req.Amount)
	}

	verdict, err := s.oracle.AnalyzeClaim(ctx, req.Description, req.EvidenceText)
	if err != nil {
		return models.ClaimRecord{}, err
	}

	claim := engine.NewClaim(req, *verdict, time.Now())
	if err := s.claims.Insert(claim); err != nil {
		return models.ClaimRecord{}, err
	}

	targets := []models.UserRole{models.RoleEnterprise}
	if claim.Status == models.ClaimManualReview {
		targets = []models.UserRole{models.RoleInsurer}
	}
	s.publish(ctx, event.DecisionEvent{
		EventType:   "claim." + string(claim.Status),
		EntityID:    claim.ID,
		Title:       "Claim routed",
		Message:     fmt.Sprintf("Claim on policy %s routed to %s (confidence %.0f)", claim.PolicyID, claim.Status, claim.ConfidenceScore),
		TargetRoles: targets,
		Timestamp:   time.Now(),
	})

	return claim, nil
}

// ResolveManualReview finalizes a deferred claim with the insurer's decision.
func (s *ClaimService) ResolveManualReview(ctx context.Context, id string, req models.ResolveClaimRequest) (models.ClaimRecord, error) {
	now := time.Now()
	claim, err := s.claims.Update(id, func(c *models.ClaimRecord) error {
		return engine.ResolveManualReview(c, req.Decision, req.Reviewer, req.Notes, now)
	})
	if err != nil {
		return models.ClaimRecord{}, err
	}

	s.publish(ctx, event.DecisionEvent{
		EventType:   "claim." + string(claim.Status),
		EntityID:    claim.ID,
		Title:       "Claim resolved",
		Message:     fmt.Sprintf("Manual review by %s: claim %s", req.Reviewer, claim.Status),
		TargetRoles: []models.UserRole{models.RoleEnterprise, models.RoleRegulator},
		Timestamp:   now,
	})

	return claim, nil
}

// AttachEvidence validates and stores a PDF evidence document for a claim,
// recording the object key on the claim record.
func (s *ClaimService) AttachEvidence(ctx context.Context, claimID string, pdf []byte) (models.ClaimRecord, error) {
	if _, err := s.claims.Get(claimID); err != nil {
		return models.ClaimRecord{}, err
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		return models.ClaimRecord{}, fmt.Errorf("%w: missing PDF header", ErrInvalidEvidence)
	}
	if err := api.Validate(bytes.NewReader(pdf), nil); err != nil {
		return models.ClaimRecord{}, fmt.Errorf("%w: %v", ErrInvalidEvidence, err)
	}

	if s.storage == nil {
		return models.ClaimRecord{}, ErrStorageUnavailable
	}

	objectKey := fmt.Sprintf("%s/evidence.pdf", claimID)
	if err := s.storage.UploadBytes(ctx, minio.EvidenceBucket, objectKey, pdf, "application/pdf"); err != nil {
		return models.ClaimRecord{}, err
	}

	claim, err := s.claims.Update(claimID, func(c *models.ClaimRecord) error {
		c.EvidenceObjectKey = &objectKey
		return nil
	})
	if err != nil {
		return models.ClaimRecord{}, err
	}

	slog.Info("Evidence attached to claim", "claim_id", claimID, "object_key", objectKey)
	return claim, nil
}

// EvidenceDocument retrieves a claim's stored evidence PDF for the manual
// reviewer. The caller must close the returned reader.
func (s *ClaimService) EvidenceDocument(ctx context.Context, claimID string) (io.ReadCloser, error) {
	claim, err := s.claims.Get(claimID)
	if err != nil {
		return nil, err
	}
	if claim.EvidenceObjectKey == nil {
		return nil, fmt.Errorf("claim %s has no evidence attached: %w", claimID, store.ErrNotFound)
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	return s.storage.GetFile(ctx, minio.EvidenceBucket, *claim.EvidenceObjectKey)
}

// RemoveEvidence deletes a claim's evidence document and clears the object
// key on the record.
func (s *ClaimService) RemoveEvidence(ctx context.Context, claimID string) (models.ClaimRecord, error) {
	claim, err := s.claims.Get(claimID)
	if err != nil {
		return models.ClaimRecord{}, err
	}
	if claim.EvidenceObjectKey == nil {
		return models.ClaimRecord{}, fmt.Errorf("claim %s has no evidence attached: %w", claimID, store.ErrNotFound)
	}
	if s.storage == nil {
		return models.ClaimRecord{}, ErrStorageUnavailable
	}

	if err := s.storage.DeleteFile(ctx, minio.EvidenceBucket, *claim.EvidenceObjectKey); err != nil {
		return models.ClaimRecord{}, err
	}

	updated, err := s.claims.Update(claimID, func(c *models.ClaimRecord) error {
		c.EvidenceObjectKey = nil
		return nil
	})
	if err != nil {
		return models.ClaimRecord{}, err
	}

	slog.Info("Evidence removed from claim", "claim_id", claimID)
	return updated, nil
}

// GetClaim returns a single claim record.
func (s *ClaimService) GetClaim(id string) (models.ClaimRecord, error) {
	return s.claims.Get(id)
}

// ListClaims returns all claims, newest first, optionally filtered by status.
func (s *ClaimService) ListClaims(status models.ClaimStatus) []models.ClaimRecord {
	all := s.claims.List()
	if status == "" {
		return all
	}
	out := []models.ClaimRecord{}
	for _, c := range all {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

func (s *ClaimService) publish(ctx context.Context, e event.DecisionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish decision event", "event_type", e.EventType, "entity_id", e.EntityID, "error", err)
	}
}
