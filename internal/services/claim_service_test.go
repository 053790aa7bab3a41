package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ecoinsure/internal/engine"
	"ecoinsure/internal/models"
	"ecoinsure/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPolicy(t *testing.T, policies *store.Store[models.Policy]) models.Policy {
	t.Helper()
	policy := models.Policy{
		ID:          "pol-1",
		ProductID:   "prod-carbon-liability",
		ProductName: "Carbon Footprint Liability",
		CompanyName: "GreenTech Manufacturing",
		Status:      models.PolicyActive,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(1, 0, 0),
	}
	require.NoError(t, policies.Insert(policy))
	return policy
}

func TestSubmitClaim_HighConfidenceApprovalIsAutoApproved(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "Evidence consistent with reported loss",
		Confidence: 92, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, nil, nil)

	claim, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Type: models.ProductCarbonLiability,
		Amount: 120, Description: "Emission overrun penalty", EvidenceText: "Audit report attached",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, claim.Status)
	assert.Equal(t, 92.0, claim.ConfidenceScore)
	assert.Equal(t, "Evidence consistent with reported loss", claim.AIAnalysis)
	assert.Equal(t, 1, oracle.claimCalls)
}

func TestSubmitClaim_BorderlineConfidenceGoesToManualReview(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "Evidence partially corroborated",
		Confidence: 80, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, nil, nil)

	claim, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "Output shortfall",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ClaimManualReview, claim.Status)
}

func TestSubmitClaim_UnknownPolicyWritesNothing(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "ok", Confidence: 95, RecommendedAction: models.ActionApprove,
	}}
	claims := newClaimStore()
	svc := NewClaimService(oracle, claims, newPolicyStore(), nil, nil)

	_, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "missing", Amount: 50, Description: "x",
	})

	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, claims.Len())
	assert.Zero(t, oracle.claimCalls, "oracle must not be consulted for an unknown policy")
}

func TestSubmitClaim_OracleFailureWritesNothing(t *testing.T) {
	oracle := &stubOracle{err: errors.New("oracle down")}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	claims := newClaimStore()
	svc := NewClaimService(oracle, claims, policies, nil, nil)

	_, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "x",
	})

	require.Error(t, err)
	assert.Zero(t, claims.Len(), "a failed submission must leave no partial claim")
}

func TestResolveManualReview_FinalizesExactlyOnce(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "inconclusive", Confidence: 60, RecommendedAction: models.ActionManualReview,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, nil, nil)

	claim, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "x",
	})
	require.NoError(t, err)
	require.Equal(t, models.ClaimManualReview, claim.Status)

	resolved, err := svc.ResolveManualReview(context.Background(), claim.ID, models.ResolveClaimRequest{
		Decision: models.ClaimApproved, Reviewer: "insurer-1", Notes: "Site visit confirmed the loss",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, resolved.Status)
	require.NotNil(t, resolved.ManualReviewer)
	assert.Equal(t, "insurer-1", *resolved.ManualReviewer)
	assert.NotNil(t, resolved.ManualReviewDate)

	_, err = svc.ResolveManualReview(context.Background(), claim.ID, models.ResolveClaimRequest{
		Decision: models.ClaimRejected, Reviewer: "insurer-2",
	})
	assert.ErrorIs(t, err, engine.ErrInvalidTransition, "a resolved claim must stay resolved")

	final, err := svc.GetClaim(claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, final.Status)
	assert.Equal(t, "insurer-1", *final.ManualReviewer)
}

func TestResolveManualReview_UnknownClaim(t *testing.T) {
	svc := NewClaimService(&stubOracle{}, newClaimStore(), newPolicyStore(), nil, nil)

	_, err := svc.ResolveManualReview(context.Background(), "missing", models.ResolveClaimRequest{
		Decision: models.ClaimApproved, Reviewer: "insurer-1",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAttachEvidence_RejectsNonPDF(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "ok", Confidence: 95, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, nil, nil)

	claim, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "x",
	})
	require.NoError(t, err)

	_, err = svc.AttachEvidence(context.Background(), claim.ID, []byte("not a pdf"))
	assert.ErrorIs(t, err, ErrInvalidEvidence)

	unchanged, err := svc.GetClaim(claim.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.EvidenceObjectKey)
}

func TestEvidenceDocument_DownloadAndRemove(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "ok", Confidence: 95, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	claims := newClaimStore()
	storage := newStubEvidenceStore()
	svc := NewClaimService(oracle, claims, policies, storage, nil)
	ctx := context.Background()

	claim, err := svc.SubmitClaim(ctx, models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "x",
	})
	require.NoError(t, err)

	objectKey := claim.ID + "/evidence.pdf"
	require.NoError(t, storage.UploadBytes(ctx, "claim-evidence", objectKey, []byte("%PDF-1.4 payload"), "application/pdf"))
	_, err = claims.Update(claim.ID, func(c *models.ClaimRecord) error {
		c.EvidenceObjectKey = &objectKey
		return nil
	})
	require.NoError(t, err)

	doc, err := svc.EvidenceDocument(ctx, claim.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(doc)
	require.NoError(t, err)
	require.NoError(t, doc.Close())
	assert.Equal(t, []byte("%PDF-1.4 payload"), data)

	removed, err := svc.RemoveEvidence(ctx, claim.ID)
	require.NoError(t, err)
	assert.Nil(t, removed.EvidenceObjectKey)

	_, err = svc.EvidenceDocument(ctx, claim.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "removed evidence is no longer retrievable")
}

func TestEvidenceDocument_NoEvidenceAttached(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "ok", Confidence: 95, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, newStubEvidenceStore(), nil)

	claim, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{
		PolicyID: "pol-1", Amount: 50, Description: "x",
	})
	require.NoError(t, err)

	_, err = svc.EvidenceDocument(context.Background(), claim.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.RemoveEvidence(context.Background(), claim.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListClaims_FiltersByStatus(t *testing.T) {
	oracle := &stubOracle{claim: models.ClaimVerdict{
		IsValid: true, Reason: "ok", Confidence: 95, RecommendedAction: models.ActionApprove,
	}}
	policies := newPolicyStore()
	seedPolicy(t, policies)
	svc := NewClaimService(oracle, newClaimStore(), policies, nil, nil)

	_, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{PolicyID: "pol-1", Amount: 10, Description: "a"})
	require.NoError(t, err)

	oracle.claim.Confidence = 60
	second, err := svc.SubmitClaim(context.Background(), models.SubmitClaimRequest{PolicyID: "pol-1", Amount: 20, Description: "b"})
	require.NoError(t, err)

	assert.Len(t, svc.ListClaims(""), 2)

	deferred := svc.ListClaims(models.ClaimManualReview)
	require.Len(t, deferred, 1)
	assert.Equal(t, second.ID, deferred[0].ID)
}
