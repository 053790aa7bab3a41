// Package engine implements the decision-routing rules for claims, policies
// and loans: how an oracle verdict becomes a lifecycle status, and which
// status transitions a human actor may perform afterwards.
package engine

import (
	"errors"
	"fmt"
	"time"

	"ecoinsure/internal/models"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Confidence thresholds for automated claim routing. Rejecting a claim
// requires higher certainty than approving one; anything below either bar
// is deferred to a human reviewer.
const (
	approveConfidenceThreshold = 80
	rejectConfidenceThreshold  = 90
)

// premiumUnitScale converts the percent-rate x coverage-limit product into
// the premium currency unit. The constant is part of the pricing contract.
const premiumUnitScale = 100

// RouteClaim maps an oracle claim verdict to a lifecycle status. The notes
// returned are the oracle's reasoning, recorded on the claim as the AI
// pre-review opinion.
func RouteClaim(v models.ClaimVerdict) (models.ClaimStatus, string) {
	switch {
	case v.RecommendedAction == models.ActionApprove && v.Confidence > approveConfidenceThreshold:
		return models.ClaimApproved, v.Reason
	case v.RecommendedAction == models.ActionReject && v.Confidence > rejectConfidenceThreshold:
		return models.ClaimRejected, v.Reason
	default:
		return models.ClaimManualReview, v.Reason
	}
}

// NewClaim builds a claim record from a submission and its routed verdict.
func NewClaim(req models.SubmitClaimRequest, verdict models.ClaimVerdict, now time.Time) models.ClaimRecord {
	status, notes := RouteClaim(verdict)
	return models.ClaimRecord{
		ID:              uuid.NewString(),
		PolicyID:        req.PolicyID,
		Date:            now,
		Type:            req.Type,
		Amount:          req.Amount,
		Description:     req.Description,
		EvidenceText:    req.EvidenceText,
		Status:          status,
		AIAnalysis:      notes,
		ConfidenceScore: verdict.Confidence,
	}
}

// ResolveManualReview finalizes a claim that automated routing deferred to a
// human. Allowed exactly once, and only from manual_review.
func ResolveManualReview(c *models.ClaimRecord, decision models.ClaimStatus, reviewer, notes string, at time.Time) error {
	if decision != models.ClaimApproved && decision != models.ClaimRejected {
		return fmt.Errorf("resolve claim %s to %q: %w", c.ID, decision, ErrInvalidTransition)
	}
	if c.Status != models.ClaimManualReview {
		return fmt.Errorf("resolve claim %s in status %q: %w", c.ID, c.Status, ErrInvalidTransition)
	}

	c.Status = decision
	c.ManualReviewer = &reviewer
	c.ManualReviewDate = &at
	c.ManualReviewNotes = &notes
	return nil
}

// ComputePremium prices a policy:
// basePremiumRate x premiumModifier x coverageLimit x 100.
func ComputePremium(product models.InsuranceProduct, assessment models.RiskAssessment) float64 {
	return product.BasePremiumRate * assessment.PremiumModifier * product.CoverageLimit * premiumUnitScale
}

// BindPolicy creates a policy from a product and a risk assessment. Binding
// never auto-activates: the policy always starts in pending_review and is
// owned by the insurer role from then on.
func BindPolicy(product models.InsuranceProduct, assessment models.RiskAssessment, companyName string, now time.Time) models.Policy {
	a := assessment
	return models.Policy{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		ProductName:    product.Name,
		CompanyName:    companyName,
		CoverageAmount: product.CoverageLimit,
		Premium:        ComputePremium(product, assessment),
		Status:         models.PolicyPendingReview,
		StartDate:      now,
		EndDate:        now.AddDate(1, 0, 0),
		RiskAssessment: &a,
	}
}

// TransitionPolicy moves a policy out of pending_review. Only active and
// rejected are reachable, and only from pending_review.
func TransitionPolicy(p *models.Policy, next models.PolicyStatus) error {
	if next != models.PolicyActive && next != models.PolicyRejected {
		return fmt.Errorf("transition policy %s to %q: %w", p.ID, next, ErrInvalidTransition)
	}
	if p.Status != models.PolicyPendingReview {
		return fmt.Errorf("transition policy %s from %q: %w", p.ID, p.Status, ErrInvalidTransition)
	}

	p.Status = next
	return nil
}

// NewLoan creates a loan application carrying the oracle's credit verdict as
// advisory data. The application always starts pending; approval is a human
// decision by the bank role.
func NewLoan(req models.ApplyLoanRequest, verdict models.CreditVerdict, now time.Time) models.LoanApplication {
	return models.LoanApplication{
		ID:                    uuid.NewString(),
		CompanyName:           req.CompanyName,
		Purpose:               req.Purpose,
		Amount:                req.Amount,
		TermMonths:            req.TermMonths,
		CarbonCreditRating:    verdict.CarbonCreditRating,
		SuggestedInterestRate: verdict.SuggestedInterestRate,
		Status:                models.LoanPending,
		Date:                  now,
		AIAnalysis:            verdict.Analysis,
	}
}

// TransitionLoan moves a loan out of pending. Only approved and rejected are
// reachable, and only from pending.
func TransitionLoan(l *models.LoanApplication, next models.LoanStatus) error {
	if next != models.LoanApproved && next != models.LoanRejected {
		return fmt.Errorf("transition loan %s to %q: %w", l.ID, next, ErrInvalidTransition)
	}
	if l.Status != models.LoanPending {
		return fmt.Errorf("transition loan %s from %q: %w", l.ID, l.Status, ErrInvalidTransition)
	}

	l.Status = next
	return nil
}
