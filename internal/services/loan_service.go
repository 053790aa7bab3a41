package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ecoinsure/internal/engine"
	"ecoinsure/internal/event"
	"ecoinsure/internal/models"
	"ecoinsure/internal/store"
)

// LoanService drives the green credit workflow. The oracle's credit verdict
// is advisory only; every approval or rejection is a bank decision.
type LoanService struct {
	oracle    RiskOracle
	loans     *store.Store[models.LoanApplication]
	publisher *event.NotificationPublisher
}

func NewLoanService(oracle RiskOracle, loans *store.Store[models.LoanApplication], publisher *event.NotificationPublisher) *LoanService {
	return &LoanService{
		oracle:    oracle,
		loans:     loans,
		publisher: publisher,
	}
}

// ApplyLoan runs the credit assessment and records the application as
// pending. An oracle failure writes nothing.
func (s *LoanService) ApplyLoan(ctx context.Context, req models.ApplyLoanRequest) (models.LoanApplication, error) {
	if req.Amount <= 0 {
		return models.LoanApplication{}, fmt.Errorf("loan amount must be positive, got %v", req.Amount)
	}
	if req.TermMonths <= 0 {
		return models.LoanApplication{}, fmt.Errorf("loan term must be positive, got %d months", req.TermMonths)
	}

	verdict, err := s.oracle.AssessGreenCredit(ctx, req.CompanyName, req.Amount, req.Purpose)
	if err != nil {
		return models.LoanApplication{}, err
	}

	loan := engine.NewLoan(req, *verdict, time.Now())
	if err := s.loans.Insert(loan); err != nil {
		return models.LoanApplication{}, err
	}

	s.publish(ctx, event.DecisionEvent{
		EventType:   "loan.applied",
		EntityID:    loan.ID,
		Title:       "New loan application",
		Message:     fmt.Sprintf("%s applied for %.0f over %d months, rated %s", loan.CompanyName, loan.Amount, loan.TermMonths, loan.CarbonCreditRating),
		TargetRoles: []models.UserRole{models.RoleBank},
		Timestamp:   time.Now(),
	})

	return loan, nil
}

// TransitionLoan applies the bank's credit decision.
func (s *LoanService) TransitionLoan(ctx context.Context, id string, next models.LoanStatus) (models.LoanApplication, error) {
	loan, err := s.loans.Update(id, func(l *models.LoanApplication) error {
		return engine.TransitionLoan(l, next)
	})
	if err != nil {
		return models.LoanApplication{}, err
	}

	s.publish(ctx, event.DecisionEvent{
		EventType:   "loan." + string(next),
		EntityID:    loan.ID,
		Title:       "Loan decided",
		Message:     fmt.Sprintf("Application from %s is now %s", loan.CompanyName, loan.Status),
		TargetRoles: []models.UserRole{models.RoleEnterprise},
		Timestamp:   time.Now(),
	})

	return loan, nil
}

// GetLoan returns a single loan application.
func (s *LoanService) GetLoan(id string) (models.LoanApplication, error) {
	return s.loans.Get(id)
}

// ListLoans returns all applications, newest first, optionally filtered by
// company.
func (s *LoanService) ListLoans(companyName string) []models.LoanApplication {
	all := s.loans.List()
	if companyName == "" {
		return all
	}
	out := []models.LoanApplication{}
	for _, l := range all {
		if l.CompanyName == companyName {
			out = append(out, l)
		}
	}
	return out
}

func (s *LoanService) publish(ctx context.Context, e event.DecisionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish decision event", "event_type", e.EventType, "entity_id", e.EntityID, "error", err)
	}
}
