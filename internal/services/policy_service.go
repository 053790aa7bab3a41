package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ecoinsure/internal/engine"
	"ecoinsure/internal/event"
	"ecoinsure/internal/models"
	"ecoinsure/internal/store"
)

// AssessmentCache stores risk verdicts per company/product pair. Implemented
// by the Redis client; tests substitute a stub.
type AssessmentCache interface {
	GetRiskAssessment(ctx context.Context, companyName, productID string) (*models.RiskAssessment, error)
	SetRiskAssessment(ctx context.Context, companyName, productID string, a models.RiskAssessment) error
}

// PolicyMirror is the durable mirror for bound policies. Implemented by the
// PostgreSQL repository; tests substitute a stub.
type PolicyMirror interface {
	Create(ctx context.Context, p *models.Policy) error
	UpdateStatus(ctx context.Context, id string, status models.PolicyStatus) error
	GetByCompanyName(ctx context.Context, companyName string) ([]models.Policy, error)
}

// PolicyService drives the underwriting workflow: risk assessment through the
// oracle, quote binding, and the insurer's review decision. The in-memory
// store is authoritative; PostgreSQL mirroring and decision events are
// best-effort.
type PolicyService struct {
	products  []models.InsuranceProduct
	oracle    RiskOracle
	carbon    *CarbonService
	cache     AssessmentCache
	policies  *store.Store[models.Policy]
	publisher *event.NotificationPublisher

	mu   sync.RWMutex
	repo PolicyMirror
}

func NewPolicyService(
	oracle RiskOracle,
	carbon *CarbonService,
	cache AssessmentCache,
	policies *store.Store[models.Policy],
	repo PolicyMirror,
	publisher *event.NotificationPublisher,
) *PolicyService {
	return &PolicyService{
		products:  models.ProductCatalog(),
		oracle:    oracle,
		carbon:    carbon,
		cache:     cache,
		policies:  policies,
		repo:      repo,
		publisher: publisher,
	}
}

// AttachMirror binds the durable mirror once a database connection becomes
// available, e.g. after a background reconnect.
func (s *PolicyService) AttachMirror(repo PolicyMirror) {
	s.mu.Lock()
	s.repo = repo
	s.mu.Unlock()
}

func (s *PolicyService) mirror() PolicyMirror {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// Products returns the immutable product catalog.
func (s *PolicyService) Products() []models.InsuranceProduct {
	return s.products
}

func (s *PolicyService) productByID(id string) (models.InsuranceProduct, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.InsuranceProduct{}, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
}

// AssessRisk produces a carbon risk verdict for a company against a product.
// Verdicts are cached per company/product pair; cache failures degrade to a
// fresh oracle call.
func (s *PolicyService) AssessRisk(ctx context.Context, req models.AssessRiskRequest) (*models.RiskAssessment, error) {
	if _, err := s.productByID(req.ProductID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetRiskAssessment(ctx, req.CompanyName, req.ProductID)
		if err != nil {
			slog.Warn("Assessment cache read failed", "company", req.CompanyName, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	records, err := s.carbon.ListByCompany(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	assessment, err := s.oracle.AssessCarbonRisk(ctx, req.CompanyName, req.Industry, records, s.carbon.SupplyChain())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRiskAssessment(ctx, req.CompanyName, req.ProductID, *assessment); err != nil {
			slog.Warn("Assessment cache write failed", "company", req.CompanyName, "error", err)
		}
	}
	return assessment, nil
}

// BindPolicy turns an accepted quote into a policy in pending_review. The
// assessment is embedded as-is and never recomputed afterwards.
func (s *PolicyService) BindPolicy(ctx context.Context, req models.BindPolicyRequest) (models.Policy, error) {
	product, err := s.productByID(req.ProductID)
	if err != nil {
		return models.Policy{}, err
	}

	policy := engine.BindPolicy(product, req.Assessment, req.CompanyName, time.Now())
	if err := s.policies.Insert(policy); err != nil {
		return models.Policy{}, err
	}

	if repo := s.mirror(); repo != nil {
		if err := repo.Create(ctx, &policy); err != nil {
			slog.Warn("Failed to mirror policy", "policy_id", policy.ID, "error", err)
		}
	}

	s.publish(ctx, event.DecisionEvent{
		EventType:   "policy.bound",
		EntityID:    policy.ID,
		Title:       "New policy awaiting review",
		Message:     fmt.Sprintf("%s bound %s, premium %.0f", policy.CompanyName, policy.ProductName, policy.Premium),
		TargetRoles: []models.UserRole{models.RoleInsurer},
		Timestamp:   time.Now(),
	})

	return policy, nil
}

// TransitionPolicy applies the insurer's review decision.
func (s *PolicyService) TransitionPolicy(ctx context.Context, id string, next models.PolicyStatus) (models.Policy, error) {
	policy, err := s.policies.Update(id, func(p *models.Policy) error {
		return engine.TransitionPolicy(p, next)
	})
	if err != nil {
		return models.Policy{}, err
	}

	if repo := s.mirror(); repo != nil {
		if err := repo.UpdateStatus(ctx, id, next); err != nil {
			slog.Warn("Failed to mirror policy status", "policy_id", id, "error", err)
		}
	}

	s.publish(ctx, event.DecisionEvent{
		EventType:   "policy." + string(next),
		EntityID:    policy.ID,
		Title:       "Policy reviewed",
		Message:     fmt.Sprintf("Policy for %s is now %s", policy.CompanyName, policy.Status),
		TargetRoles: []models.UserRole{models.RoleEnterprise, models.RoleRegulator},
		Timestamp:   time.Now(),
	})

	return policy, nil
}

// PolicyHistory returns the durably persisted policies for a company from
// the mirror table, independent of the runtime store.
func (s *PolicyService) PolicyHistory(ctx context.Context, companyName string) ([]models.Policy, error) {
	repo := s.mirror()
	if repo == nil {
		return nil, ErrLedgerUnavailable
	}
	return repo.GetByCompanyName(ctx, companyName)
}

// GetPolicy returns a single policy from the lifecycle store.
func (s *PolicyService) GetPolicy(id string) (models.Policy, error) {
	return s.policies.Get(id)
}

// ListPolicies returns all policies, newest first, optionally filtered by
// company.
func (s *PolicyService) ListPolicies(companyName string) []models.Policy {
	all := s.policies.List()
	if companyName == "" {
		return all
	}
	out := []models.Policy{}
	for _, p := range all {
		if p.CompanyName == companyName {
			out = append(out, p)
		}
	}
	return out
}

func (s *PolicyService) publish(ctx context.Context, e event.DecisionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Warn("Failed to publish decision event", "event_type", e.EventType, "entity_id", e.EntityID, "error", err)
	}
}
