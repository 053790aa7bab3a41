package services

import (
	"context"

	"ecoinsure/internal/models"
)

// RiskOracle is the AI verdict source consumed by the workflow services.
// Implemented by the gemini client; tests substitute a stub.
type RiskOracle interface {
	AssessCarbonRisk(ctx context.Context, companyName, industry string, records []models.CarbonRecord, supplyChain []models.SupplyChainNode) (*models.RiskAssessment, error)
	AnalyzeClaim(ctx context.Context, description, evidenceText string) (*models.ClaimVerdict, error)
	AssessGreenCredit(ctx context.Context, companyName string, amount float64, purpose string) (*models.CreditVerdict, error)
}
