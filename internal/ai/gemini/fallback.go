package gemini

import "ecoinsure/internal/models"

// Canned verdicts served in offline mode. The shapes match the live oracle
// exactly so downstream routing behaves the same with or without a key.

func fallbackRiskAssessment() *models.RiskAssessment {
	comparison := "Your emission intensity is 5% above the industry average."
	return &models.RiskAssessment{
		RiskLevel:       models.RiskLevelMedium,
		RiskScore:       58,
		PremiumModifier: 1.1,
		Reasoning: "Simulated analysis: Scope 1 emissions are stable, but the supply chain " +
			"(Scope 3) contains a high-risk supplier rated C, raising overall compliance risk.",
		Suggestions: []string{
			"Prefer grade-A rated suppliers in the upstream chain",
			"Increase the share of green electricity in Scope 2 purchases",
		},
		ProjectedSavings: 80000,
		MarketComparison: &comparison,
	}
}

func fallbackClaimVerdict() *models.ClaimVerdict {
	return &models.ClaimVerdict{
		IsValid:           true,
		Reason:            "Simulated analysis: the evidence description is detailed, consistent, and within the covered liability.",
		Confidence:        92,
		RecommendedAction: models.ActionApprove,
	}
}

func fallbackCreditVerdict() *models.CreditVerdict {
	return &models.CreditVerdict{
		CarbonCreditRating:    models.RatingAA,
		SuggestedInterestRate: 3.85,
		Analysis: "The project falls within the green energy category and the enterprise's carbon " +
			"management rating is strong, qualifying for preferential green credit terms.",
		RiskFactors: []string{
			"Long project construction period",
			"Photovoltaic component price volatility",
		},
	}
}
