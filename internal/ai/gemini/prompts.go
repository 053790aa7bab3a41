package gemini

import (
	"encoding/json"
	"fmt"

	"ecoinsure/internal/models"
)

const carbonRiskPromptTemplate = `You are a carbon compliance risk underwriter for a green insurance platform.

Enterprise: %s (%s)

Emission records (Scope 1/2/3):
%s

Supply chain nodes (Scope 3 context):
%s

Tasks:
1. Analyze the enterprise's emission trend and supply chain risk.
2. Weigh ledger-verified records (status "verified") higher than pending ones when judging compliance risk.
3. Compare against current industry emission standards.

Respond with ONLY a JSON object, no markdown, matching exactly:
{
  "riskLevel": "LOW" | "MEDIUM" | "HIGH",
  "riskScore": <number 0-100>,
  "premiumModifier": <positive number, typically 0.5-2.0>,
  "reasoning": "<text>",
  "suggestions": ["<text>", ...],
  "projectedSavings": <non-negative number>,
  "marketComparison": "<text, optional>"
}`

const claimAnalysisPromptTemplate = `You are a claims adjuster pre-reviewing an insurance claim.

Claim description: %s
Evidence provided: %s

Judge whether the claim is reasonable and whether fraud risk exists. If the
evidence is vague or insufficient, recommend manual review.

Respond with ONLY a JSON object, no markdown, matching exactly:
{
  "isValid": <boolean>,
  "reason": "<text>",
  "confidence": <number 0-100>,
  "recommendedAction": "APPROVE" | "REJECT" | "MANUAL_REVIEW"
}`

const greenCreditPromptTemplate = `You are a green credit officer assessing a loan application.

Enterprise: %s
Requested amount: %.2f
Purpose: %s

Based on the Equator Principles and green finance standards, assess the
enterprise's carbon credit rating (AAA-C) and suggest a loan interest rate
(the baseline rate is 4.5%%). A high rating should earn a visible discount.

Respond with ONLY a JSON object, no markdown, matching exactly:
{
  "carbonCreditRating": "AAA" | "AA" | "A" | "B" | "C",
  "suggestedInterestRate": <number>,
  "analysis": "<text>",
  "riskFactors": ["<text>", ...]
}`

// maxEmissionRecords caps how many records are embedded in a carbon risk
// prompt; the newest entries carry the signal.
const maxEmissionRecords = 15

func buildCarbonRiskPrompt(companyName, industry string, records []models.CarbonRecord, supplyChain []models.SupplyChainNode) (string, error) {
	if len(records) > maxEmissionRecords {
		records = records[:maxEmissionRecords]
	}

	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal emission records: %w", err)
	}
	chainJSON, err := json.Marshal(supplyChain)
	if err != nil {
		return "", fmt.Errorf("marshal supply chain: %w", err)
	}

	return fmt.Sprintf(carbonRiskPromptTemplate, companyName, industry, recordsJSON, chainJSON), nil
}

func buildClaimAnalysisPrompt(description, evidenceText string) string {
	return fmt.Sprintf(claimAnalysisPromptTemplate, description, evidenceText)
}

func buildGreenCreditPrompt(companyName string, amount float64, purpose string) string {
	return fmt.Sprintf(greenCreditPromptTemplate, companyName, amount, purpose)
}
