package models

import "time"

type CreateCarbonRecordRequest struct {
	CompanyID string        `json:"companyId"`
	Date      *time.Time    `json:"date,omitempty"`
	Source    string        `json:"source"`
	Scope     EmissionScope `json:"scope"`
	Amount    float64       `json:"amount"`
	// Backfilled entries are imported as already-verified history and skip
	// the ledger hashing step.
	Backfilled bool `json:"backfilled,omitempty"`
}

type AssessRiskRequest struct {
	CompanyName string `json:"companyName"`
	Industry    string `json:"industry"`
	ProductID   string `json:"productId"`
}

type BindPolicyRequest struct {
	ProductID   string         `json:"productId"`
	CompanyName string         `json:"companyName"`
	Assessment  RiskAssessment `json:"assessment"`
}

type TransitionPolicyRequest struct {
	Status PolicyStatus `json:"status"`
}

type SubmitClaimRequest struct {
	PolicyID     string      `json:"policyId"`
	Type         ProductType `json:"type"`
	Amount       float64     `json:"amount"`
	Description  string      `json:"description"`
	EvidenceText string      `json:"evidenceText"`
}

type ResolveClaimRequest struct {
	Decision ClaimStatus `json:"decision"`
	Reviewer string      `json:"reviewer"`
	Notes    string      `json:"notes"`
}

type ApplyLoanRequest struct {
	CompanyName string  `json:"companyName"`
	Purpose     string  `json:"purpose"`
	Amount      float64 `json:"amount"`
	TermMonths  int     `json:"termMonths"`
}

type TransitionLoanRequest struct {
	Status LoanStatus `json:"status"`
}
