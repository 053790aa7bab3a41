package models

import "time"

// CarbonRecord is a single emission entry reported by an enterprise.
// Records enter the system as pending and are marked verified once the
// persistence layer assigns a ledger hash.
type CarbonRecord struct {
	ID             string             `json:"id" db:"id"`
	CompanyID      string             `json:"companyId" db:"company_id"`
	Date           time.Time          `json:"date" db:"record_date"`
	Source         string             `json:"source" db:"source"`
	Scope          EmissionScope      `json:"scope" db:"scope"`
	Amount         float64            `json:"amount" db:"amount"` // tCO2e
	Status         CarbonRecordStatus `json:"status" db:"status"`
	BlockchainHash *string            `json:"blockchainHash,omitempty" db:"blockchain_hash"`
}

// InsuranceProduct is an immutable catalog entry. Products are seeded at
// startup and never user-created.
type InsuranceProduct struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            ProductType `json:"type"`
	BasePremiumRate float64     `json:"basePremiumRate"` // percent
	CoverageLimit   float64     `json:"coverageLimit"`
	Description     string      `json:"description"`
	Features        []string    `json:"features"`
}

// RiskAssessment is the oracle's carbon-risk verdict for a company. It is
// produced once per assessment request and embedded immutably into a policy
// at bind time.
type RiskAssessment struct {
	RiskLevel        RiskLevel `json:"riskLevel"`
	RiskScore        float64   `json:"riskScore"` // 0-100
	PremiumModifier  float64   `json:"premiumModifier"`
	Reasoning        string    `json:"reasoning"`
	Suggestions      []string  `json:"suggestions"`
	ProjectedSavings float64   `json:"projectedSavings"`
	MarketComparison *string   `json:"marketComparison,omitempty"`
}

// ClaimVerdict is the oracle's claim-analysis verdict.
type ClaimVerdict struct {
	IsValid           bool              `json:"isValid"`
	Reason            string            `json:"reason"`
	Confidence        float64           `json:"confidence"` // 0-100
	RecommendedAction RecommendedAction `json:"recommendedAction"`
}

// CreditVerdict is the oracle's green-credit assessment. Advisory only: no
// automatic rule maps the rating to an approval.
type CreditVerdict struct {
	CarbonCreditRating    CreditRating `json:"carbonCreditRating"`
	SuggestedInterestRate float64      `json:"suggestedInterestRate"`
	Analysis              string       `json:"analysis"`
	RiskFactors           []string     `json:"riskFactors"`
}

type Policy struct {
	ID             string          `json:"id" db:"id"`
	ProductID      string          `json:"productId" db:"product_id"`
	ProductName    string          `json:"productName" db:"product_name"`
	CompanyName    string          `json:"companyName" db:"company_name"`
	CoverageAmount float64         `json:"coverageAmount" db:"coverage_amount"`
	Premium        float64         `json:"premium" db:"premium"`
	Status         PolicyStatus    `json:"status" db:"status"`
	StartDate      time.Time       `json:"startDate" db:"start_date"`
	EndDate        time.Time       `json:"endDate" db:"end_date"`
	RiskAssessment *RiskAssessment `json:"riskAssessment,omitempty" db:"-"`
}

type ClaimRecord struct {
	ID                string      `json:"id"`
	PolicyID          string      `json:"policyId"`
	Date              time.Time   `json:"date"`
	Type              ProductType `json:"type"`
	Amount            float64     `json:"amount"`
	Description       string      `json:"description"`
	EvidenceText      string      `json:"evidenceText"`
	EvidenceObjectKey *string     `json:"evidenceObjectKey,omitempty"`
	Status            ClaimStatus `json:"status"`
	AIAnalysis        string      `json:"aiAnalysis"`
	ConfidenceScore   float64     `json:"confidenceScore"`
	ManualReviewer    *string     `json:"manualReviewer,omitempty"`
	ManualReviewDate  *time.Time  `json:"manualReviewDate,omitempty"`
	ManualReviewNotes *string     `json:"manualReviewNotes,omitempty"`
}

type LoanApplication struct {
	ID                    string       `json:"id"`
	CompanyName           string       `json:"companyName"`
	Purpose               string       `json:"purpose"`
	Amount                float64      `json:"amount"`
	TermMonths            int          `json:"termMonths"`
	CarbonCreditRating    CreditRating `json:"carbonCreditRating"`
	SuggestedInterestRate float64      `json:"suggestedInterestRate"`
	Status                LoanStatus   `json:"status"`
	Date                  time.Time    `json:"date"`
	AIAnalysis            string       `json:"aiAnalysis"`
}

// SupplyChainNode is an upstream/downstream partner whose carbon profile
// feeds Scope 3 risk assessment.
type SupplyChainNode struct {
	ID                string                   `json:"id"`
	Name              string                   `json:"name"`
	Role              SupplyChainRole          `json:"role"`
	CarbonRating      string                   `json:"carbonRating"` // A-D audit grade
	LastAuditDate     time.Time                `json:"lastAuditDate"`
	EmissionFactor    float64                  `json:"emissionFactor"`
	BlockchainAddress string                   `json:"blockchainAddress"`
	Verified          bool                     `json:"verified"`
	Transactions      []SupplyChainTransaction `json:"transactions,omitempty"`
}

type SupplyChainTransaction struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"date"`
	Product         string    `json:"product"`
	Amount          string    `json:"amount"`
	CarbonFootprint float64   `json:"carbonFootprint"` // kgCO2e
	Hash            string    `json:"hash"`
}
