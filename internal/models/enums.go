package models

type UserRole string

const (
	RoleEnterprise UserRole = "enterprise"
	RoleInsurer    UserRole = "insurer"
	RoleRegulator  UserRole = "regulator"
	RoleBank       UserRole = "bank"
)

type EmissionScope string

const (
	Scope1 EmissionScope = "scope_1"
	Scope2 EmissionScope = "scope_2"
	Scope3 EmissionScope = "scope_3"
)

type CarbonRecordStatus string

const (
	CarbonVerified CarbonRecordStatus = "verified"
	CarbonPending  CarbonRecordStatus = "pending"
	CarbonRejected CarbonRecordStatus = "rejected"
)

type ProductType string

const (
	ProductCarbonLiability ProductType = "carbon_liability"
	ProductEmissionCredit  ProductType = "emission_credit"
	ProductProjectYield    ProductType = "project_yield"
)

type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

type PolicyStatus string

const (
	PolicyPendingReview  PolicyStatus = "pending_review"
	PolicyActive         PolicyStatus = "active"
	PolicyRejected       PolicyStatus = "rejected"
	PolicyExpired        PolicyStatus = "expired"
	PolicyPendingPayment PolicyStatus = "pending_payment"
)

type ClaimStatus string

const (
	ClaimProcessing   ClaimStatus = "processing"
	ClaimApproved     ClaimStatus = "approved"
	ClaimRejected     ClaimStatus = "rejected"
	ClaimManualReview ClaimStatus = "manual_review"
)

type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
)

// RecommendedAction is the oracle's suggested disposition for a claim.
type RecommendedAction string

const (
	ActionApprove      RecommendedAction = "APPROVE"
	ActionReject       RecommendedAction = "REJECT"
	ActionManualReview RecommendedAction = "MANUAL_REVIEW"
)

// CreditRating is a carbon-data-based credit grade for green loans.
type CreditRating string

const (
	RatingAAA CreditRating = "AAA"
	RatingAA  CreditRating = "AA"
	RatingA   CreditRating = "A"
	RatingB   CreditRating = "B"
	RatingC   CreditRating = "C"
)

type SupplyChainRole string

const (
	SupplyChainSupplier    SupplyChainRole = "supplier"
	SupplyChainDistributor SupplyChainRole = "distributor"
	SupplyChainLogistics   SupplyChainRole = "logistics"
)

// ValidScope reports whether s is one of the three emission scopes.
func ValidScope(s EmissionScope) bool {
	switch s {
	case Scope1, Scope2, Scope3:
		return true
	}
	return false
}

// ValidRiskLevel reports whether l is a known oracle risk level.
func ValidRiskLevel(l RiskLevel) bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// ValidRecommendedAction reports whether a is a known oracle claim action.
func ValidRecommendedAction(a RecommendedAction) bool {
	switch a {
	case ActionApprove, ActionReject, ActionManualReview:
		return true
	}
	return false
}

// ValidCreditRating reports whether r is a known carbon credit rating.
func ValidCreditRating(r CreditRating) bool {
	switch r {
	case RatingAAA, RatingAA, RatingA, RatingB, RatingC:
		return true
	}
	return false
}
