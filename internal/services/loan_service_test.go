package services

import (
	"context"
	"errors"
	"testing"

	"ecoinsure/internal/engine"
	"ecoinsure/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreditVerdict() models.CreditVerdict {
	return models.CreditVerdict{
		CarbonCreditRating:    models.RatingAA,
		SuggestedInterestRate: 3.85,
		Analysis:              "Strong verified emission reduction trend",
		RiskFactors:           []string{"Scope 3 supplier data partially unaudited"},
	}
}

func TestApplyLoan_AlwaysStartsPending(t *testing.T) {
	oracle := &stubOracle{credit: testCreditVerdict()}
	oracle.credit.CarbonCreditRating = models.RatingAAA // even top-rated applicants wait for the bank
	svc := NewLoanService(oracle, newLoanStore(), nil)

	loan, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Purpose: "Rooftop solar installation",
		Amount: 500000, TermMonths: 36,
	})

	require.NoError(t, err)
	assert.Equal(t, models.LoanPending, loan.Status)
	assert.Equal(t, models.RatingAAA, loan.CarbonCreditRating)
	assert.Equal(t, 3.85, loan.SuggestedInterestRate)
	assert.Equal(t, "Strong verified emission reduction trend", loan.AIAnalysis)
}

func TestApplyLoan_OracleFailureWritesNothing(t *testing.T) {
	loans := newLoanStore()
	svc := NewLoanService(&stubOracle{err: errors.New("oracle down")}, loans, nil)

	_, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 500000, TermMonths: 36,
	})

	require.Error(t, err)
	assert.Zero(t, loans.Len())
}

func TestApplyLoan_RejectsNonPositiveAmountAndTerm(t *testing.T) {
	oracle := &stubOracle{credit: testCreditVerdict()}
	svc := NewLoanService(oracle, newLoanStore(), nil)

	_, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 0, TermMonths: 36,
	})
	require.Error(t, err)

	_, err = svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 500000, TermMonths: -1,
	})
	require.Error(t, err)
	assert.Zero(t, oracle.creditCalls)
}

func TestTransitionLoan_DecidedExactlyOnce(t *testing.T) {
	svc := NewLoanService(&stubOracle{credit: testCreditVerdict()}, newLoanStore(), nil)

	loan, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 500000, TermMonths: 36,
	})
	require.NoError(t, err)

	approved, err := svc.TransitionLoan(context.Background(), loan.ID, models.LoanApproved)
	require.NoError(t, err)
	assert.Equal(t, models.LoanApproved, approved.Status)

	_, err = svc.TransitionLoan(context.Background(), loan.ID, models.LoanRejected)
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)

	got, err := svc.GetLoan(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanApproved, got.Status)
}

func TestTransitionLoan_PendingIsNotAValidTarget(t *testing.T) {
	svc := NewLoanService(&stubOracle{credit: testCreditVerdict()}, newLoanStore(), nil)

	loan, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 500000, TermMonths: 36,
	})
	require.NoError(t, err)

	_, err = svc.TransitionLoan(context.Background(), loan.ID, models.LoanPending)
	assert.ErrorIs(t, err, engine.ErrInvalidTransition)
}

func TestListLoans_NewestFirstAndFiltered(t *testing.T) {
	svc := NewLoanService(&stubOracle{credit: testCreditVerdict()}, newLoanStore(), nil)

	first, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "GreenTech Manufacturing", Amount: 100000, TermMonths: 12,
	})
	require.NoError(t, err)
	second, err := svc.ApplyLoan(context.Background(), models.ApplyLoanRequest{
		CompanyName: "Solaris Energy", Amount: 200000, TermMonths: 24,
	})
	require.NoError(t, err)

	all := svc.ListLoans("")
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest application listed first")
	assert.Equal(t, first.ID, all[1].ID)

	filtered := svc.ListLoans("Solaris Energy")
	require.Len(t, filtered, 1)
	assert.Equal(t, second.ID, filtered[0].ID)
}
