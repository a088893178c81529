package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftApplication() *LoanApplication {
	return NewLoanApplication(uuid.New(), 1, "APP-2026-000001", "reducing", decimal.NewFromInt(500000), 24)
}

func TestLoanApplicationHappyPath(t *testing.T) {
	app := newDraftApplication()
	assert.Equal(t, ApplicationStatusDraft, app.Status)
	assert.Nil(t, app.SubmittedAt)

	require.NoError(t, app.Submit())
	assert.Equal(t, ApplicationStatusSubmitted, app.Status)
	assert.NotNil(t, app.SubmittedAt)

	reviewer := uuid.New()
	require.NoError(t, app.StartReview(reviewer))
	assert.Equal(t, ApplicationStatusUnderReview, app.Status)
	require.NotNil(t, app.ReviewedBy)
	assert.Equal(t, reviewer, *app.ReviewedBy)

	require.NoError(t, app.RequireKyc())
	require.NoError(t, app.RequireCreditCheck())

	rate := decimal.RequireFromString("12.5000")
	emi := decimal.RequireFromString("23536.74")
	require.NoError(t, app.Approve(decimal.NewFromInt(500000), 24, rate, emi))
	assert.Equal(t, ApplicationStatusApproved, app.Status)
	assert.NotNil(t, app.ApprovedAt)
	require.True(t, app.ApprovedLoanAmount.Valid)
	assert.True(t, app.ApprovedLoanAmount.Decimal.Equal(decimal.NewFromInt(500000)))

	require.NoError(t, app.MarkDisbursed())
	assert.Equal(t, ApplicationStatusDisbursed, app.Status)
}

func TestLoanApplicationApprovedFieldsStayEmptyUntilApproval(t *testing.T) {
	app := newDraftApplication()
	require.NoError(t, app.Submit())
	require.NoError(t, app.StartReview(uuid.New()))

	assert.False(t, app.ApprovedLoanAmount.Valid)
	assert.Nil(t, app.ApprovedTenureMonths)
	assert.False(t, app.ApprovedInterestRate.Valid)
	assert.False(t, app.ApprovedEmiAmount.Valid)
	assert.Nil(t, app.ApprovedAt)
}

func TestLoanApplicationInvalidTransitions(t *testing.T) {
	app := newDraftApplication()

	err := app.MarkDisbursed()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	err = app.Approve(decimal.NewFromInt(100000), 12, decimal.NewFromInt(12), decimal.NewFromInt(8885))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, app.Submit())
	err = app.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLoanApplicationTerminalStatuses(t *testing.T) {
	app := newDraftApplication()
	require.NoError(t, app.Submit())
	require.NoError(t, app.StartReview(uuid.New()))
	require.NoError(t, app.Reject("insufficient collateral"))

	assert.True(t, app.Status.Terminal())
	require.NotNil(t, app.RejectionReason)
	assert.Equal(t, "insufficient collateral", *app.RejectionReason)

	assert.ErrorIs(t, app.Submit(), ErrInvalidTransition)
	assert.ErrorIs(t, app.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, app.MarkDisbursed(), ErrInvalidTransition)
}

func TestLoanApplicationCancelFromAnyNonTerminal(t *testing.T) {
	statuses := []func(app *LoanApplication) error{
		func(app *LoanApplication) error { return nil },
		func(app *LoanApplication) error { return app.Submit() },
		func(app *LoanApplication) error {
			if err := app.Submit(); err != nil {
				return err
			}
			return app.StartReview(uuid.New())
		},
	}
	for _, setup := range statuses {
		app := newDraftApplication()
		require.NoError(t, setup(app))
		require.NoError(t, app.Cancel())
		assert.Equal(t, ApplicationStatusCancelled, app.Status)
	}
}

func TestLoanApplicationApproveRequiresCompleteTerms(t *testing.T) {
	app := newDraftApplication()
	require.NoError(t, app.Submit())
	require.NoError(t, app.StartReview(uuid.New()))

	err := app.Approve(decimal.Zero, 24, decimal.NewFromInt(12), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrMissingApprovalTerms)

	err = app.Approve(decimal.NewFromInt(100000), 0, decimal.NewFromInt(12), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrMissingApprovalTerms)
}

func TestLoanApplicationStatusEnumClosed(t *testing.T) {
	for _, v := range LoanApplicationStatusValues() {
		assert.True(t, LoanApplicationStatus(v).Valid(), v)
	}
	assert.False(t, LoanApplicationStatus("pending_review").Valid())
	assert.False(t, LoanApplicationStatus("").Valid())
}

func TestLtvConfigMaxLoanAgainst(t *testing.T) {
	cfg := &LtvConfig{
		LtvRatio: decimal.RequireFromString("50.00"),
	}
	got := cfg.MaxLoanAgainst(decimal.RequireFromString("1000000.00"))
	assert.True(t, got.Equal(decimal.RequireFromString("500000.00")), got.String())
}

func TestCollateralPledgeValue(t *testing.T) {
	c := &MutualFundCollateral{
		UnitsPledged: decimal.RequireFromString("1234.5678"),
		NavAtPledge:  decimal.RequireFromString("45.6789"),
	}
	// 1234.5678 * 45.6789 = 56393.69907942 rounded to 2 places
	assert.True(t, c.PledgeValue().Equal(decimal.RequireFromString("56393.70")), c.PledgeValue().String())
}
