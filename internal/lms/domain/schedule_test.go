package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReducingBalanceScheduleChain(t *testing.T) {
	principal := decimal.RequireFromString("500000.00")
	rate := decimal.RequireFromString("12.0000")
	firstDue := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	schedule, err := BuildReducingBalanceSchedule(42, 7, principal, rate, 24, firstDue)
	require.NoError(t, err)
	require.Len(t, schedule, 24)

	assert.True(t, schedule[0].OpeningPrincipal.Equal(principal))

	for i, emi := range schedule {
		assert.Equal(t, i+1, emi.InstallmentNumber)
		assert.Equal(t, EmiStatusScheduled, emi.Status)

		// closing = opening - principal component, every row
		expectedClosing := emi.OpeningPrincipal.Sub(emi.PrincipalAmount)
		assert.True(t, emi.ClosingPrincipal.Equal(expectedClosing),
			"row %d: closing %s != opening %s - principal %s",
			i+1, emi.ClosingPrincipal, emi.OpeningPrincipal, emi.PrincipalAmount)

		// total = principal + interest
		assert.True(t, emi.TotalEmiAmount.Equal(emi.PrincipalAmount.Add(emi.InterestAmount)))

		// next row opens at this row's closing
		if i+1 < len(schedule) {
			assert.True(t, schedule[i+1].OpeningPrincipal.Equal(emi.ClosingPrincipal),
				"row %d opening does not chain", i+2)
		}
	}

	// the final row clears the principal exactly
	last := schedule[len(schedule)-1]
	assert.True(t, last.ClosingPrincipal.IsZero(), "final closing %s", last.ClosingPrincipal)

	// principal components sum back to the disbursed principal
	sum := decimal.Zero
	for _, emi := range schedule {
		sum = sum.Add(emi.PrincipalAmount)
	}
	assert.True(t, sum.Equal(principal), "principal sum %s", sum)
}

func TestBuildReducingBalanceScheduleDueDates(t *testing.T) {
	firstDue := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	schedule, err := BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(120000), decimal.NewFromInt(10), 6, firstDue)
	require.NoError(t, err)

	assert.Equal(t, firstDue, schedule[0].DueDate)
	for i := 1; i < len(schedule); i++ {
		assert.True(t, schedule[i].DueDate.After(schedule[i-1].DueDate))
	}
}

func TestBuildReducingBalanceScheduleZeroRate(t *testing.T) {
	schedule, err := BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(12000), decimal.Zero, 12, time.Now())
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, emi := range schedule {
		assert.True(t, emi.InterestAmount.IsZero())
		assert.True(t, emi.PrincipalAmount.Equal(decimal.NewFromInt(1000)))
	}
	assert.True(t, schedule[11].ClosingPrincipal.IsZero())
}

func TestBuildReducingBalanceScheduleRejectsBadInput(t *testing.T) {
	_, err := BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(1000), decimal.NewFromInt(10), 0, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = BuildReducingBalanceSchedule(1, 1, decimal.Zero, decimal.NewFromInt(10), 12, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(1000), decimal.NewFromInt(-1), 12, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestValidateScheduleChain(t *testing.T) {
	schedule, err := BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(300000), decimal.NewFromInt(11), 18, time.Now())
	require.NoError(t, err)
	assert.NoError(t, ValidateScheduleChain(schedule))

	// A broken link between consecutive rows must be caught.
	schedule[5].OpeningPrincipal = schedule[5].OpeningPrincipal.Add(decimal.NewFromInt(1))
	assert.ErrorIs(t, ValidateScheduleChain(schedule), ErrInvalidSchedule)
}

func TestValidateScheduleChainRejectsNonZeroTail(t *testing.T) {
	schedule, err := BuildReducingBalanceSchedule(1, 1, decimal.NewFromInt(60000), decimal.Zero, 6, time.Now())
	require.NoError(t, err)

	last := schedule[len(schedule)-1]
	last.PrincipalAmount = last.PrincipalAmount.Sub(decimal.NewFromInt(100))
	last.ClosingPrincipal = last.ClosingPrincipal.Add(decimal.NewFromInt(100))
	assert.ErrorIs(t, ValidateScheduleChain(schedule), ErrInvalidSchedule)
}

func TestEmiMarkPaidIsFinal(t *testing.T) {
	emi := &EmiSchedule{TotalEmiAmount: decimal.NewFromInt(1000), Status: EmiStatusScheduled}
	require.NoError(t, emi.MarkPaid(decimal.NewFromInt(1000), time.Now()))
	assert.Equal(t, EmiStatusPaid, emi.Status)

	assert.ErrorIs(t, emi.MarkPaid(decimal.NewFromInt(1000), time.Now()), ErrEmiAlreadyPaid)
	assert.ErrorIs(t, emi.Waive(), ErrEmiAlreadyPaid)
}

func TestEmiPartialPaymentPromotesToFullWhenCovering(t *testing.T) {
	emi := &EmiSchedule{TotalEmiAmount: decimal.NewFromInt(1000), Status: EmiStatusOverdue}
	require.NoError(t, emi.MarkPartiallyPaid(decimal.NewFromInt(400), time.Now()))
	assert.Equal(t, EmiStatusPartiallyPaid, emi.Status)

	require.NoError(t, emi.MarkPartiallyPaid(decimal.NewFromInt(1000), time.Now()))
	assert.Equal(t, EmiStatusPaid, emi.Status)
}

func TestRepaymentValidateComponentSum(t *testing.T) {
	r := &Repayment{
		PaymentAmount:      decimal.RequireFromString("10500.00"),
		PrincipalComponent: decimal.RequireFromString("8000.00"),
		InterestComponent:  decimal.RequireFromString("2000.00"),
		LatePaymentCharges: decimal.RequireFromString("500.00"),
	}
	assert.NoError(t, r.Validate())

	r.LatePaymentCharges = decimal.Zero
	assert.ErrorIs(t, r.Validate(), ErrRepaymentInvalid)
}
