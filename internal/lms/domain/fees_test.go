package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFee(amount string) *LoanFee {
	return NewLoanFee(uuid.New(), uuid.New(), decimal.RequireFromString(amount), time.Now(), time.Now().AddDate(0, 0, 15))
}

func TestLoanFeeOutstandingIdentity(t *testing.T) {
	fee := newTestFee("5000.00")
	assert.True(t, fee.OutstandingAmount.Equal(decimal.RequireFromString("5000.00")))
	assert.Equal(t, FeeStatusApplicable, fee.Status)

	require.NoError(t, fee.RecordPayment(decimal.RequireFromString("1500.00")))
	require.NoError(t, fee.Waive(decimal.RequireFromString("500.00"), "ops", "goodwill"))

	// outstanding = fee - waived - paid, after every mutation
	expected := fee.FeeAmount.Sub(fee.WaivedAmount).Sub(fee.PaidAmount)
	assert.True(t, fee.OutstandingAmount.Equal(expected))
	assert.True(t, fee.OutstandingAmount.Equal(decimal.RequireFromString("3000.00")))
	assert.Equal(t, FeeStatusPartiallyPaid, fee.Status)
}

func TestLoanFeeFullPaymentSettles(t *testing.T) {
	fee := newTestFee("2000.00")
	require.NoError(t, fee.RecordPayment(decimal.RequireFromString("2000.00")))

	assert.True(t, fee.OutstandingAmount.IsZero())
	assert.Equal(t, FeeStatusPaid, fee.Status)

	assert.ErrorIs(t, fee.RecordPayment(decimal.NewFromInt(1)), ErrFeeSettled)
	assert.ErrorIs(t, fee.Waive(decimal.NewFromInt(1), "ops", "late"), ErrFeeSettled)
}

func TestLoanFeeFullWaiver(t *testing.T) {
	fee := newTestFee("750.00")
	require.NoError(t, fee.Waive(decimal.RequireFromString("750.00"), "manager", "hardship"))

	assert.True(t, fee.OutstandingAmount.IsZero())
	assert.Equal(t, FeeStatusWaived, fee.Status)
	require.NotNil(t, fee.WaivedBy)
	assert.Equal(t, "manager", *fee.WaivedBy)
}

func TestLoanFeeRejectsOverpaymentAndOverWaiver(t *testing.T) {
	fee := newTestFee("1000.00")
	assert.ErrorIs(t, fee.RecordPayment(decimal.RequireFromString("1000.01")), ErrFeeOverpayment)
	assert.ErrorIs(t, fee.Waive(decimal.RequireFromString("1000.01"), "ops", "x"), ErrFeeWaiverExceeds)

	// state untouched after rejected mutations
	assert.True(t, fee.OutstandingAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, FeeStatusApplicable, fee.Status)
}

func TestFeeMasterComputeAmount(t *testing.T) {
	flat := &FeeMaster{
		CalculationMethod: FeeCalcFlatAmount,
		FixedAmount:       decimal.NewNullDecimal(decimal.RequireFromString("599.00")),
		IsActive:          true,
	}
	got, err := flat.ComputeAmount(decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("599.00")))

	pct := &FeeMaster{
		CalculationMethod: FeeCalcPercentageOfLoan,
		Rate:              decimal.NewNullDecimal(decimal.RequireFromString("1.5000")),
		IsActive:          true,
	}
	got, err = pct.ComputeAmount(decimal.NewFromInt(500000))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("7500.00")), got.String())
}

func TestFeeMasterComputeAmountErrors(t *testing.T) {
	inactive := &FeeMaster{CalculationMethod: FeeCalcFlatAmount, IsActive: false}
	_, err := inactive.ComputeAmount(decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrFeeMasterInactive)

	noRate := &FeeMaster{CalculationMethod: FeeCalcPercentageOfEmi, IsActive: true}
	_, err = noRate.ComputeAmount(decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, ErrFeeRateUnspecified)
}

func TestFeeStatusEnumClosed(t *testing.T) {
	for _, v := range FeeStatusValues() {
		assert.True(t, FeeStatus(v).Valid(), v)
	}
	assert.False(t, FeeStatus("pending").Valid())

	for _, v := range FeeTypeValues() {
		assert.True(t, FeeType(v).Valid(), v)
	}
	for _, v := range FeeCalculationMethodValues() {
		assert.True(t, FeeCalculationMethod(v).Valid(), v)
	}
}
