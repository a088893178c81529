package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyInterest(t *testing.T) {
	// 500000 at 12% for 1 day over a 365-day year: 500000*12/(365*100) = 164.38
	got := DailyInterest(decimal.NewFromInt(500000), decimal.NewFromInt(12), 1, 365)
	assert.True(t, got.Equal(decimal.RequireFromString("164.38")), got.String())

	// 30-day period
	got = DailyInterest(decimal.NewFromInt(500000), decimal.NewFromInt(12), 30, 365)
	assert.True(t, got.Equal(decimal.RequireFromString("4931.51")), got.String())

	// zero outstanding accrues nothing
	got = DailyInterest(decimal.Zero, decimal.NewFromInt(12), 1, 365)
	assert.True(t, got.IsZero())
}

func TestNewInterestAccrual(t *testing.T) {
	accountID := uuid.New()
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	accrual := NewInterestAccrual(accountID, date, decimal.NewFromInt(250000), decimal.RequireFromString("11.5000"), 1, 365)

	assert.Equal(t, accountID, accrual.LoanAccountID)
	assert.Equal(t, date, accrual.AccrualDate)
	assert.False(t, accrual.PostedToLedger)
	// 250000 * 11.5 / 36500 = 78.767... -> 78.77
	assert.True(t, accrual.AccruedInterest.Equal(decimal.RequireFromString("78.77")), accrual.AccruedInterest.String())
}

func TestInterestAccrualMarkPostedOnce(t *testing.T) {
	accrual := NewInterestAccrual(uuid.New(), time.Now(), decimal.NewFromInt(1000), decimal.NewFromInt(10), 1, 365)

	require.NoError(t, accrual.MarkPosted())
	assert.True(t, accrual.PostedToLedger)
	assert.ErrorIs(t, accrual.MarkPosted(), ErrAccrualAlreadyPosted)
}

func TestAccrualRunLogLifecycle(t *testing.T) {
	log := &AccrualRunLog{
		RunDate:   time.Now(),
		Status:    AccrualStatusPending,
		StartedAt: time.Now(),
	}

	log.Complete(120, decimal.RequireFromString("45678.90"))
	assert.Equal(t, AccrualStatusCompleted, log.Status)
	assert.Equal(t, 120, log.LoansProcessed)
	assert.NotNil(t, log.CompletedAt)
	assert.Nil(t, log.ErrorMessage)
}

func TestAccrualRunLogPartialAndFailed(t *testing.T) {
	partial := &AccrualRunLog{Status: AccrualStatusPending}
	partial.CompletePartial(80, decimal.NewFromInt(1000), "3 accounts failed")
	assert.Equal(t, AccrualStatusPartial, partial.Status)
	require.NotNil(t, partial.ErrorMessage)
	assert.Equal(t, "3 accounts failed", *partial.ErrorMessage)

	failed := &AccrualRunLog{Status: AccrualStatusPending}
	failed.Fail("database unavailable")
	assert.Equal(t, AccrualStatusFailed, failed.Status)
	assert.NotNil(t, failed.CompletedAt)
}

func TestLoanAccountApplyPrincipalPayment(t *testing.T) {
	acc := NewLoanAccount(1, 1, "LN-0001", decimal.NewFromInt(100000), decimal.NewFromInt(12), 12,
		time.Now(), decimal.NewFromInt(200000), decimal.NewFromInt(50))

	require.NoError(t, acc.ApplyPrincipalPayment(decimal.NewFromInt(40000)))
	assert.True(t, acc.CurrentOutstanding.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, LoanStatusActive, acc.Status)

	require.NoError(t, acc.ApplyPrincipalPayment(decimal.NewFromInt(60000)))
	assert.True(t, acc.CurrentOutstanding.IsZero())
	assert.Equal(t, LoanStatusFullyPaid, acc.Status)

	assert.ErrorIs(t, acc.ApplyPrincipalPayment(decimal.NewFromInt(1)), ErrAccountNotActive)

	require.NoError(t, acc.Close())
	assert.Equal(t, LoanStatusClosed, acc.Status)
}

func TestLoanAccountForecloseAndRevalue(t *testing.T) {
	acc := NewLoanAccount(2, 2, "LN-0002", decimal.NewFromInt(100000), decimal.NewFromInt(12), 12,
		time.Now(), decimal.NewFromInt(250000), decimal.NewFromInt(40))

	acc.RevalueCollateral(decimal.NewFromInt(200000))
	// 100000 / 200000 * 100 = 50.00
	assert.True(t, acc.CurrentLtv.Equal(decimal.RequireFromString("50.00")), acc.CurrentLtv.String())

	require.NoError(t, acc.Foreclose())
	assert.Equal(t, LoanStatusForeclosed, acc.Status)
	assert.True(t, acc.CurrentOutstanding.IsZero())
	assert.Nil(t, acc.NextEmiDueDate)

	assert.ErrorIs(t, acc.Foreclose(), ErrAccountNotActive)
}

func TestCollectionBucketCoverageAndProvisioning(t *testing.T) {
	bucket := &CollectionBucket{
		BucketCode:             "B1",
		MinDpdDays:             1,
		MaxDpdDays:             30,
		ProvisioningPercentage: decimal.RequireFromString("10.00"),
	}

	assert.True(t, bucket.Covers(1))
	assert.True(t, bucket.Covers(30))
	assert.False(t, bucket.Covers(0))
	assert.False(t, bucket.Covers(31))

	got := bucket.ProvisionFor(decimal.RequireFromString("45000.00"))
	assert.True(t, got.Equal(decimal.RequireFromString("4500.00")), got.String())
}

func TestLoanCollectionStatusOverdueAndBucket(t *testing.T) {
	status := &LoanCollectionStatus{LoanAccountID: uuid.New()}
	status.UpdateOverdue(
		decimal.RequireFromString("30000.00"),
		decimal.RequireFromString("4500.00"),
		decimal.RequireFromString("500.00"),
		45,
	)
	assert.True(t, status.TotalOverdue.Equal(decimal.RequireFromString("35000.00")))
	assert.Equal(t, 45, status.DpdDays)

	bucket := &CollectionBucket{
		ID: uuid.New(), MinDpdDays: 31, MaxDpdDays: 60,
		ProvisioningPercentage: decimal.RequireFromString("20.00"),
	}
	require.NoError(t, status.AssignBucket(bucket))
	assert.True(t, status.Provisioning.Equal(decimal.RequireFromString("7000.00")))

	narrow := &CollectionBucket{ID: uuid.New(), MinDpdDays: 0, MaxDpdDays: 30}
	assert.ErrorIs(t, status.AssignBucket(narrow), ErrDpdOutOfBucketRange)
}
