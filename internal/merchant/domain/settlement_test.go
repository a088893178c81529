package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettlementOrderCommissionAndNet(t *testing.T) {
	deliveredAt := time.Date(2026, 8, 10, 14, 0, 0, 0, time.UTC)
	so := NewSettlementOrder(
		uuid.New(), 101,
		decimal.RequireFromString("10000.00"),
		decimal.RequireFromString("2.50"),
		decimal.RequireFromString("500.00"),
		decimal.Zero,
		decimal.Zero,
		&deliveredAt,
	)

	assert.True(t, so.CommissionAmount.Equal(decimal.RequireFromString("250.00")),
		"commission = %s", so.CommissionAmount)
	// net = 10000 - 250 - 500
	assert.True(t, so.NetAmount.Equal(decimal.RequireFromString("9250.00")),
		"net = %s", so.NetAmount)
}

func TestSettlementAddOrderKeepsNetIdentity(t *testing.T) {
	s := NewSettlement("STL-2026-0001", uuid.New(),
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC))

	orders := []*SettlementOrder{
		NewSettlementOrder(s.ID, 1, decimal.RequireFromString("4000.00"), decimal.RequireFromString("2.00"),
			decimal.Zero, decimal.Zero, decimal.Zero, nil),
		NewSettlementOrder(s.ID, 2, decimal.RequireFromString("6000.00"), decimal.RequireFromString("2.00"),
			decimal.RequireFromString("1000.00"), decimal.Zero, decimal.Zero, nil),
		NewSettlementOrder(s.ID, 3, decimal.RequireFromString("2500.00"), decimal.RequireFromString("2.00"),
			decimal.Zero, decimal.RequireFromString("2500.00"), decimal.Zero, nil),
	}
	for _, so := range orders {
		s.AddOrder(so)
	}

	assert.Equal(t, 3, s.TotalOrders)
	assert.True(t, s.TotalSalesAmount.Equal(decimal.RequireFromString("12500.00")))
	assert.True(t, s.CommissionAmount.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, s.RefundAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, s.ReturnAmount.Equal(decimal.RequireFromString("2500.00")))

	// net = 12500 - 250 - 1000 - 2500
	assert.True(t, s.NetAmount.Equal(decimal.RequireFromString("8750.00")), "net = %s", s.NetAmount)

	// Batch net equals the sum of per-order nets.
	sum := decimal.Zero
	for _, so := range orders {
		sum = sum.Add(so.NetAmount)
	}
	assert.True(t, s.NetAmount.Equal(sum))
}

func TestSettlementAdjustmentFlowsIntoNet(t *testing.T) {
	s := NewSettlement("STL-2026-0002", uuid.New(), time.Now(), time.Now())
	s.TotalSalesAmount = decimal.RequireFromString("5000.00")
	s.CommissionAmount = decimal.RequireFromString("100.00")
	s.AdjustmentAmount = decimal.RequireFromString("75.00")

	assert.True(t, s.ComputeNet().Equal(decimal.RequireFromString("4975.00")))
}

func TestSettlementLifecycle(t *testing.T) {
	s := NewSettlement("STL-2026-0003", uuid.New(), time.Now(), time.Now())
	require.Equal(t, SettlementStatusPending, s.Status)

	require.NoError(t, s.Initiate("001234567890", "HDFC0001234"))
	assert.Equal(t, SettlementStatusProcessing, s.Status)
	require.NotNil(t, s.InitiatedAt)

	require.NoError(t, s.Complete("UTR26082900001"))
	assert.Equal(t, SettlementStatusCompleted, s.Status)
	require.NotNil(t, s.UtrNumber)
	assert.Equal(t, "UTR26082900001", *s.UtrNumber)
	require.NotNil(t, s.CompletedAt)

	// Completed batches stay completed.
	assert.ErrorIs(t, s.Initiate("001234567890", "HDFC0001234"), ErrInvalidSettlementStatus)
	assert.ErrorIs(t, s.Complete("UTR26082900002"), ErrInvalidSettlementStatus)
}

func TestSettlementFailAndRetry(t *testing.T) {
	s := NewSettlement("STL-2026-0004", uuid.New(), time.Now(), time.Now())
	require.NoError(t, s.Initiate("001234567890", "HDFC0001234"))

	nextRetry := time.Now().Add(4 * time.Hour)
	require.NoError(t, s.Fail("beneficiary account frozen", &nextRetry))
	assert.Equal(t, SettlementStatusFailed, s.Status)
	assert.Equal(t, 1, s.RetryCount)
	require.NotNil(t, s.FailureReason)

	require.NoError(t, s.Retry())
	assert.Equal(t, SettlementStatusProcessing, s.Status)
	require.NoError(t, s.Complete("UTR26082900003"))

	// Retry is only valid from failed.
	assert.ErrorIs(t, s.Retry(), ErrInvalidSettlementStatus)
}

func TestSettlementCancelOnlyWhilePending(t *testing.T) {
	s := NewSettlement("STL-2026-0005", uuid.New(), time.Now(), time.Now())
	require.NoError(t, s.Cancel("merchant offboarded"))
	assert.Equal(t, SettlementStatusCancelled, s.Status)

	active := NewSettlement("STL-2026-0006", uuid.New(), time.Now(), time.Now())
	require.NoError(t, active.Initiate("001234567890", "HDFC0001234"))
	assert.ErrorIs(t, active.Cancel("too late"), ErrInvalidSettlementStatus)
}

func TestSettlementStatusEnumClosed(t *testing.T) {
	for _, v := range SettlementStatusValues() {
		assert.True(t, SettlementStatus(v).Valid(), v)
	}
	assert.False(t, SettlementStatus("on_hold").Valid())
}

func TestSettlementDueFollowsCycle(t *testing.T) {
	cfg := &MerchantSettlementConfig{SettlementCycleDays: 3}
	deliveredAt := time.Date(2026, 8, 29, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC), cfg.SettlementDue(deliveredAt))
}
