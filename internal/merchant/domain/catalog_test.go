package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantStockReserveAndRelease(t *testing.T) {
	v := &ProductVariant{StockAvailable: 10, LowStockThreshold: 5}

	require.NoError(t, v.ReserveStock(4))
	assert.Equal(t, 6, v.StockAvailable)
	assert.False(t, v.LowOnStock())

	require.NoError(t, v.ReserveStock(1))
	assert.True(t, v.LowOnStock())

	err := v.ReserveStock(6)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 5, v.StockAvailable, "failed reservation must not touch stock")

	v.ReleaseStock(3)
	assert.Equal(t, 8, v.StockAvailable)
}

func TestChannelPricingRequiresSingleTarget(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	p := &ProductChannelPricing{ProductID: &productID}
	require.NoError(t, p.Validate())

	p.ProductVariantID = &variantID
	assert.Error(t, p.Validate())

	empty := &ProductChannelPricing{}
	assert.Error(t, empty.Validate())
}

func TestChannelPricingEffectiveWindow(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()

	p := &ProductChannelPricing{
		ProductID:     &productID,
		Channel:       "online",
		Price:         decimal.RequireFromString("899.00"),
		EffectiveFrom: from,
		EffectiveTo:   &to,
		IsActive:      true,
	}

	assert.False(t, p.EffectiveAt(from.Add(-time.Second)))
	assert.True(t, p.EffectiveAt(from))
	assert.True(t, p.EffectiveAt(from.AddDate(0, 0, 15)))
	assert.False(t, p.EffectiveAt(to), "window end is exclusive")

	p.EffectiveTo = nil
	assert.True(t, p.EffectiveAt(to.AddDate(1, 0, 0)), "open-ended window")

	p.IsActive = false
	assert.False(t, p.EffectiveAt(from.AddDate(0, 0, 15)))
}

func TestEmiPlanAcceptsAmount(t *testing.T) {
	plan := &EmiPlan{
		MinAmount: decimal.RequireFromString("5000.00"),
		MaxAmount: decimal.RequireFromString("200000.00"),
		IsActive:  true,
	}

	assert.True(t, plan.AcceptsAmount(decimal.RequireFromString("5000.00")))
	assert.True(t, plan.AcceptsAmount(decimal.RequireFromString("200000.00")))
	assert.False(t, plan.AcceptsAmount(decimal.RequireFromString("4999.99")))
	assert.False(t, plan.AcceptsAmount(decimal.RequireFromString("200000.01")))

	plan.IsActive = false
	assert.False(t, plan.AcceptsAmount(decimal.RequireFromString("10000.00")))
}

func TestQrCodeUsability(t *testing.T) {
	now := time.Now()
	later := now.Add(time.Hour)
	earlier := now.Add(-time.Hour)

	open := &QrCode{IsActive: true}
	assert.True(t, open.Usable(now), "no expiry means always usable while active")

	live := &QrCode{IsActive: true, ExpiresAt: &later}
	assert.True(t, live.Usable(now))

	expired := &QrCode{IsActive: true, ExpiresAt: &earlier}
	assert.False(t, expired.Usable(now))

	live.Deactivate()
	assert.False(t, live.Usable(now))
}

func TestAnalyticsDailyRecomputeDerived(t *testing.T) {
	row := &MerchantAnalyticsDaily{
		TotalOrders:    40,
		TotalSales:     decimal.RequireFromString("100000.00"),
		TotalRefunds:   decimal.RequireFromString("2500.00"),
		UniqueVisitors: 800,
	}
	row.RecomputeDerived()

	assert.True(t, row.NetSales.Equal(decimal.RequireFromString("97500.00")))
	assert.True(t, row.AverageOrderValue.Equal(decimal.RequireFromString("2500.00")))
	// 40 orders out of 800 visitors.
	assert.True(t, row.ConversionRate.Equal(decimal.RequireFromString("5.00")),
		"conversion = %s", row.ConversionRate)
}

func TestAnalyticsDailyRecomputeDerivedZeroDenominators(t *testing.T) {
	row := &MerchantAnalyticsDaily{
		TotalSales:   decimal.RequireFromString("0.00"),
		TotalRefunds: decimal.Zero,
	}
	row.RecomputeDerived()

	assert.True(t, row.AverageOrderValue.IsZero())
	assert.True(t, row.ConversionRate.IsZero())
}

func TestMerchantActivation(t *testing.T) {
	m := NewMerchant("Acme Retail", "acme-retail")
	assert.False(t, m.IsActive)

	m.Activate()
	assert.True(t, m.IsActive)

	m.Deactivate()
	assert.False(t, m.IsActive)
}
