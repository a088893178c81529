package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHappyPath(t *testing.T) {
	order := &Order{Status: OrderStatusPending}

	for _, next := range []OrderStatus{
		OrderStatusProcessing,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
	} {
		prev := order.Status
		got, err := order.Transition(next)
		require.NoError(t, err)
		assert.Equal(t, prev, got)
		assert.Equal(t, next, order.Status)
	}

	require.NotNil(t, order.DeliveredAt)

	// Delivered orders can still be returned and then refunded.
	_, err := order.Transition(OrderStatusReturned)
	require.NoError(t, err)
	_, err = order.Transition(OrderStatusRefunded)
	require.NoError(t, err)
	assert.True(t, order.Status.Terminal())
}

func TestOrderInvalidTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusShipped},
		{OrderStatusPending, OrderStatusDelivered},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusProcessing},
		{OrderStatusDelivered, OrderStatusRefunded},
	}
	for _, tc := range cases {
		order := &Order{Status: tc.from}
		_, err := order.Transition(tc.to)
		assert.ErrorIs(t, err, ErrInvalidOrderTransition, "%s -> %s", tc.from, tc.to)
		assert.Equal(t, tc.from, order.Status)
	}
}

func TestOrderTerminalStatusesRejectTransitions(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed} {
		order := &Order{Status: s}
		_, err := order.Transition(OrderStatusProcessing)
		assert.ErrorIs(t, err, ErrOrderTerminal, string(s))
	}
}

func TestOrderCancellableBeforeShipment(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusConfirmed} {
		order := &Order{Status: s}
		_, err := order.Transition(OrderStatusCancelled)
		assert.NoError(t, err, string(s))
	}

	shipped := &Order{Status: OrderStatusShipped}
	_, err := shipped.Transition(OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidOrderTransition)
}

func TestOrderValidateTotals(t *testing.T) {
	order := &Order{
		SubtotalAmount: decimal.RequireFromString("2500.00"),
		DiscountAmount: decimal.RequireFromString("250.00"),
		CouponDiscount: decimal.RequireFromString("100.00"),
		TaxAmount:      decimal.RequireFromString("387.00"),
		ShippingAmount: decimal.RequireFromString("49.00"),
		TotalAmount:    decimal.RequireFromString("2586.00"),
	}
	require.NoError(t, order.ValidateTotals())

	order.TotalAmount = decimal.RequireFromString("2585.99")
	assert.ErrorIs(t, order.ValidateTotals(), ErrOrderTotalsInconsistent)
}

func TestOrderItemValidateLine(t *testing.T) {
	item := &OrderItem{
		Quantity:       3,
		UnitPrice:      decimal.RequireFromString("499.00"),
		TotalPrice:     decimal.RequireFromString("1497.00"),
		DiscountAmount: decimal.RequireFromString("97.00"),
		TaxAmount:      decimal.RequireFromString("252.00"),
		FinalPrice:     decimal.RequireFromString("1652.00"),
	}
	require.NoError(t, item.ValidateLine())

	item.TotalPrice = decimal.RequireFromString("1497.01")
	assert.ErrorIs(t, item.ValidateLine(), ErrOrderTotalsInconsistent)
}

func TestOrderEnumsClosed(t *testing.T) {
	for _, v := range OrderStatusValues() {
		assert.True(t, OrderStatus(v).Valid(), v)
	}
	assert.False(t, OrderStatus("dispatched").Valid())

	for _, v := range PaymentStatusValues() {
		assert.True(t, PaymentStatus(v).Valid(), v)
	}
	assert.False(t, PaymentStatus("authorized").Valid())

	for _, v := range ChannelTypeValues() {
		assert.True(t, ChannelType(v).Valid(), v)
	}
	assert.False(t, ChannelType("kiosk").Valid())

	for _, v := range FulfillmentTypeValues() {
		assert.True(t, FulfillmentType(v).Valid(), v)
	}
	assert.False(t, FulfillmentType("courier").Valid())
}

func TestNewStatusHistoryCarriesBothSides(t *testing.T) {
	h := NewStatusHistory(42, OrderStatusPending, OrderStatusProcessing, nil)
	require.NotNil(t, h.FromStatus)
	assert.Equal(t, "pending", *h.FromStatus)
	assert.Equal(t, "processing", h.ToStatus)
	assert.Equal(t, int64(42), h.OrderID)
}
