package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Next(t *testing.T) {
	tests := []struct {
		from   OrderStatus
		action OrderAction
		to     OrderStatus
		ok     bool
	}{
		{OrderStatusPending, OrderActionAccept, OrderStatusAccepted, true},
		{OrderStatusPending, OrderActionReject, OrderStatusCancelled, true},
		{OrderStatusAccepted, OrderActionDispatch, OrderStatusDelivering, true},
		{OrderStatusDelivering, OrderActionDeliver, OrderStatusDelivered, true},
		{OrderStatusPending, OrderActionDispatch, "", false},
		{OrderStatusAccepted, OrderActionReject, "", false},
		{OrderStatusDelivering, OrderActionAccept, "", false},
		{OrderStatusDelivered, OrderActionDeliver, "", false},
		{OrderStatusCancelled, OrderActionAccept, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.action), func(t *testing.T) {
			next, ok := tt.from.Next(tt.action)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.to, next)
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatus("shipped").IsValid())
}

func TestOrder_ApplyFullLifecycle(t *testing.T) {
	order := Order{ID: "o1", Status: OrderStatusPending}

	require.NoError(t, order.Apply(OrderActionAccept))
	require.NoError(t, order.Apply(OrderActionDispatch))
	require.NoError(t, order.Apply(OrderActionDeliver))
	assert.Equal(t, OrderStatusDelivered, order.Status)

	err := order.Apply(OrderActionAccept)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.ErrorContains(t, err, "order o1 is already delivered")
	assert.Equal(t, OrderStatusDelivered, order.Status)
}

func TestOrder_ApplyRejectsOutOfOrderAction(t *testing.T) {
	order := Order{ID: "o2", Status: OrderStatusPending}

	err := order.Apply(OrderActionDeliver)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorContains(t, err, "cannot deliver an order that is pending")
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestOrder_ApplyRejectsBackwardMove(t *testing.T) {
	order := Order{ID: "o2", Status: OrderStatusDelivering}

	err := order.Apply(OrderActionAccept)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, OrderStatusDelivering, order.Status)
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Price: decimal.NewFromInt(80), Quantity: 4}
	assert.True(t, item.Subtotal().Equal(decimal.NewFromInt(320)))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleVendor.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("guest").IsValid())
}
