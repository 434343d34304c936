package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusDelivering, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports that no action moves the order any further.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderAction is a vendor-facing command that moves an order along its lifecycle.
type OrderAction string

const (
	OrderActionAccept   OrderAction = "accept"
	OrderActionReject   OrderAction = "reject"
	OrderActionDispatch OrderAction = "dispatch"
	OrderActionDeliver  OrderAction = "deliver"
)

type transition struct {
	from   OrderStatus
	action OrderAction
}

var orderTransitions = map[transition]OrderStatus{
	{OrderStatusPending, OrderActionAccept}:     OrderStatusAccepted,
	{OrderStatusPending, OrderActionReject}:     OrderStatusCancelled,
	{OrderStatusAccepted, OrderActionDispatch}:  OrderStatusDelivering,
	{OrderStatusDelivering, OrderActionDeliver}: OrderStatusDelivered,
}

// Next returns the status reached by applying action, or false when the
// transition table has no such edge.
func (s OrderStatus) Next(action OrderAction) (OrderStatus, bool) {
	next, ok := orderTransitions[transition{s, action}]
	return next, ok
}

type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;size:64"`
	UserID          string          `json:"user_id" gorm:"index;size:64"`
	VendorID        string          `json:"vendor_id" gorm:"index;size:64"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2)"`
	Status          OrderStatus     `json:"status" gorm:"size:16"`
	DeliveryAddress string          `json:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (o Order) GetID() string { return o.ID }

// Apply moves the order along the transition table.
func (o *Order) Apply(action OrderAction) error {
	if o.Status.IsTerminal() {
		return fmt.Errorf("%w: order %s is already %s", ErrInvalidTransition, o.ID, o.Status)
	}
	next, ok := o.Status.Next(action)
	if !ok {
		return fmt.Errorf("%w: cannot %s an order that is %s", ErrInvalidTransition, action, o.Status)
	}
	o.Status = next
	return nil
}

type OrderItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	OrderID   string          `json:"-" gorm:"index;size:64"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Quantity  int             `json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
