package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"go.uber.org/zap"
)

const listOrdersDelay = 600 * time.Millisecond

type Orders struct {
	orders  repository.Repository[models.Order]
	vendors repository.Repository[models.Vendor]
	opts    Options

	// serializes read-apply-write of a status change
	mu sync.Mutex
}

func NewOrders(orders repository.Repository[models.Order], vendors repository.Repository[models.Vendor], opts Options) *Orders {
	return &Orders{orders: orders, vendors: vendors, opts: opts}
}

// ForUser lists a customer's orders, newest first.
func (o *Orders) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	if err := o.opts.Latency.Wait(ctx, listOrdersDelay); err != nil {
		return nil, err
	}
	return o.orders.Filter(ctx, func(order models.Order) bool { return order.UserID == userID })
}

// ForVendor lists the orders placed with the actor's shop, newest first.
func (o *Orders) ForVendor(ctx context.Context, actor models.User) ([]models.Order, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	shop, err := findShop(ctx, o.vendors, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := o.opts.Latency.Wait(ctx, listOrdersDelay); err != nil {
		return nil, err
	}
	return o.orders.Filter(ctx, func(order models.Order) bool { return order.VendorID == shop.ID })
}

// All lists every order, newest first, optionally only those in status.
func (o *Orders) All(ctx context.Context, status string) ([]models.Order, error) {
	if status == "" {
		return o.orders.Filter(ctx, repository.All[models.Order])
	}
	want := models.OrderStatus(status)
	if !want.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", models.ErrValidation, status)
	}
	return o.orders.Filter(ctx, func(order models.Order) bool { return order.Status == want })
}

// Transition applies a vendor action to one of the vendor's own orders.
// Actions the transition table does not allow leave the order unchanged.
func (o *Orders) Transition(ctx context.Context, actor models.User, orderID string, action models.OrderAction) (models.Order, error) {
	if err := requireVendor(actor); err != nil {
		return models.Order{}, err
	}
	shop, err := findShop(ctx, o.vendors, actor.ID)
	if err != nil {
		return models.Order{}, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	order, err := o.orders.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.VendorID != shop.ID {
		return models.Order{}, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}

	previous := order.Status
	if err := order.Apply(action); err != nil {
		return models.Order{}, err
	}
	if err := o.orders.Update(ctx, order); err != nil {
		return models.Order{}, err
	}

	o.opts.Metrics.OrderTransitioned(string(order.Status))
	o.opts.logger().Info("order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)),
		zap.String("vendor_id", shop.ID),
	)
	return order, nil
}

// ParseAction validates an action name from a request path.
func ParseAction(raw string) (models.OrderAction, error) {
	action := models.OrderAction(raw)
	switch action {
	case models.OrderActionAccept, models.OrderActionReject, models.OrderActionDispatch, models.OrderActionDeliver:
		return action, nil
	}
	return "", fmt.Errorf("%w: unknown order action %q", models.ErrValidation, raw)
}
