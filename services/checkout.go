package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kariqs/goneer-api/cart"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/session"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const placeOrderDelay = 1500 * time.Millisecond

// OrderNotifier is told about the orders a checkout created.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, user models.User, orders []models.Order) error
}

type Checkout struct {
	orders   repository.Repository[models.Order]
	notifier OrderNotifier
	opts     Options
	now      func() time.Time
}

// NewCheckout builds the checkout service. notifier may be nil.
func NewCheckout(orders repository.Repository[models.Order], notifier OrderNotifier, opts Options) *Checkout {
	return &Checkout{
		orders:   orders,
		notifier: notifier,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Review is what the checkout view shows: the cart awaiting an order, or the
// orders just placed once the cart has been emptied by checkout.
type Review struct {
	Items  []cart.Line     `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Placed []models.Order  `json:"placed,omitempty"`
}

func (c *Checkout) Review(sess *session.Session) (Review, error) {
	basket := sess.Cart()
	if !basket.IsEmpty() {
		return Review{Items: basket.Lines(), Total: basket.Total()}, nil
	}
	if placed := sess.Confirmation(); len(placed) > 0 {
		return Review{Items: []cart.Line{}, Total: decimal.Zero, Placed: placed}, nil
	}
	return Review{}, models.ErrEmptyCart
}

// Partition groups cart lines by vendor, keeping the order in which each
// vendor first appears in the cart.
func Partition(lines []cart.Line) [][]cart.Line {
	index := map[string]int{}
	var groups [][]cart.Line
	for _, line := range lines {
		i, ok := index[line.Product.VendorID]
		if !ok {
			i = len(groups)
			index[line.Product.VendorID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], line)
	}
	return groups
}

// orderSpacing separates the orders of one checkout so that newest-first
// listings agree across backends. Millisecond is the finest MySQL keeps.
const orderSpacing = time.Millisecond

// BuildOrders turns each vendor partition into a pending order. Each order
// is stamped after the one before it.
func BuildOrders(userID, address string, lines []cart.Line, at time.Time) []models.Order {
	groups := Partition(lines)
	orders := make([]models.Order, 0, len(groups))
	for i, group := range groups {
		order := models.Order{
			ID:              "ord-" + uuid.NewString(),
			UserID:          userID,
			VendorID:        group[0].Product.VendorID,
			TotalAmount:     decimal.Zero,
			Status:          models.OrderStatusPending,
			DeliveryAddress: address,
			CreatedAt:       at.Add(time.Duration(i) * orderSpacing),
		}
		for _, line := range group {
			order.TotalAmount = order.TotalAmount.Add(line.Subtotal())
			order.Items = append(order.Items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.Product.ID,
				Name:      line.Product.Name,
				ImageURL:  line.Product.ImageURL,
				Price:     line.Product.Price,
				Quantity:  line.Quantity,
			})
		}
		orders = append(orders, order)
	}
	return orders
}

// PlaceOrder creates one pending order per vendor in the session's cart,
// empties the cart and records the orders as the session's confirmation.
func (c *Checkout) PlaceOrder(ctx context.Context, sess *session.Session, address string) ([]models.Order, error) {
	user, ok := sess.User()
	if !ok {
		return nil, models.ErrUnauthenticated
	}
	basket := sess.Cart()
	if basket.IsEmpty() {
		return nil, models.ErrEmptyCart
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: delivery address is required", models.ErrValidation)
	}

	done, err := sess.Begin("checkout")
	if err != nil {
		return nil, err
	}
	defer done()

	if err := c.opts.Latency.Wait(ctx, placeOrderDelay); err != nil {
		return nil, err
	}

	lines := basket.Lines()
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	orders := BuildOrders(user.ID, address, lines, c.now())
	for _, order := range orders {
		if err := c.orders.Insert(ctx, order); err != nil {
			return nil, fmt.Errorf("save order %s: %w", order.ID, err)
		}
	}

	basket.Clear()
	sess.SetConfirmation(orders)
	c.opts.Metrics.OrderPlaced(len(orders))

	log := c.opts.logger()
	log.Info("orders placed", zap.String("user_id", user.ID), zap.Int("orders", len(orders)))
	if c.notifier != nil {
		if err := c.notifier.OrderPlaced(ctx, user, orders); err != nil {
			log.Warn("order confirmation not sent", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	return orders, nil
}
