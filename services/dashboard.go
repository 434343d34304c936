package services

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/shopspring/decimal"
)

const dashboardDelay = 800 * time.Millisecond

type VendorStats struct {
	Products int             `json:"products"`
	Orders   int             `json:"orders"`
	Pending  int             `json:"pending"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// VendorDashboard is empty, with a nil Shop, for a vendor that has not
// registered a shop yet.
type VendorDashboard struct {
	Shop     *models.Vendor   `json:"shop"`
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
	Stats    VendorStats      `json:"stats"`
}

type AdminStats struct {
	Users   int             `json:"users"`
	Vendors int             `json:"vendors"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Dashboard struct {
	repos *repository.Repositories
	opts  Options
}

func NewDashboard(repos *repository.Repositories, opts Options) *Dashboard {
	return &Dashboard{repos: repos, opts: opts}
}

func (d *Dashboard) ForVendor(ctx context.Context, actor models.User) (VendorDashboard, error) {
	board := VendorDashboard{Products: []models.Product{}, Orders: []models.Order{}, Stats: VendorStats{Revenue: decimal.Zero}}
	if err := requireVendor(actor); err != nil {
		return board, err
	}
	if err := d.opts.Latency.Wait(ctx, dashboardDelay); err != nil {
		return board, err
	}

	shop, err := findShop(ctx, d.repos.Vendors, actor.ID)
	if errors.Is(err, models.ErrNotFound) {
		return board, nil
	}
	if err != nil {
		return board, err
	}
	board.Shop = &shop

	products, err := d.repos.Products.Filter(ctx, func(p models.Product) bool { return p.VendorID == shop.ID })
	if err != nil {
		return board, err
	}
	orders, err := d.repos.Orders.Filter(ctx, func(o models.Order) bool { return o.VendorID == shop.ID })
	if err != nil {
		return board, err
	}

	board.Products = append(board.Products, products...)
	board.Orders = append(board.Orders, orders...)
	board.Stats.Products = len(products)
	board.Stats.Orders = len(orders)
	for _, order := range orders {
		if order.Status == models.OrderStatusPending {
			board.Stats.Pending++
		}
		if order.Status == models.OrderStatusDelivered {
			board.Stats.Revenue = board.Stats.Revenue.Add(order.TotalAmount)
		}
	}
	return board, nil
}

// Admin counts customers, shops and orders. Revenue sums every order total.
func (d *Dashboard) Admin(ctx context.Context) (AdminStats, error) {
	stats := AdminStats{Revenue: decimal.Zero}
	if err := d.opts.Latency.Wait(ctx, dashboardDelay); err != nil {
		return stats, err
	}

	customers, err := d.repos.Users.Filter(ctx, func(u models.User) bool { return u.Role == models.RoleUser })
	if err != nil {
		return stats, err
	}
	vendors, err := d.repos.Vendors.Filter(ctx, repository.All[models.Vendor])
	if err != nil {
		return stats, err
	}
	orders, err := d.repos.Orders.Filter(ctx, repository.All[models.Order])
	if err != nil {
		return stats, err
	}

	stats.Users = len(customers)
	stats.Vendors = len(vendors)
	stats.Orders = len(orders)
	for _, order := range orders {
		stats.Revenue = stats.Revenue.Add(order.TotalAmount)
	}
	return stats, nil
}
