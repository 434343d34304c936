package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	listVendorsDelay = 800 * time.Millisecond
	vendorDelay      = 500 * time.Millisecond
	addProductDelay  = 600 * time.Millisecond
)

type Catalog struct {
	vendors  repository.Repository[models.Vendor]
	products repository.Repository[models.Product]
	images   storage.ImageStore
	opts     Options
	now      func() time.Time
}

// NewCatalog builds the catalog service. images may be nil, in which case
// image uploads are refused.
func NewCatalog(vendors repository.Repository[models.Vendor], products repository.Repository[models.Product], images storage.ImageStore, opts Options) *Catalog {
	return &Catalog{
		vendors:  vendors,
		products: products,
		images:   images,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListVendors returns every shop for the home view.
func (c *Catalog) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	if err := c.opts.Latency.Wait(ctx, listVendorsDelay); err != nil {
		return nil, err
	}
	return c.vendors.Filter(ctx, repository.All[models.Vendor])
}

// Vendor returns a shop together with the products it currently sells.
func (c *Catalog) Vendor(ctx context.Context, id string) (models.Vendor, []models.Product, error) {
	if err := c.opts.Latency.Wait(ctx, vendorDelay); err != nil {
		return models.Vendor{}, nil, err
	}
	vendor, err := c.vendors.Get(ctx, id)
	if err != nil {
		return models.Vendor{}, nil, err
	}
	products, err := c.products.Filter(ctx, func(p models.Product) bool {
		return p.VendorID == vendor.ID && p.IsAvailable
	})
	if err != nil {
		return models.Vendor{}, nil, err
	}
	return vendor, products, nil
}

// Product returns a product that can be put in a cart.
func (c *Catalog) Product(ctx context.Context, id string) (models.Product, error) {
	product, err := c.products.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !product.IsAvailable {
		return models.Product{}, fmt.Errorf("%w: %s is not available", models.ErrValidation, product.Name)
	}
	return product, nil
}

// AddProduct lists a new product in the actor's shop.
func (c *Catalog) AddProduct(ctx context.Context, actor models.User, data models.ProductData) (models.Product, error) {
	if err := requireVendor(actor); err != nil {
		return models.Product{}, err
	}
	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		return models.Product{}, fmt.Errorf("%w: product name is required", models.ErrValidation)
	}
	if data.Price.IsNegative() {
		return models.Product{}, fmt.Errorf("%w: price must not be negative", models.ErrValidation)
	}
	if data.Stock < 0 {
		return models.Product{}, fmt.Errorf("%w: stock must not be negative", models.ErrValidation)
	}

	shop, err := findShop(ctx, c.vendors, actor.ID)
	if err != nil {
		return models.Product{}, err
	}
	if err := c.opts.Latency.Wait(ctx, addProductDelay); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		ID:          "prod-" + uuid.NewString(),
		VendorID:    shop.ID,
		Name:        data.Name,
		Description: strings.TrimSpace(data.Description),
		Price:       data.Price.Round(2),
		Stock:       data.Stock,
		ImageURL:    strings.TrimSpace(data.ImageURL),
		IsAvailable: true,
		CreatedAt:   c.now(),
	}
	if product.ImageURL == "" {
		product.ImageURL = models.DefaultProductImage
	}
	if err := c.products.Insert(ctx, product); err != nil {
		return models.Product{}, err
	}

	c.opts.logger().Info("product added",
		zap.String("product_id", product.ID),
		zap.String("vendor_id", shop.ID),
	)
	return product, nil
}

// WithdrawProduct takes a product off sale. It stays on the vendor dashboard
// and in existing orders but can no longer be added to a cart.
func (c *Catalog) WithdrawProduct(ctx context.Context, actor models.User, productID string) (models.Product, error) {
	product, err := c.ownedProduct(ctx, actor, productID)
	if err != nil {
		return models.Product{}, err
	}
	if !product.IsAvailable {
		return product, nil
	}
	product.IsAvailable = false
	if err := c.products.Update(ctx, product); err != nil {
		return models.Product{}, err
	}
	c.opts.logger().Info("product withdrawn", zap.String("product_id", product.ID))
	return product, nil
}

// ownedProduct loads a product of the actor's shop. Products of other shops
// are reported as missing.
func (c *Catalog) ownedProduct(ctx context.Context, actor models.User, productID string) (models.Product, error) {
	if err := requireVendor(actor); err != nil {
		return models.Product{}, err
	}
	shop, err := findShop(ctx, c.vendors, actor.ID)
	if err != nil {
		return models.Product{}, err
	}
	product, err := c.products.Get(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}
	if product.VendorID != shop.ID {
		return models.Product{}, fmt.Errorf("%w: product %s", models.ErrNotFound, productID)
	}
	return product, nil
}

// AttachImage stores an uploaded image and points the product at it. Only
// the owning vendor may change a product.
func (c *Catalog) AttachImage(ctx context.Context, actor models.User, productID, filename, contentType string, body io.Reader) (models.Product, error) {
	if c.images == nil {
		return models.Product{}, fmt.Errorf("%w: image uploads are not configured", models.ErrValidation)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.Product{}, fmt.Errorf("%w: %q is not an image", models.ErrValidation, contentType)
	}
	product, err := c.ownedProduct(ctx, actor, productID)
	if err != nil {
		return models.Product{}, err
	}

	key := fmt.Sprintf("products/%s-%s%s", product.ID, uuid.NewString()[:8], strings.ToLower(filepath.Ext(filename)))
	url, err := c.images.Save(ctx, key, contentType, body)
	if err != nil {
		return models.Product{}, fmt.Errorf("save image: %w", err)
	}

	product.ImageURL = url
	if err := c.products.Update(ctx, product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}
