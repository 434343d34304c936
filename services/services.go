// Package services implements the storefront operations that span several
// collections: checkout, order lifecycle, catalog and dashboards.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/goneer-api/metrics"
	"github.com/Kariqs/goneer-api/models"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/Kariqs/goneer-api/utils"
	"go.uber.org/zap"
)

// Options carries the collaborators every service shares.
type Options struct {
	Latency utils.Latency
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// findShop returns the vendor shop owned by userID.
func findShop(ctx context.Context, vendors repository.Repository[models.Vendor], userID string) (models.Vendor, error) {
	shop, err := repository.FindOne(ctx, vendors, func(v models.Vendor) bool { return v.UserID == userID })
	if errors.Is(err, models.ErrNotFound) {
		return models.Vendor{}, fmt.Errorf("%w: no shop registered for %s", models.ErrNotFound, userID)
	}
	return shop, err
}

func requireVendor(actor models.User) error {
	if actor.Role != models.RoleVendor {
		return fmt.Errorf("%w: vendor role required", models.ErrForbidden)
	}
	return nil
}
