package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/goneer-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const seedPassword = "password123"

func seedUsers() []models.User {
	user := func(id, email, name string, role models.Role) models.User {
		return models.User{
			ID:       id,
			Email:    email,
			Password: seedPassword,
			Metadata: datatypes.NewJSONType(models.UserMetadata{FullName: name}),
			Role:     role,
		}
	}
	return []models.User{
		user("user-1", "user@test.com", "Test User", models.RoleUser),
		user("vendor-1", "vendor@test.com", "Test Vendor", models.RoleVendor),
		user("admin-1", "admin@test.com", "Admin User", models.RoleAdmin),
	}
}

func seedProfiles() []models.Profile {
	return []models.Profile{
		{ID: "user-1", FullName: "Test User", Phone: "1234567890", Role: models.RoleUser},
		{ID: "vendor-1", FullName: "Test Vendor", Phone: "9876543210", Role: models.RoleVendor},
		{ID: "admin-1", FullName: "Admin User", Phone: "1122334455", Role: models.RoleAdmin},
	}
}

func seedVendors() []models.Vendor {
	return []models.Vendor{
		{
			ID:       "v1",
			UserID:   "vendor-1",
			ShopName: "Aqua Pure Supplies",
			Address:  "123 Water St, Delhi",
			Rating:   4.8,
			IsOpen:   true,
			ImageURL: "https://images.unsplash.com/photo-1541807353925-5f96944e8574?w=500&auto=format&fit=crop&q=60",
		},
		{
			ID:       "v2",
			UserID:   "vendor-2",
			ShopName: "Himalayan Flow",
			Address:  "456 Mountain Rd, Mumbai",
			Rating:   4.5,
			IsOpen:   true,
			ImageURL: "https://images.unsplash.com/photo-1621250395781-a7b6b3e75E7e?w=500&auto=format&fit=crop&q=60",
		},
	}
}

func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:          "p1",
			VendorID:    "v1",
			Name:        "20L Bisleri Water Jar",
			Description: "Pure mineral water in a 20L jar. Refundable deposit required.",
			Price:       decimal.NewFromInt(80),
			Stock:       50,
			ImageURL:    "https://m.media-amazon.com/images/I/41-j+-4XbSL.jpg",
			IsAvailable: true,
		},
		{
			ID:          "p2",
			VendorID:    "v1",
			Name:        "1L Water Bottle (Case of 12)",
			Description: "Perfect for events and parties.",
			Price:       decimal.NewFromInt(240),
			Stock:       100,
			ImageURL:    "https://m.media-amazon.com/images/I/61Z6y3jXjmL._SL1500_.jpg",
			IsAvailable: true,
		},
		{
			ID:          "p3",
			VendorID:    "v2",
			Name:        "Cooling Water Dispenser",
			Description: "Electric hot and cold water dispenser.",
			Price:       decimal.NewFromInt(3500),
			Stock:       5,
			ImageURL:    "https://m.media-amazon.com/images/I/41K0p5S5HFL.jpg",
			IsAvailable: true,
		},
	}
}

func seedOrders() []models.Order {
	jar := func(orderID string, quantity int) models.OrderItem {
		return models.OrderItem{
			OrderID:   orderID,
			ProductID: "p1",
			Name:      "20L Bisleri Water Jar",
			Price:     decimal.NewFromInt(80),
			Quantity:  quantity,
		}
	}
	return []models.Order{
		{
			ID:              "o1",
			UserID:          "user-1",
			VendorID:        "v1",
			TotalAmount:     decimal.NewFromInt(320),
			Status:          models.OrderStatusDelivered,
			DeliveryAddress: "12 Lake Rd",
			CreatedAt:       time.Date(2023, 10, 25, 10, 0, 0, 0, time.UTC),
			Items:           []models.OrderItem{jar("o1", 4)},
		},
		{
			ID:              "o2",
			UserID:          "user-1",
			VendorID:        "v1",
			TotalAmount:     decimal.NewFromInt(80),
			Status:          models.OrderStatusPending,
			DeliveryAddress: "12 Lake Rd",
			CreatedAt:       time.Date(2023, 10, 26, 14, 30, 0, 0, time.UTC),
			Items:           []models.OrderItem{jar("o2", 1)},
		},
	}
}

func insertAll[T Entity](ctx context.Context, repo Repository[T], items []T) error {
	for _, item := range items {
		if err := repo.Insert(ctx, item); err != nil {
			return fmt.Errorf("seed %s: %w", item.GetID(), err)
		}
	}
	return nil
}

// Seed fills empty collections with the demo marketplace. Collections that
// already hold users are left alone.
func Seed(ctx context.Context, repos *Repositories) error {
	existing, err := repos.Users.Filter(ctx, All[models.User])
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	if err := insertAll(ctx, repos.Users, seedUsers()); err != nil {
		return err
	}
	if err := insertAll(ctx, repos.Profiles, seedProfiles()); err != nil {
		return err
	}
	if err := insertAll(ctx, repos.Vendors, seedVendors()); err != nil {
		return err
	}
	if err := insertAll(ctx, repos.Products, seedProducts()); err != nil {
		return err
	}
	return insertAll(ctx, repos.Orders, seedOrders())
}
