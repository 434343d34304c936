package repository

import (
	"context"
	"testing"

	"github.com/Kariqs/goneer-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Vendor]()

	require.NoError(t, repo.Insert(ctx, models.Vendor{ID: "v9", ShopName: "Spring Co"}))

	vendor, err := repo.Get(ctx, "v9")
	require.NoError(t, err)
	assert.Equal(t, "Spring Co", vendor.ShopName)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRepository_InsertDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Vendor]()
	require.NoError(t, repo.Insert(ctx, models.Vendor{ID: "v1"}))

	err := repo.Insert(ctx, models.Vendor{ID: "v1"})

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, repo.Len())
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Vendor]()
	require.NoError(t, repo.Insert(ctx, models.Vendor{ID: "v1", IsOpen: true}))

	require.NoError(t, repo.Update(ctx, models.Vendor{ID: "v1", IsOpen: false}))
	vendor, err := repo.Get(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, vendor.IsOpen)

	err = repo.Update(ctx, models.Vendor{ID: "nope"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository[models.Order](NewestFirst())
	require.NoError(t, repo.Insert(ctx, models.Order{ID: "first"}))
	require.NoError(t, repo.Insert(ctx, models.Order{ID: "second"}))

	orders, err := repo.Filter(ctx, All[models.Order])
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "second", orders[0].ID)
	assert.Equal(t, "first", orders[1].ID)
}

func TestMemoryRepository_Filter(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()
	require.NoError(t, Seed(ctx, repos))

	products, err := repos.Products.Filter(ctx, func(p models.Product) bool { return p.VendorID == "v1" })
	require.NoError(t, err)
	assert.Len(t, products, 2)

	user, err := FindOne(ctx, repos.Users, func(u models.User) bool { return u.Email == "vendor@test.com" })
	require.NoError(t, err)
	assert.Equal(t, "vendor-1", user.ID)
	assert.Equal(t, "Test Vendor", user.FullName())

	_, err = FindOne(ctx, repos.Users, func(u models.User) bool { return u.Email == "ghost@test.com" })
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSeed_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	require.NoError(t, Seed(ctx, repos))
	require.NoError(t, Seed(ctx, repos))

	users, err := repos.Users.Filter(ctx, All[models.User])
	require.NoError(t, err)
	assert.Len(t, users, 3)

	orders, err := repos.Orders.Filter(ctx, All[models.Order])
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
}
