// Package repository stores the storefront's entities behind a small generic
// interface so the seeded in-memory collections can be swapped for a database.
package repository

import (
	"context"

	"github.com/Kariqs/goneer-api/models"
)

// Entity is anything addressable by a string id.
type Entity interface {
	GetID() string
}

// Repository is the capability set every storage backend provides.
type Repository[T Entity] interface {
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Filter(ctx context.Context, match func(T) bool) ([]T, error)
}

type options struct {
	newestFirst bool
	preloads    []string
}

type Option func(*options)

// NewestFirst makes listings return the most recently inserted entity first.
func NewestFirst() Option {
	return func(o *options) { o.newestFirst = true }
}

// Preload names associations a database backend must load with each entity.
func Preload(associations ...string) Option {
	return func(o *options) { o.preloads = append(o.preloads, associations...) }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// All is a Filter predicate that matches everything.
func All[T Entity](T) bool { return true }

// FindOne returns the first entity matching the predicate.
func FindOne[T Entity](ctx context.Context, repo Repository[T], match func(T) bool) (T, error) {
	var zero T
	found, err := repo.Filter(ctx, match)
	if err != nil {
		return zero, err
	}
	if len(found) == 0 {
		return zero, models.ErrNotFound
	}
	return found[0], nil
}

// Repositories bundles the storefront collections.
type Repositories struct {
	Users    Repository[models.User]
	Profiles Repository[models.Profile]
	Vendors  Repository[models.Vendor]
	Products Repository[models.Product]
	Orders   Repository[models.Order]
}

// NewMemory returns empty in-memory collections.
func NewMemory() *Repositories {
	return &Repositories{
		Users:    NewMemoryRepository[models.User](),
		Profiles: NewMemoryRepository[models.Profile](),
		Vendors:  NewMemoryRepository[models.Vendor](),
		Products: NewMemoryRepository[models.Product](),
		Orders:   NewMemoryRepository[models.Order](NewestFirst()),
	}
}
