package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kariqs/goneer-api/models"
)

// MemoryRepository keeps entities in an ordered slice. Reads hand out copies.
type MemoryRepository[T Entity] struct {
	mu          sync.RWMutex
	items       []T
	newestFirst bool
}

func NewMemoryRepository[T Entity](opts ...Option) *MemoryRepository[T] {
	o := buildOptions(opts)
	return &MemoryRepository[T]{newestFirst: o.newestFirst}
}

func (r *MemoryRepository[T]) indexOf(id string) int {
	for i, item := range r.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository[T]) Get(_ context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.items[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", models.ErrNotFound, id)
}

func (r *MemoryRepository[T]) Insert(_ context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(entity.GetID()) >= 0 {
		return fmt.Errorf("%w: %s", models.ErrConflict, entity.GetID())
	}
	if r.newestFirst {
		r.items = append([]T{entity}, r.items...)
	} else {
		r.items = append(r.items, entity)
	}
	return nil
}

func (r *MemoryRepository[T]) Update(_ context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(entity.GetID())
	if i < 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, entity.GetID())
	}
	r.items[i] = entity
	return nil
}

func (r *MemoryRepository[T]) Filter(_ context.Context, match func(T) bool) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make([]T, 0, len(r.items))
	for _, item := range r.items {
		if match(item) {
			found = append(found, item)
		}
	}
	return found, nil
}

// Len reports how many entities are stored.
func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
