package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kariqs/goneer-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository persists entities in a SQL table through gorm.
type GormRepository[T Entity] struct {
	db          *gorm.DB
	newestFirst bool
	preloads    []string
}

func NewGormRepository[T Entity](db *gorm.DB, opts ...Option) *GormRepository[T] {
	o := buildOptions(opts)
	return &GormRepository[T]{db: db, newestFirst: o.newestFirst, preloads: o.preloads}
}

func (r *GormRepository[T]) query(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, association := range r.preloads {
		query = query.Preload(association)
	}
	if r.newestFirst {
		query = query.Order("created_at desc")
	}
	return query
}

func (r *GormRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var entity T
	err := r.query(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	return entity, err
}

func (r *GormRepository[T]) Insert(ctx context.Context, entity T) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", entity.GetID()).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", models.ErrConflict, entity.GetID())
	}
	return r.db.WithContext(ctx).Create(&entity).Error
}

func (r *GormRepository[T]) Update(ctx context.Context, entity T) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", entity.GetID()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", models.ErrNotFound, entity.GetID())
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(&entity).Error
}

func (r *GormRepository[T]) Filter(ctx context.Context, match func(T) bool) ([]T, error) {
	var all []T
	if err := r.query(ctx).Find(&all).Error; err != nil {
		return nil, err
	}

	found := make([]T, 0, len(all))
	for _, entity := range all {
		if match(entity) {
			found = append(found, entity)
		}
	}
	return found, nil
}

// NewGorm returns gorm-backed collections sharing one connection.
func NewGorm(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewGormRepository[models.User](db),
		Profiles: NewGormRepository[models.Profile](db),
		Vendors:  NewGormRepository[models.Vendor](db),
		Products: NewGormRepository[models.Product](db),
		Orders:   NewGormRepository[models.Order](db, NewestFirst(), Preload("Items")),
	}
}
