// repository.go - Generic CRUD over any gorm model
//
// Every entity (users, hotels, rooms, bookings) goes through the same
// Repository[T]. Filters are plain column/value equality predicates.

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Filters maps column names to the value they must equal.
type Filters map[string]any

// Repository provides find/add/update/delete for model T.
type Repository[T any] struct {
	db *gorm.DB
}

// New returns a repository for T backed by db.
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

// DB exposes the underlying handle for queries that do not fit the generic set.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// FindOneOrNone returns the first row matching filters, or nil if none does.
func (r *Repository[T]) FindOneOrNone(ctx context.Context, filters Filters) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Where(map[string]any(filters)).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID returns the row with primary key id, or nil if it does not exist.
func (r *Repository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Take(&out, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindAll returns every row matching filters ordered by primary key. Nil filters match all rows.
func (r *Repository[T]) FindAll(ctx context.Context, filters Filters) ([]T, error) {
	out := make([]T, 0)
	q := r.db.WithContext(ctx)
	if len(filters) > 0 {
		q = q.Where(map[string]any(filters))
	}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddOne inserts entity and fills in its generated fields.
func (r *Repository[T]) AddOne(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// UpdateOne applies fields (column -> value) to entity and reloads it.
// A nil fields map saves every field of entity instead.
func (r *Repository[T]) UpdateOne(ctx context.Context, entity *T, fields map[string]any) error {
	db := r.db.WithContext(ctx)
	if fields == nil {
		return db.Save(entity).Error
	}
	if len(fields) == 0 {
		return nil
	}
	if err := db.Model(entity).Updates(fields).Error; err != nil {
		return err
	}
	return db.First(entity).Error
}

// DeleteOne hard-deletes entity.
func (r *Repository[T]) DeleteOne(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Delete(entity).Error
}
