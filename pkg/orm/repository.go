// Package orm provides a generic GORM repository with the four operations
// every admin entity needs.
//
//	foods := orm.NewRepository[models.Food](db)
//	list, err := foods.List(ctx)
package orm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

// Repository persists T in its table. T must be a GORM model with an
// integer primary key named id.
type Repository[T any] struct {
	db    *gorm.DB
	table string
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	var zero T
	table := ""
	if tn, ok := any(&zero).(schema.Tabler); ok {
		table = tn.TableName()
	} else if stmt := (&gorm.Statement{DB: db}); stmt.Parse(&zero) == nil {
		table = stmt.Schema.Table
	}
	return &Repository[T]{db: db, table: table}
}

func (r *Repository[T]) Table() string { return r.table }

func (r *Repository[T]) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

// Create inserts v and fills generated columns (id, created_at).
func (r *Repository[T]) Create(ctx context.Context, v *T) error {
	defer metrics.ObserveDBQuery(r.table, "insert", time.Now())
	return r.db.WithContext(ctx).Create(v).Error
}

// List returns every row in primary key order.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	defer metrics.ObserveDBQuery(r.table, "select", time.Now())
	out := []T{}
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns (nil, nil) when id does not exist.
func (r *Repository[T]) Find(ctx context.Context, id uint) (*T, error) {
	defer metrics.ObserveDBQuery(r.table, "select", time.Now())
	return r.find(r.db.WithContext(ctx), id)
}

// Update applies fields to row id and returns the row as stored afterwards.
// Keys are column names; nil values write NULL. It returns (nil, nil) when
// id does not exist.
func (r *Repository[T]) Update(ctx context.Context, id uint, fields map[string]any) (*T, error) {
	defer metrics.ObserveDBQuery(r.table, "update", time.Now())

	var out *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := r.find(tx, id)
		if err != nil || cur == nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(cur).Updates(fields).Error; err != nil {
				return err
			}
		}
		out, err = r.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes row id and returns it. It returns (nil, nil) when id does
// not exist.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (*T, error) {
	defer metrics.ObserveDBQuery(r.table, "delete", time.Now())

	var out *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := r.find(tx, id)
		if err != nil || cur == nil {
			return err
		}
		var zero T
		if err := tx.Delete(&zero, id).Error; err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of rows.
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	defer metrics.ObserveDBQuery(r.table, "count", time.Now())
	var n int64
	var zero T
	err := r.db.WithContext(ctx).Model(&zero).Count(&n).Error
	return n, err
}

func (r *Repository[T]) find(tx *gorm.DB, id uint) (*T, error) {
	var v T
	err := tx.First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
