// Package services holds the business logic between controllers and
// repositories. Mutations fire domain events and invalidate cached lists.
package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/orm"
)

const listTTL = 5 * time.Minute

// Input is a request body for one entity. Model builds a new row; Fields
// returns every writable column, nil meaning NULL, so an update is a full
// replace.
type Input[T any] interface {
	Model() *T
	Fields() map[string]any
}

// EntityService implements create/list/update/delete for one table.
type EntityService[T any] struct {
	repo  *orm.Repository[T]
	name  string
	cache cache.Store
	bus   *event.Bus
}

// NewEntityService wires repo to the cache and event bus. name prefixes
// the fired events ("food" fires food.created, ...).
func NewEntityService[T any](repo *orm.Repository[T], name string, store cache.Store, bus *event.Bus) *EntityService[T] {
	return &EntityService[T]{repo: repo, name: name, cache: store, bus: bus}
}

func (s *EntityService[T]) Name() string { return s.name }

func (s *EntityService[T]) Create(ctx context.Context, in Input[T]) (*T, error) {
	row := in.Model()
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}
	s.changed(ctx, "created", row)
	return row, nil
}

func (s *EntityService[T]) List(ctx context.Context) ([]T, error) {
	return cache.Remember(ctx, s.cache, s.listKey(), listTTL, func() ([]T, error) {
		return s.repo.List(ctx)
	})
}

func (s *EntityService[T]) Find(ctx context.Context, id uint) (*T, error) {
	return s.repo.Find(ctx, id)
}

// Update returns (nil, nil) when id does not exist.
func (s *EntityService[T]) Update(ctx context.Context, id uint, in Input[T]) (*T, error) {
	row, err := s.repo.Update(ctx, id, in.Fields())
	if err != nil || row == nil {
		return nil, err
	}
	s.changed(ctx, "updated", row)
	return row, nil
}

// Delete returns the removed row, or (nil, nil) when id does not exist.
func (s *EntityService[T]) Delete(ctx context.Context, id uint) (*T, error) {
	row, err := s.repo.Delete(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	s.changed(ctx, "deleted", row)
	return row, nil
}

func (s *EntityService[T]) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *EntityService[T]) Table() string { return s.repo.Table() }

func (s *EntityService[T]) listKey() string { return "list:" + s.repo.Table() }

func (s *EntityService[T]) changed(ctx context.Context, verb string, row *T) {
	_ = cache.Invalidate(ctx, s.cache, s.listKey())
	if s.bus != nil {
		s.bus.Fire(ctx, s.name+"."+verb, row)
	}
}
