// Package controllers turns HTTP requests into service calls and wraps the
// results in the response envelope.
package controllers

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/ctx"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
)

// EntityService is what an EntityController needs from its service.
type EntityService[T any] interface {
	Create(ctx context.Context, in services.Input[T]) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, id uint, in services.Input[T]) (*T, error)
	Delete(ctx context.Context, id uint) (*T, error)
}

// EntityController serves the four CRUD routes of one entity. I is the
// request body type.
type EntityController[T any, I services.Input[T]] struct {
	svc      EntityService[T]
	singular string // "Food"
	plural   string // "Foods"
}

func NewEntityController[T any, I services.Input[T]](svc EntityService[T], singular, plural string) *EntityController[T, I] {
	return &EntityController[T, I]{svc: svc, singular: singular, plural: plural}
}

func (ec *EntityController[T, I]) Store(c *ctx.Context) error {
	var in I
	if err := c.Bind(&in); err != nil {
		return err
	}
	row, err := ec.svc.Create(c.Context(), in)
	if err != nil {
		return err
	}
	c.Created(ec.singular+" created successfully", row)
	return nil
}

func (ec *EntityController[T, I]) Index(c *ctx.Context) error {
	rows, err := ec.svc.List(c.Context())
	if err != nil {
		return err
	}
	c.Success(ec.plural+" fetched successfully", rows)
	return nil
}

func (ec *EntityController[T, I]) Update(c *ctx.Context) error {
	id, err := c.ParamID("id")
	if err != nil {
		return err
	}
	var in I
	if err := c.Bind(&in); err != nil {
		return err
	}
	row, err := ec.svc.Update(c.Context(), id, in)
	if err != nil {
		return err
	}
	if row == nil {
		return ec.notFound()
	}
	c.Success(ec.singular+" updated successfully", row)
	return nil
}

func (ec *EntityController[T, I]) Destroy(c *ctx.Context) error {
	id, err := c.ParamID("id")
	if err != nil {
		return err
	}
	row, err := ec.svc.Delete(c.Context(), id)
	if err != nil {
		return err
	}
	if row == nil {
		return ec.notFound()
	}
	c.Success(ec.singular+" deleted successfully", row)
	return nil
}

// Handlers returns the routes for router.Group.Resource.
func (ec *EntityController[T, I]) Handlers() router.ResourceHandlers {
	return router.ResourceHandlers{
		Store:   ctx.Handle(ec.Store),
		Index:   ctx.Handle(ec.Index),
		Update:  ctx.Handle(ec.Update),
		Destroy: ctx.Handle(ec.Destroy),
	}
}

func (ec *EntityController[T, I]) notFound() error {
	return errs.NotFound(fmt.Sprintf("%s not found", ec.singular))
}
