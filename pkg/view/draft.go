package view

import (
	"context"
	"errors"
	"sync"
)

// ErrDraftClosed is returned by Submit on a closed draft.
var ErrDraftClosed = errors.New("view: draft is not open")

// Draft is the add/edit dialog of a list. Field values are kept in a map
// keyed by JSON field name so nil values reach the server as null.
type Draft[T any] struct {
	list *List[T]

	mu     sync.Mutex
	open   bool
	id     uint
	fields map[string]any
	err    error
}

func NewDraft[T any](list *List[T]) *Draft[T] {
	return &Draft[T]{list: list}
}

// OpenNew starts an add dialog.
func (d *Draft[T]) OpenNew() {
	d.reset(true, 0, map[string]any{})
}

// OpenEdit starts an edit dialog for row id prefilled with fields.
func (d *Draft[T]) OpenEdit(id uint, fields map[string]any) {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	d.reset(true, id, cp)
}

func (d *Draft[T]) Set(field string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fields != nil {
		d.fields[field] = value
	}
}

func (d *Draft[T]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Draft[T]) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Submit sends the draft (create or update) through the list, which
// reloads on success. The dialog closes on success and stays open with
// the error otherwise.
func (d *Draft[T]) Submit(ctx context.Context) (*T, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, ErrDraftClosed
	}
	id, body := d.id, d.fields
	d.mu.Unlock()

	var (
		row *T
		err error
	)
	if id == 0 {
		row, err = d.list.Create(ctx, body)
	} else {
		row, err = d.list.Update(ctx, id, body)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	if err == nil {
		d.open = false
	}
	return row, err
}

func (d *Draft[T]) Close() { d.reset(false, 0, nil) }

func (d *Draft[T]) reset(open bool, id uint, fields map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open, d.id, d.fields, d.err = open, id, fields, nil
}
