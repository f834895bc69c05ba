// Package view holds client-side list page state: request lifecycle,
// fetched rows, filtering and pagination. Every mutation is followed by a
// full reload; returned rows are never merged in locally.
package view

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shashiranjanraj/bizadmin/pkg/collection"
)

type State int

const (
	Idle State = iota
	Pending
	Success
	Failure
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "idle"
	}
}

// Resource is the remote collection a List shows. *client.Resource
// satisfies it.
type Resource[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, body any) (*T, error)
	Update(ctx context.Context, id uint, body any) (*T, error)
	Delete(ctx context.Context, id uint) (*T, error)
}

// List is the state of one list page. Safe for concurrent use.
type List[T any] struct {
	res  Resource[T]
	text func(T) string

	flight singleflight.Group

	mu    sync.RWMutex
	state State
	rows  []T
	err   error
	// seq numbers fetches; only the newest may write state.
	seq uint64
}

// NewList builds a list over res. text returns the searchable text of a
// row for Filter.
func NewList[T any](res Resource[T], text func(T) string) *List[T] {
	return &List[T]{res: res, text: text, rows: []T{}}
}

func (l *List[T]) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Rows returns the last successfully fetched rows.
func (l *List[T]) Rows() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.rows...)
}

// Err is the error of the last failed request, or nil.
func (l *List[T]) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Load fetches the whole list. Calls made while a fetch is in flight share
// its result. A fetch overtaken by a newer one still answers its callers
// but leaves the page state alone.
func (l *List[T]) Load(ctx context.Context) ([]T, error) {
	v, err, _ := l.flight.Do("load", func() (any, error) {
		seq := l.begin()
		rows, err := l.res.List(ctx)
		if err != nil {
			l.finish(seq, Failure, nil, err, false)
			return nil, err
		}
		if rows == nil {
			rows = []T{}
		}
		l.finish(seq, Success, rows, nil, true)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]T(nil), v.([]T)...), nil
}

func (l *List[T]) Create(ctx context.Context, body any) (*T, error) {
	return l.mutate(ctx, func() (*T, error) { return l.res.Create(ctx, body) })
}

func (l *List[T]) Update(ctx context.Context, id uint, body any) (*T, error) {
	return l.mutate(ctx, func() (*T, error) { return l.res.Update(ctx, id, body) })
}

func (l *List[T]) Delete(ctx context.Context, id uint) (*T, error) {
	return l.mutate(ctx, func() (*T, error) { return l.res.Delete(ctx, id) })
}

func (l *List[T]) mutate(ctx context.Context, call func() (*T, error)) (*T, error) {
	seq := l.begin()
	row, err := call()
	if err != nil {
		l.finish(seq, Failure, nil, err, false)
		return nil, err
	}
	// a load started before the mutation would miss it; it is superseded
	// by the one below
	l.flight.Forget("load")
	if _, err := l.Load(ctx); err != nil {
		return row, err
	}
	return row, nil
}

// Filter returns the fetched rows whose text contains query, ignoring
// case. An empty query matches every row. No request is made.
func (l *List[T]) Filter(query string) []T {
	rows := l.Rows()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	return collection.Filter(rows, func(v T) bool {
		return strings.Contains(strings.ToLower(l.text(v)), q)
	})
}

// Page returns page n (1-based) of the rows matching query.
func (l *List[T]) Page(query string, n, size int) (rows []T, pages int) {
	filtered := l.Filter(query)
	return collection.Page(filtered, n, size), collection.Pages(len(filtered), size)
}

func (l *List[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.state = Pending
	l.err = nil
	return l.seq
}

func (l *List[T]) finish(seq uint64, s State, rows []T, err error, replaceRows bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return
	}
	l.state = s
	l.err = err
	if replaceRows {
		l.rows = rows
	}
}
