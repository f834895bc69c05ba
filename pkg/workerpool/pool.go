// Package workerpool provides a bounded goroutine pool with backpressure.
//
// When every worker is busy and the buffer is full, Submit returns
// ErrPoolFull immediately so the caller can drop, retry or reject.
//
//	pool := workerpool.New(8)
//	defer pool.Shutdown()
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) { ... }
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrPoolFull = errors.New("workerpool: pool is full")

var ErrPoolClosed = errors.New("workerpool: pool is closed")

// PanicHandler is called with the recovered value of a panicking task.
type PanicHandler func(recovered any)

type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex // guards closed against concurrent Submit/Shutdown
	closed  bool
	onPanic PanicHandler
}

// New creates a Pool with size workers and a buffer of 2×size tasks.
func New(size int) *Pool {
	return NewWithPanicHandler(size, nil)
}

func NewWithPanicHandler(size int, onPanic PanicHandler) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		tasks:   make(chan func(), size*2),
		onPanic: onPanic,
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until the task is queued, ctx is done or the pool closes.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish.
// Safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.safeRun(task)
	}
}

func (p *Pool) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil && p.onPanic != nil {
			p.onPanic(fmt.Sprint(r))
		}
	}()
	task()
}
