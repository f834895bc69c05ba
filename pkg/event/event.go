// Package event provides the in-process domain event bus.
//
// Services fire events after successful mutations; listeners fan them out
// to live feeds and to the outbound broker:
//
//	event.Listen("food.created", func(ctx context.Context, e event.Event) { ... })
//	event.Listen(event.Any, forwardToKafka)
//	event.Fire(ctx, "food.created", food)
package event

import (
	"context"
	"sync"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
	"github.com/shashiranjanraj/bizadmin/pkg/workerpool"
)

// Any subscribes a listener to every event.
const Any = "*"

// Event is one fired domain event.
type Event struct {
	Name    string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Handler receives an event.
type Handler func(ctx context.Context, e Event)

// Bus dispatches events to listeners. Listeners registered as async run on
// a bounded worker pool; when it is saturated the event is dropped for that
// listener and a warning is logged.
type Bus struct {
	mu       sync.RWMutex
	sync     map[string][]Handler
	async    map[string][]Handler
	pool     *workerpool.Pool
	poolOnce sync.Once
	workers  int
}

func NewBus(workers int) *Bus {
	return &Bus{
		sync:    map[string][]Handler{},
		async:   map[string][]Handler{},
		workers: workers,
	}
}

// Listen registers a synchronous handler for name (or Any).
func (b *Bus) Listen(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sync[name] = append(b.sync[name], h)
}

// ListenAsync registers a handler that runs on the bus worker pool.
func (b *Bus) ListenAsync(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.async[name] = append(b.async[name], h)
}

// Fire runs sync listeners inline and queues async ones. The context passed
// to async listeners is detached from ctx's cancellation.
func (b *Bus) Fire(ctx context.Context, name string, payload any) {
	e := Event{Name: name, Payload: payload, At: time.Now().UTC()}
	metrics.EventsFired.WithLabelValues(name).Inc()

	b.mu.RLock()
	syncHs := append(append([]Handler(nil), b.sync[name]...), b.sync[Any]...)
	asyncHs := append(append([]Handler(nil), b.async[name]...), b.async[Any]...)
	b.mu.RUnlock()

	for _, h := range syncHs {
		h(ctx, e)
	}

	if len(asyncHs) == 0 {
		return
	}
	detached := context.WithoutCancel(ctx)
	pool := b.workerPool()
	for _, h := range asyncHs {
		h := h
		if err := pool.Submit(func() { h(detached, e) }); err != nil {
			logger.WithCtx(ctx).Warn("event: async listener dropped", "event", name, "error", err)
		}
	}
}

// Close waits for queued async listeners to finish.
func (b *Bus) Close() {
	b.mu.RLock()
	pool := b.pool
	b.mu.RUnlock()
	if pool != nil {
		pool.Shutdown()
	}
}

// Flush removes all listeners (tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sync = map[string][]Handler{}
	b.async = map[string][]Handler{}
}

func (b *Bus) workerPool() *workerpool.Pool {
	b.poolOnce.Do(func() {
		p := workerpool.NewWithPanicHandler(b.workers, func(r any) {
			logger.Error("event: listener panicked", "panic", r)
		})
		b.mu.Lock()
		b.pool = p
		b.mu.Unlock()
	})
	return b.pool
}

// Default is the process-wide bus.
var Default = NewBus(4)

func Listen(name string, h Handler)      { Default.Listen(name, h) }
func ListenAsync(name string, h Handler) { Default.ListenAsync(name, h) }
func Fire(ctx context.Context, name string, payload any) {
	Default.Fire(ctx, name, payload)
}
