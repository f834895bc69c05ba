// Package queue runs background jobs with bounded retries.
//
//	type PublishEvent struct{ Name string; Payload json.RawMessage }
//	func (j *PublishEvent) Handle(ctx context.Context) error { ... }
//
//	queue.Register("publish_event", func() queue.Job { return &PublishEvent{} })
//	queue.Dispatch(ctx, &PublishEvent{...})
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	Handle(ctx context.Context) error
}

// Named jobs choose their registry name; others use their Go type name.
type Named interface {
	JobName() string
}

// FailedJob holds a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend. Pop returns (nil, nil) when no job
// arrived before its internal timeout.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// DelayedDriver is implemented by drivers that schedule natively.
type DelayedDriver interface {
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
}

// Manager owns a driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
	store    FailedStore
}

// NewManager returns a manager with 3 attempts and linear 1s backoff.
func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driver = d
}

func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxRetry = n
}

func (m *Manager) SetBackoff(fn func(attempt int) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backoff = fn
}

// UseStore persists exhausted jobs (see FailedStore).
func (m *Manager) UseStore(s FailedStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = s
}

// Register makes a job type available for decoding by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch pushes job onto the queue.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	return m.currentDriver().Push(ctx, env)
}

// DispatchAfter pushes job after delay, natively when the driver supports it.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	env, err := encode(job)
	if err != nil {
		return err
	}
	d := m.currentDriver()
	if dd, ok := d.(DelayedDriver); ok {
		return dd.PushDelayed(ctx, env, delay)
	}
	time.AfterFunc(delay, func() {
		if err := d.Push(context.Background(), env); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	})
	return nil
}

func encode(job Job) ([]byte, error) {
	name := nameOf(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, nil
}

func nameOf(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// StartWorkers launches n workers; they stop when ctx is cancelled. The
// returned WaitGroup completes once every worker has exited.
func (m *Manager) StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return &wg
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		m.process(ctx, raw)
	}
}

func (m *Manager) process(ctx context.Context, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()

	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	m.runWithRetry(ctx, job, env.Type)
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, typeName string) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		err := job.Handle(ctx)
		if err == nil {
			metrics.RecordQueueJob(typeName, "success", start)
			logger.Debug("queue: job processed", "type", typeName, "attempt", attempt)
			return
		}
		lastErr = err
		logger.Warn("queue: job failed", "type", typeName, "attempt", attempt, "error", err)
		if attempt < maxRetry && !sleep(ctx, backoff(attempt)) {
			break
		}
	}

	metrics.RecordQueueJob(typeName, "failed", start)
	m.recordFailed(ctx, job, typeName, lastErr, maxRetry)
	logger.Error("queue: job exhausted retries", "type", typeName, "error", lastErr)
}

// FailedJobs returns a snapshot of failed jobs seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits d or until ctx is done; it reports whether d fully elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var defaultManager = NewManager(NewMemoryDriver(1000))

// Default returns the process-wide manager.
func Default() *Manager { return defaultManager }

func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }

func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }

func StartWorkers(ctx context.Context, n int) *sync.WaitGroup {
	return defaultManager.StartWorkers(ctx, n)
}
