// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the per-request logger injected by the request logger
// middleware, so every line from a handler carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("food created", "id", food.ID)
//	// → time=... level=INFO msg="food created" request_id=a1b2c3d4 id=7
package logger

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

var (
	L *slog.Logger

	mu   sync.Mutex
	base slog.Handler
)

func init() {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}

	switch config.AppEnv() {
	case "production", "prod":
		opts.Level = slog.LevelInfo
		base = slog.NewJSONHandler(os.Stdout, opts)
	default:
		base = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(base)
	slog.SetDefault(L)
}

// EnableMongo adds a MongoDB sink next to stdout. The returned func flushes
// and disconnects; call it on shutdown.
func EnableMongo(uri, db string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return func() {}, err
	}

	dropped := prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "bizadmin",
		Subsystem: "logs",
		Name:      "mongo_dropped_total",
		Help:      "Log records discarded because the MongoDB queue was full.",
	}, func() float64 { return float64(mh.Dropped()) })
	if err := metrics.Register(dropped); err != nil {
		L.Warn("logs: dropped counter not registered", "error", err)
	}

	mu.Lock()
	L = slog.New(NewMultiHandler(base, mh))
	slog.SetDefault(L)
	mu.Unlock()

	return mh.Close, nil
}

type ctxKey struct{}

// WithCtx returns the logger stored by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// InjectLogger stores log in ctx. Called by middleware.Logger.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Component returns the base logger tagged with a component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }

func Info(msg string, args ...any) { L.Info(msg, args...) }

func Warn(msg string, args ...any) { L.Warn(msg, args...) }

func Error(msg string, args ...any) { L.Error(msg, args...) }
