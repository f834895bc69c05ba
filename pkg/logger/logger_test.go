package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
}

func TestWithCtxReturnsInjected(t *testing.T) {
	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	debug := &slog.HandlerOptions{Level: slog.LevelDebug}
	info := &slog.HandlerOptions{Level: slog.LevelInfo}
	log := slog.New(NewMultiHandler(
		slog.NewJSONHandler(&a, debug),
		slog.NewJSONHandler(&b, info),
	)).With("component", "test")

	log.Debug("dropped by info handler")
	log.Info("seen by both")

	assert.Contains(t, a.String(), "dropped by info handler")
	assert.NotContains(t, b.String(), "dropped by info handler")
	assert.Contains(t, a.String(), `"component":"test"`)
	assert.Contains(t, a.String(), "seen by both")
	assert.Contains(t, b.String(), "seen by both")
}

func TestMongoDocumentShape(t *testing.T) {
	h := &MongoHandler{queue: make(chan LogDocument, 1), dropped: new(atomic.Int64)}
	log := slog.New(h).With("request_id", "r1", "component", "chat").WithGroup("http")

	log.Info("request", "status", 201, slog.Group("peer", "ip", "1.2.3.4"))
	doc := <-h.queue

	assert.Equal(t, "INFO", doc.Level)
	assert.Equal(t, "request", doc.Msg)
	assert.Equal(t, "bizadmin", doc.Service)
	assert.Equal(t, "r1", doc.RequestID)
	assert.Equal(t, "chat", doc.Component)
	assert.EqualValues(t, 201, doc.Attrs["http.status"])
	assert.Equal(t, "1.2.3.4", doc.Attrs["http.peer.ip"])
}

func TestMongoHandleDropsWhenFull(t *testing.T) {
	h := &MongoHandler{queue: make(chan LogDocument, 1), dropped: new(atomic.Int64)}
	log := slog.New(h)

	log.Info("kept")
	log.Info("dropped")
	log.Debug("below level")

	assert.Equal(t, int64(1), h.Dropped())
	assert.Equal(t, "kept", (<-h.queue).Msg)
}
