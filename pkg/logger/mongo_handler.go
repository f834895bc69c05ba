package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName    = "bizadmin"
	mongoQueueSize = 4096
	mongoBatchSize = 50
	mongoDrainTick = 2 * time.Second
)

// LogDocument is one log line as stored in the logs collection. request_id
// and component are lifted out of attrs so they can be indexed.
type LogDocument struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	Service   string    `bson:"service"`
	RequestID string    `bson:"request_id,omitempty"`
	Component string    `bson:"component,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler batches records into MongoDB from one writer goroutine.
// Handle never blocks the request path; records that do not fit in the
// queue are counted in Dropped.
type MongoHandler struct {
	col     *mongo.Collection
	client  *mongo.Client
	queue   chan LogDocument
	done    chan struct{}
	dropped *atomic.Int64
	level   slog.Level
	attrs   []boundAttr
	prefix  string // dotted group path applied to record attrs
}

// boundAttr remembers the group path that was open when WithAttrs ran.
type boundAttr struct {
	prefix string
	attr   slog.Attr
}

// NewMongoHandler connects to uri and writes into db.collection.
// The caller must eventually call Close.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo_handler: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo_handler: ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})

	h := &MongoHandler{
		col:    col,
		client: client,
		queue:   make(chan LogDocument, mongoQueueSize),
		done:    make(chan struct{}),
		dropped: new(atomic.Int64),
		level:   slog.LevelInfo,
	}

	go h.drainLoop()
	return h, nil
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= h.level }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	select {
	case h.queue <- h.document(r):
	default:
		h.dropped.Add(1)
	}
	return nil
}

// Dropped reports how many records were discarded because the queue was
// full.
func (h *MongoHandler) Dropped() int64 { return h.dropped.Load() }

func (h *MongoHandler) document(r slog.Record) LogDocument {
	doc := LogDocument{
		Time:    r.Time,
		Level:   r.Level.String(),
		Msg:     r.Message,
		Service: serviceName,
		Attrs:   bson.M{},
	}
	put := func(prefix string, a slog.Attr) {
		switch {
		case a.Key == "request_id" && prefix == "":
			doc.RequestID = a.Value.String()
		case a.Key == "component" && prefix == "":
			doc.Component = a.Value.String()
		case a.Value.Kind() == slog.KindGroup:
			for _, g := range a.Value.Group() {
				doc.Attrs[prefix+a.Key+"."+g.Key] = g.Value.Resolve().Any()
			}
		default:
			doc.Attrs[prefix+a.Key] = a.Value.Resolve().Any()
		}
	}
	for _, b := range h.attrs {
		put(b.prefix, b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(h.prefix, a)
		return true
	})
	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}
	return doc
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]boundAttr(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, boundAttr{prefix: h.prefix, attr: a})
	}
	return &c
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = strings.TrimPrefix(h.prefix+name+".", ".")
	return &c
}

func (h *MongoHandler) drainLoop() {
	ticker := time.NewTicker(mongoDrainTick)
	defer ticker.Stop()

	batch := make([]any, 0, mongoBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = h.col.InsertMany(ctx, batch)
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= mongoBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for len(h.queue) > 0 {
				batch = append(batch, <-h.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes pending logs and disconnects. Safe to call more than once.
func (h *MongoHandler) Close() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}
	// give drainLoop a moment to flush before the client goes away
	time.Sleep(100 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.client.Disconnect(ctx)
}

// MultiHandler fans out to multiple slog.Handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}
