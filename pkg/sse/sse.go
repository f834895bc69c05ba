// Package sse streams server-sent events. A Broker fans published events
// out to every connected /events client.
//
//	b := sse.NewBroker()
//	r.Get("/events", "events", b.ServeHTTP)
//	b.Publish("food.created", food)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

// Stream is one open SSE response.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// New sets the event-stream headers. It returns nil and writes a 500 if
// w cannot flush.
func New(w http.ResponseWriter) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return nil
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Stream{w: w, flusher: flusher}
}

// Send writes one named event with a JSON data line.
func (s *Stream) Send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	return s.write(event, payload)
}

func (s *Stream) write(event string, payload []byte) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Comment writes a keepalive comment line.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

type message struct {
	event   string
	payload []byte
}

// Broker fans out events to subscribers. Slow subscribers drop events
// rather than block Publish.
type Broker struct {
	mu        sync.RWMutex
	subs      map[chan message]struct{}
	keepalive time.Duration
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan message]struct{}), keepalive: 25 * time.Second}
}

func (b *Broker) subscribe() chan message {
	ch := make(chan message, 32)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Clients is the number of connected subscribers.
func (b *Broker) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Broker) Publish(event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Warn("sse: drop unencodable event", "event", event, "error", err)
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- message{event: event, payload: payload}:
		default:
		}
	}
}

// ServeHTTP streams events until the client goes away.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stream := New(w)
	if stream == nil {
		return
	}
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	ticker := time.NewTicker(b.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if err := stream.write(msg.event, msg.payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := stream.Comment("ping"); err != nil {
				return
			}
		}
	}
}
