// Package jobs holds the background jobs run by the queue workers.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shashiranjanraj/bizadmin/pkg/broker"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"
)

// PublishEvent forwards one domain event to the outbound broker.
type PublishEvent struct {
	Key     string          `json:"key"`
	Message json.RawMessage `json:"message"`

	publisher broker.Publisher
}

func init() {
	queue.Register("publish_event", func() queue.Job { return &PublishEvent{} })
}

// NewPublishEvent encodes e for the broker, keyed by the event name.
func NewPublishEvent(e event.Event) (*PublishEvent, error) {
	msg, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.Name, err)
	}
	return &PublishEvent{Key: e.Name, Message: msg}, nil
}

func (j *PublishEvent) JobName() string { return "publish_event" }

// Handle publishes on broker.Default unless a publisher was set with Via.
func (j *PublishEvent) Handle(ctx context.Context) error {
	p := j.publisher
	if p == nil {
		p = broker.Default
	}
	return p.Publish(ctx, j.Key, j.Message)
}

// Via sets the publisher used by Handle.
func (j *PublishEvent) Via(p broker.Publisher) *PublishEvent {
	j.publisher = p
	return j
}
