// Package listeners subscribes the live feeds and the outbound broker to
// the domain event bus.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/bizadmin/app/jobs"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"
)

// Feed is a live channel that accepts events.
type Feed interface {
	Publish(event string, data any)
}

// Hub is a live channel that accepts JSON values.
type Hub interface {
	Publish(v any)
}

// Register wires bus to the change feed, the chat history hub and the
// queue. feed and hub may be nil; q nil means queue.Default().
func Register(bus *event.Bus, feed Feed, hub Hub, q *queue.Manager) {
	if q == nil {
		q = queue.Default()
	}

	if feed != nil {
		bus.Listen(event.Any, func(_ context.Context, e event.Event) {
			feed.Publish(e.Name, e)
		})
	}

	if hub != nil {
		bus.Listen(services.EventChatMessage, func(_ context.Context, e event.Event) {
			hub.Publish(e.Payload)
		})
	}

	bus.ListenAsync(event.Any, func(ctx context.Context, e event.Event) {
		job, err := jobs.NewPublishEvent(e)
		if err == nil {
			err = q.Dispatch(ctx, job)
		}
		if err != nil {
			logger.WithCtx(ctx).Warn("listeners: event not queued", "event", e.Name, "error", err)
		}
	})
}
