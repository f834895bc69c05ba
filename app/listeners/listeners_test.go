package listeners

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/event"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"
)

type feed struct {
	mu    sync.Mutex
	names []string
}

func (f *feed) Publish(name string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
}

type hub struct{ values []any }

func (h *hub) Publish(v any) { h.values = append(h.values, v) }

func TestRegisterFansOut(t *testing.T) {
	bus := event.NewBus(1)
	driver := queue.NewMemoryDriver(10)
	f, h := &feed{}, &hub{}
	Register(bus, f, h, queue.NewManager(driver))

	ctx := context.Background()
	bus.Fire(ctx, "food.created", map[string]int{"id": 1})
	bus.Fire(ctx, services.EventChatMessage, "hello")
	bus.Close()

	assert.Equal(t, []string{"food.created", services.EventChatMessage}, f.names)
	assert.Equal(t, []any{"hello"}, h.values)

	popCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	raw, err := driver.Pop(popCtx)
	require.NoError(t, err)

	var env struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "publish_event", env.Type)
}
