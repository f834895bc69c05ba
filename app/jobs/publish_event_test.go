package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bizadmin/pkg/event"
)

type recorder struct {
	key   string
	value []byte
	err   error
}

func (r *recorder) Publish(_ context.Context, key string, value []byte) error {
	r.key, r.value = key, value
	return r.err
}

func (r *recorder) Close() error { return nil }

func TestPublishEventSendsEncodedEvent(t *testing.T) {
	e := event.Event{Name: "food.created", Payload: map[string]int{"id": 7}, At: time.Unix(0, 0).UTC()}
	job, err := NewPublishEvent(e)
	require.NoError(t, err)

	// survives a queue round trip
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	var decoded PublishEvent
	require.NoError(t, json.Unmarshal(raw, &decoded))

	rec := &recorder{}
	require.NoError(t, decoded.Via(rec).Handle(context.Background()))
	assert.Equal(t, "food.created", rec.key)
	assert.JSONEq(t, `{"event":"food.created","payload":{"id":7},"at":"1970-01-01T00:00:00Z"}`, string(rec.value))
}

func TestPublishEventReturnsBrokerError(t *testing.T) {
	job, err := NewPublishEvent(event.Event{Name: "lead.deleted"})
	require.NoError(t, err)

	boom := errors.New("broker down")
	assert.ErrorIs(t, job.Via(&recorder{err: boom}).Handle(context.Background()), boom)
}
