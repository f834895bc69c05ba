package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchCron(t *testing.T) {
	at := time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC) // Friday

	assert.True(t, matchCron("* * * * *", at))
	assert.True(t, matchCron("30 3 * * *", at))
	assert.True(t, matchCron("*/15 * * * *", at))
	assert.True(t, matchCron("0-45 1-5 1 3 5", at))
	assert.True(t, matchCron("0,30 * * * *", at))
	assert.False(t, matchCron("31 3 * * *", at))
	assert.False(t, matchCron("* * * *", at))
	assert.False(t, matchCron("x * * * *", at))
}

func TestIntervalEntryRunsWhenDue(t *testing.T) {
	s := New()
	var runs atomic.Int32
	s.Every(time.Minute).Name("rows").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Tick(ctx, t0)
	s.Tick(ctx, t0.Add(30*time.Second))
	s.Tick(ctx, t0.Add(time.Minute))
	s.Wait()

	assert.Equal(t, int32(2), runs.Load())
	assert.Equal(t, []string{"rows  [every 1m0s]"}, s.List())
}

func TestCronEntryRunsOncePerMinute(t *testing.T) {
	s := New()
	var runs atomic.Int32
	s.Cron("0 3 * * *").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx := context.Background()
	t0 := time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC)
	s.Tick(ctx, t0)
	s.Tick(ctx, t0.Add(time.Second))
	s.Tick(ctx, t0.Add(time.Hour))
	s.Wait()

	assert.Equal(t, int32(1), runs.Load())
}

func TestPanickingTaskIsRecovered(t *testing.T) {
	s := New()
	s.Every(time.Second).Run(func(context.Context) error { panic("boom") })
	assert.NotPanics(t, func() {
		s.Tick(context.Background(), time.Now())
		s.Wait()
	})
}
