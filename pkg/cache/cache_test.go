package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k", []string{"a", "b"}, time.Minute))

	var out []string
	assert.True(t, s.Get(ctx, "k", &out))
	assert.Equal(t, []string{"a", "b"}, out)

	require.NoError(t, s.Del(ctx, "k"))
	assert.False(t, s.Get(ctx, "k", &out))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", 1, time.Second))
	var n int
	assert.True(t, s.Get(ctx, "k", &n))

	now = now.Add(2 * time.Second)
	assert.False(t, s.Get(ctx, "k", &n))
}

func TestRememberLoadsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	v, err := Remember(ctx, s, "answer", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = Remember(ctx, s, "answer", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("boom")

	_, err := Remember(ctx, s, "k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var n int
	assert.False(t, s.Get(ctx, "k", &n))
}

func TestInvalidateBetweenLoadAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rows := []string{"a"}

	v, err := Remember(ctx, s, "list:leads", time.Minute, func() ([]string, error) {
		loaded := append([]string(nil), rows...)
		rows = nil
		require.NoError(t, Invalidate(ctx, s, "list:leads"))
		return loaded, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)

	v, err = Remember(ctx, s, "list:leads", time.Minute, func() ([]string, error) { return rows, nil })
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestStaleGenerationIsAMiss(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "k", entry[int]{Gen: 0, Value: 1}, time.Minute))
	_, err := s.Incr(ctx, genKey("k"))
	require.NoError(t, err)

	v, err := Remember(ctx, s, "k", time.Minute, func() (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRememberWithoutStoreLoads(t *testing.T) {
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Remember(context.Background(), nil, "k", time.Minute, func() (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.NoError(t, Invalidate(context.Background(), nil, "k"))
}

func TestMemoryIncr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	n, err := s.Incr(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = s.Incr(ctx, "g")
	assert.Equal(t, int64(2), n)

	var got int64
	assert.True(t, s.Get(ctx, "g", &got))
	assert.Equal(t, int64(2), got)
}
