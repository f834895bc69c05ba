package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint
	Name string
}

type fakeResource struct {
	mu      sync.Mutex
	rows    []item
	lists   atomic.Int32
	gate    chan struct{}
	listErr error
}

func (f *fakeResource) List(context.Context) ([]item, error) {
	f.lists.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]item(nil), f.rows...), nil
}

func (f *fakeResource) Create(_ context.Context, body any) (*item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, _ := body.(map[string]any)["name"].(string)
	it := item{ID: uint(len(f.rows) + 1), Name: name}
	f.rows = append(f.rows, it)
	return &it, nil
}

func (f *fakeResource) Update(_ context.Context, id uint, body any) (*item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Name, _ = body.(map[string]any)["name"].(string)
			it := f.rows[i]
			return &it, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeResource) Delete(_ context.Context, id uint) (*item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.rows {
		if it.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return &it, nil
		}
	}
	return nil, errors.New("not found")
}

func names(rows []item) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func newList(f *fakeResource) *List[item] {
	return NewList[item](f, func(i item) string { return i.Name })
}

func TestLoadLifecycle(t *testing.T) {
	f := &fakeResource{rows: []item{{1, "Apple"}}}
	l := newList(f)
	assert.Equal(t, Idle, l.State())

	rows, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, names(rows))
	assert.Equal(t, Success, l.State())
}

func TestLoadFailureKeepsError(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeResource{listErr: boom}
	l := newList(f)

	_, err := l.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Failure, l.State())
	assert.ErrorIs(t, l.Err(), boom)
}

func TestOverlappingLoadsShareOneRequest(t *testing.T) {
	f := &fakeResource{rows: []item{{1, "Apple"}}, gate: make(chan struct{})}
	l := newList(f)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Load(context.Background())
		}()
	}
	assert.Eventually(t, func() bool { return l.State() == Pending }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.lists.Load())
	assert.Equal(t, Success, l.State())
}

func TestMutationsReload(t *testing.T) {
	f := &fakeResource{}
	l := newList(f)
	ctx := context.Background()

	_, err := l.Create(ctx, map[string]any{"name": "Apple"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, names(l.Rows()))

	_, err = l.Update(ctx, 1, map[string]any{"name": "Apricot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apricot"}, names(l.Rows()))

	_, err = l.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, l.Rows())
	assert.Equal(t, int32(3), f.lists.Load())
}

// slowFirstList snapshots rows when List is called and holds the first
// call until release is closed.
type slowFirstList struct {
	*fakeResource
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowFirstList) List(context.Context) ([]item, error) {
	n := s.calls.Add(1)
	s.mu.Lock()
	snapshot := append([]item(nil), s.rows...)
	s.mu.Unlock()
	if n == 1 {
		<-s.release
	}
	return snapshot, nil
}

func TestLoadOvertakenByMutationReloadIsDiscarded(t *testing.T) {
	res := &slowFirstList{fakeResource: &fakeResource{rows: []item{{1, "Apple"}}}, release: make(chan struct{})}
	l := NewList[item](res, func(i item) string { return i.Name })
	ctx := context.Background()

	stale := make(chan []item, 1)
	go func() {
		rows, _ := l.Load(ctx)
		stale <- rows
	}()
	require.Eventually(t, func() bool { return res.calls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := l.Create(ctx, map[string]any{"name": "Banana"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana"}, names(l.Rows()))

	close(res.release)
	assert.Equal(t, []string{"Apple"}, names(<-stale))

	assert.Equal(t, []string{"Apple", "Banana"}, names(l.Rows()))
	assert.Equal(t, Success, l.State())
}

func TestFailedMutationDoesNotReload(t *testing.T) {
	f := &fakeResource{}
	l := newList(f)

	_, err := l.Delete(context.Background(), 9)
	assert.Error(t, err)
	assert.Equal(t, Failure, l.State())
	assert.Equal(t, int32(0), f.lists.Load())
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	f := &fakeResource{rows: []item{{1, "Apple"}, {2, "Banana"}}}
	l := newList(f)
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Banana"}, names(l.Filter("ban")))
	assert.Equal(t, []string{"Banana"}, names(l.Filter("BAN")))
	assert.Len(t, l.Filter(""), 2)
	assert.Empty(t, l.Filter("kiwi"))
	assert.Equal(t, int32(1), f.lists.Load())
}

func TestPage(t *testing.T) {
	f := &fakeResource{rows: []item{{1, "a1"}, {2, "a2"}, {3, "a3"}, {4, "b"}}}
	l := newList(f)
	_, err := l.Load(context.Background())
	require.NoError(t, err)

	rows, pages := l.Page("a", 2, 2)
	assert.Equal(t, []string{"a3"}, names(rows))
	assert.Equal(t, 2, pages)
}

func TestDraftSubmit(t *testing.T) {
	f := &fakeResource{}
	l := newList(f)
	d := NewDraft(l)
	ctx := context.Background()

	_, err := d.Submit(ctx)
	assert.ErrorIs(t, err, ErrDraftClosed)

	d.OpenNew()
	d.Set("name", "Apple")
	row, err := d.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Apple", row.Name)
	assert.False(t, d.IsOpen())

	d.OpenEdit(1, map[string]any{"name": "Apple"})
	d.Set("name", "Pear")
	_, err = d.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pear"}, names(l.Rows()))

	d.OpenEdit(42, map[string]any{"name": "x"})
	_, err = d.Submit(ctx)
	assert.Error(t, err)
	assert.True(t, d.IsOpen())
	assert.Error(t, d.Err())
}
