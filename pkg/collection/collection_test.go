package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupOrderedKeepsFirstArrival(t *testing.T) {
	in := []string{"b1", "a1", "b2", "c1", "a2"}
	groups := GroupOrdered(in, func(s string) string { return s[:1] })

	assert.Equal(t, []string{"b", "a", "c"}, Map(groups, func(g Group[string]) string { return g.Key }))
	assert.Equal(t, []string{"b1", "b2"}, groups[0].Items)
	assert.Equal(t, []string{"a1", "a2"}, groups[1].Items)
}

func TestSortStableDoesNotMutate(t *testing.T) {
	in := []int{3, 1, 2}
	out := SortStable(in, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, []int{3, 1, 2}, in)
}

func TestPage(t *testing.T) {
	in := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, Page(in, 1, 2))
	assert.Equal(t, []int{5}, Page(in, 3, 2))
	assert.Empty(t, Page(in, 4, 2))
	assert.Empty(t, Page(in, 0, 2))
	assert.Equal(t, 3, Pages(len(in), 2))
	assert.Equal(t, 0, Pages(0, 2))
}

func TestFilterNeverNil(t *testing.T) {
	out := Filter([]int{1, 2}, func(int) bool { return false })
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
