package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func history() []Message {
	return []Message{
		{SessionID: "s2", Role: "user", Content: "hi", Date: day("2024-01-01")},
		{SessionID: "s1", Role: "user", Content: "hello", Date: day("2024-01-02")},
		{SessionID: "s2", Role: "assistant", Content: "hey there", Date: day("2024-01-03")},
		{SessionID: "s1", Role: "assistant", Content: "welcome", Date: day("2024-03-01")},
	}
}

func TestGroupFirstArrivalOrder(t *testing.T) {
	sessions := Group(history())
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].SessionID)
	assert.Equal(t, []string{"hi", "hey there"}, []string{sessions[0].Messages[0].Content, sessions[0].Messages[1].Content})
	assert.Equal(t, "s1", sessions[1].SessionID)
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
	assert.NotNil(t, Summarize(nil))
}

func TestSummarize(t *testing.T) {
	sums := Summarize(history())
	require.Len(t, sums, 2)
	assert.Equal(t, Summary{SessionID: "s2", MessageCount: 2, LastMessage: "hey there", LastDate: day("2024-01-03")}, sums[0])
	assert.Equal(t, Summary{SessionID: "s1", MessageCount: 2, LastMessage: "welcome", LastDate: day("2024-03-01")}, sums[1])
}

func TestSortByDate(t *testing.T) {
	rows := []Summary{
		{SessionID: "a", LastDate: day("2024-01-01")},
		{SessionID: "b", LastDate: day("2024-03-01")},
	}

	desc := Sort(rows, ByDate, Desc)
	assert.Equal(t, "b", desc[0].SessionID)

	asc := Sort(rows, ByDate, Asc)
	assert.Equal(t, "a", asc[0].SessionID)

	assert.Equal(t, "a", rows[0].SessionID, "input is not mutated")
}

func TestSortIsStable(t *testing.T) {
	rows := []Message{
		{SessionID: "x", Content: "1"},
		{SessionID: "a", Content: "2"},
		{SessionID: "x", Content: "3"},
	}
	out := Sort(rows, BySession, Asc)
	assert.Equal(t, []string{"2", "1", "3"}, []string{out[0].Content, out[1].Content, out[2].Content})

	out = Sort(rows, BySession, Desc)
	assert.Equal(t, []string{"1", "3", "2"}, []string{out[0].Content, out[1].Content, out[2].Content})
}

func TestSorterClicks(t *testing.T) {
	s := NewSorter()
	assert.Equal(t, Sorter{Column: ByDate, Direction: Desc}, *s)

	s.Click(ByDate)
	assert.Equal(t, Asc, s.Direction)
	s.Click(ByDate)
	assert.Equal(t, Desc, s.Direction)

	s.Click(BySession)
	assert.Equal(t, Sorter{Column: BySession, Direction: Asc}, *s)
	s.Click(BySession)
	assert.Equal(t, Desc, s.Direction)
}

func TestSeparators(t *testing.T) {
	rows := []Message{{SessionID: "a"}, {SessionID: "a"}, {SessionID: "b"}, {SessionID: "a"}}
	assert.Equal(t, []bool{true, false, true, true}, Separators(rows))
	assert.Empty(t, Separators([]Message{}))
}

func TestParse(t *testing.T) {
	c, err := ParseColumn("date")
	require.NoError(t, err)
	assert.Equal(t, ByDate, c)
	_, err = ParseColumn("role")
	assert.Error(t, err)

	d, err := ParseDirection("asc")
	require.NoError(t, err)
	assert.Equal(t, Asc, d)
	_, err = ParseDirection("up")
	assert.Error(t, err)
}
