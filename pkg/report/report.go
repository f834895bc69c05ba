// Package report turns the flat chat history into per-session views: groups,
// summaries, sortable tables and session dividers.
package report

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/collection"
)

// Message is one row of the chat history as exposed by GET /history.
type Message struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
}

// Session is a group of messages sharing a session id.
type Session struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// Summary is the per-session line of GET /sessions-summary.
type Summary struct {
	SessionID    string    `json:"session_id"`
	MessageCount int       `json:"message_count"`
	LastMessage  string    `json:"last_message"`
	LastDate     time.Time `json:"last_date"`
}

func (m Message) Session() string { return m.SessionID }
func (m Message) When() time.Time { return m.Date }
func (s Summary) Session() string { return s.SessionID }
func (s Summary) When() time.Time { return s.LastDate }

// Row is anything that can be sorted by session or date.
type Row interface {
	Session() string
	When() time.Time
}

// Group buckets messages by session in first-arrival order. Messages keep
// their arrival order inside each session.
func Group(messages []Message) []Session {
	groups := collection.GroupOrdered(messages, func(m Message) string { return m.SessionID })
	return collection.Map(groups, func(g collection.Group[Message]) Session {
		return Session{SessionID: g.Key, Messages: g.Items}
	})
}

// Summarize derives one Summary per session, in first-arrival order. The
// last message is the last one to arrive, not the latest by date.
func Summarize(messages []Message) []Summary {
	out := make([]Summary, 0)
	for _, s := range Group(messages) {
		last := s.Messages[len(s.Messages)-1]
		out = append(out, Summary{
			SessionID:    s.SessionID,
			MessageCount: len(s.Messages),
			LastMessage:  last.Content,
			LastDate:     last.Date,
		})
	}
	return out
}

type Column string

const (
	BySession Column = "session_id"
	ByDate    Column = "date"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseColumn accepts "session_id" or "date".
func ParseColumn(s string) (Column, error) {
	switch Column(s) {
	case BySession, ByDate:
		return Column(s), nil
	}
	return "", fmt.Errorf("report: unknown sort column %q", s)
}

// ParseDirection accepts "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	}
	return "", fmt.Errorf("report: unknown sort direction %q", s)
}

// Sort returns a stably sorted copy of rows.
func Sort[R Row](rows []R, col Column, dir Direction) []R {
	less := func(a, b R) bool {
		if col == BySession {
			return a.Session() < b.Session()
		}
		return a.When().Before(b.When())
	}
	if dir == Desc {
		asc := less
		less = func(a, b R) bool { return asc(b, a) }
	}
	return collection.SortStable(rows, less)
}

// Sorter is the sort state of a report table. The zero value is not
// useful; use NewSorter.
type Sorter struct {
	Column    Column
	Direction Direction
}

// NewSorter starts on date descending.
func NewSorter() *Sorter {
	return &Sorter{Column: ByDate, Direction: Desc}
}

// Click selects col. Clicking the active column flips its direction;
// another column becomes active in ascending order.
func (s *Sorter) Click(col Column) {
	if s.Column == col {
		if s.Direction == Asc {
			s.Direction = Desc
		} else {
			s.Direction = Asc
		}
		return
	}
	s.Column = col
	s.Direction = Asc
}

// ApplySort sorts rows with the state of s.
func ApplySort[R Row](s *Sorter, rows []R) []R {
	return Sort(rows, s.Column, s.Direction)
}

// Separators reports, for each row, whether it starts a new session run
// compared to the row before it. The first row always does.
func Separators[R Row](rows []R) []bool {
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = i == 0 || r.Session() != rows[i-1].Session()
	}
	return out
}
