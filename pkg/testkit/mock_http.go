package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is an http.RoundTripper answering from a scenario's mocks.
// It is installed on pkg/http's DefaultClient for the duration of a
// scenario.
type MockTransport struct {
	mu      sync.Mutex
	steps   []mockEntry
	require bool
}

type mockEntry struct {
	step  MockStep
	calls []string
}

func NewMockTransport(s *Scenario) *MockTransport {
	mt := &MockTransport{require: s.MockRequired}
	for _, step := range s.Mocks {
		mt.steps = append(mt.steps, mockEntry{step: step})
	}
	return mt
}

func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	for i := range mt.steps {
		e := &mt.steps[i]
		if e.step.MatchURL != "" && !strings.HasPrefix(req.URL.String(), e.step.MatchURL) {
			continue
		}
		e.calls = append(e.calls, string(body))
		return response(req, e.step), nil
	}

	if mt.require {
		return nil, fmt.Errorf("testkit: unexpected outgoing call to %s", req.URL)
	}
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(`{"error":"no mock configured"}`)),
		Request:    req,
	}, nil
}

// Calls returns the request bodies received by the step at index i.
func (mt *MockTransport) Calls(i int) []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if i < 0 || i >= len(mt.steps) {
		return nil
	}
	return append([]string(nil), mt.steps[i].calls...)
}

// Uncalled lists the MatchURL of every step that was never hit.
func (mt *MockTransport) Uncalled() []string {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	var out []string
	for _, e := range mt.steps {
		if len(e.calls) == 0 {
			out = append(out, e.step.MatchURL)
		}
	}
	return out
}

func response(req *http.Request, step MockStep) *http.Response {
	code := step.Status
	if code == 0 {
		code = http.StatusOK
	}
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(step.Body)),
		Request:    req,
	}
}
