// Package testkit drives REST API tests from JSON scenario files.
//
// A file holds an ordered list of scenarios that share one handler, so a
// later step can use what an earlier one created:
//
//	[
//	  {"name": "open session", "method": "POST", "url": "/api/session",
//	   "expectedCode": 200, "capture": {"sid": "sessionId"}},
//	  {"name": "ask", "method": "POST", "url": "/api/chat",
//	   "body": {"sessionId": "{{sid}}", "messages": [{"role": "user", "content": "hi"}]},
//	   "mocks": [{"matchUrl": "http://chat.test/", "body": {"reply": "hello"}}],
//	   "expect": {"reply": "hello"}}
//	]
//
// Outgoing calls made through pkg/http are answered by the scenario's mocks.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario is one request and what its response must contain.
type Scenario struct {
	Name    string            `json:"name"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`

	ExpectedCode int `json:"expectedCode"`
	// Expect is matched as a subset of the response body: extra keys in the
	// response are ignored, arrays must have the same length.
	Expect json.RawMessage `json:"expect"`

	// Capture stores values from the response body under a variable name;
	// later scenarios reference them as {{name}}.
	Capture map[string]string `json:"capture"`

	Mocks []MockStep `json:"mocks"`
	// MockRequired turns an unmatched outgoing call into a transport error.
	MockRequired bool `json:"mockRequired"`
}

// MockStep answers outgoing requests whose URL starts with MatchURL. An
// empty MatchURL matches any request.
type MockStep struct {
	MatchURL string          `json:"matchUrl"`
	Status   int             `json:"status"`
	Body     json.RawMessage `json:"body"`
}

// LoadFile reads the scenario list stored at path.
func LoadFile(path string) ([]*Scenario, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	for i, s := range scenarios {
		if err := s.normalize(); err != nil {
			return nil, fmt.Errorf("testkit: %q scenario %d: %w", path, i, err)
		}
	}
	return scenarios, nil
}

func (s *Scenario) normalize() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	s.Method = strings.ToUpper(s.Method)
	if s.Method == "" {
		s.Method = "GET"
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = 200
	}
	return nil
}

// expand replaces {{name}} placeholders with captured values.
func expand(s string, vars map[string]string) string {
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}

// lookup walks a dotted path ("data.id", "messages.0.role") through a
// decoded JSON document.
func lookup(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			var i int
			if _, err := fmt.Sscanf(seg, "%d", &i); err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
