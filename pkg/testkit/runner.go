package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/shashiranjanraj/bizadmin/pkg/http"
)

// RunFile runs every scenario stored at path against h, in order, each as a
// subtest. A failed capture stops the remaining scenarios.
func RunFile(t *testing.T, h http.Handler, path string) {
	t.Helper()

	scenarios, err := LoadFile(path)
	require.NoError(t, err)

	vars := map[string]string{}
	for _, s := range scenarios {
		if !t.Run(s.Name, func(t *testing.T) { Run(t, h, s, vars) }) && len(s.Capture) > 0 {
			t.Fatalf("testkit: %q failed, later scenarios depend on its captures", s.Name)
		}
	}
}

// Run fires one scenario. Captured values are written into vars.
func Run(t *testing.T, h http.Handler, s *Scenario, vars map[string]string) {
	t.Helper()

	mt := NewMockTransport(s)
	pkghttp.DefaultClient.Transport = mt
	defer pkghttp.ResetTransport()

	body := strings.NewReader(expand(string(s.Body), vars))
	req := httptest.NewRequest(s.Method, expand(s.URL, vars), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, expand(v, vars))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, s.ExpectedCode, rec.Code, "[%s] status, body: %s", s.Name, rec.Body.String())
	if len(s.Expect) > 0 {
		AssertSubset(t, s.Name, []byte(expand(string(s.Expect), vars)), rec.Body.Bytes())
	}
	for _, u := range mt.Uncalled() {
		t.Errorf("[%s] mock %q was never called", s.Name, u)
	}

	if len(s.Capture) == 0 {
		return
	}
	var doc any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc), "[%s] capture needs a JSON body", s.Name)
	for name, path := range s.Capture {
		v, ok := lookup(doc, path)
		require.True(t, ok, "[%s] capture %q: no value at %q", s.Name, name, path)
		vars[name] = fmt.Sprint(v)
	}
}
