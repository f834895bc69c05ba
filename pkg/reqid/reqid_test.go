package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bizadmin/pkg/reqid"
)

func serve(header string) (string, string) {
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(reqid.Header)
}

func TestGeneratesID(t *testing.T) {
	seen, echoed := serve("")
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, echoed)
}

func TestReusesUpstreamID(t *testing.T) {
	seen, echoed := serve("gateway-123")
	assert.Equal(t, "gateway-123", seen)
	assert.Equal(t, "gateway-123", echoed)
}

func TestRejectsOversizedID(t *testing.T) {
	seen, _ := serve(strings.Repeat("a", 200))
	assert.NotEqual(t, strings.Repeat("a", 200), seen)
	assert.Len(t, seen, 36)
}
