package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkghttp "github.com/shashiranjanraj/bizadmin/pkg/http"
	apiresponse "github.com/shashiranjanraj/bizadmin/pkg/response"
)

func itemsHandler() http.Handler {
	r := chi.NewRouter()
	r.Post("/items", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		in["id"] = "42"
		apiresponse.Created(w, "created", in)
	})
	r.Get("/items/{id}/price", func(w http.ResponseWriter, r *http.Request) {
		var out struct {
			Price string `json:"price"`
		}
		if err := pkghttp.Get("http://prices.test/v1/"+chi.URLParam(r, "id")).Into(r.Context(), &out); err != nil {
			apiresponse.Error(w, http.StatusBadGateway, err.Error())
			return
		}
		apiresponse.JSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id"), "price": out.Price})
	})
	return r
}

func TestRunFile(t *testing.T) {
	RunFile(t, itemsHandler(), "testdata/proxy.json")
}

func TestLoadFileDefaults(t *testing.T) {
	scenarios, err := LoadFile("testdata/proxy.json")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	assert.Equal(t, "GET", scenarios[1].Method)
	assert.Equal(t, 200, scenarios[1].ExpectedCode)
	assert.True(t, scenarios[1].MockRequired)
}

func TestDiffIgnoresExtraKeys(t *testing.T) {
	exp := map[string]any{"a": 1.0, "list": []any{map[string]any{"role": "user"}}}
	act := map[string]any{"a": 1.0, "b": 2.0, "list": []any{map[string]any{"role": "user", "content": "x"}}}
	assert.Empty(t, Diff("", exp, act))

	act["list"] = []any{}
	assert.Len(t, Diff("", exp, act), 1)
	assert.NotEmpty(t, Diff("", map[string]any{"missing": true}, act))
}

func TestLookup(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"messages":[{"role":"user"}],"n":3}`), &doc))

	v, ok := lookup(doc, "messages.0.role")
	assert.True(t, ok)
	assert.Equal(t, "user", v)

	_, ok = lookup(doc, "messages.5.role")
	assert.False(t, ok)
	_, ok = lookup(doc, "n.x")
	assert.False(t, ok)
}

func TestMockTransportRequired(t *testing.T) {
	mt := NewMockTransport(&Scenario{MockRequired: true, Mocks: []MockStep{{MatchURL: "http://a.test/"}}})
	client := &http.Client{Transport: mt}

	_, err := client.Get("http://b.test/")
	assert.Error(t, err)

	res, err := client.Post("http://a.test/x", "application/json", nil)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, mt.Uncalled())
	assert.Len(t, mt.Calls(0), 1)
}

func TestAssertSubset(t *testing.T) {
	rec := httptest.NewRecorder()
	apiresponse.JSON(rec, http.StatusOK, map[string]string{"reply": "a"})
	assert.True(t, AssertSubset(t, "y", []byte(`{"reply":"a"}`), rec.Body.Bytes()))
}
