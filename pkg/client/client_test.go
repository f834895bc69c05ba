package client

import (
	"context"
	"encoding/json"
	"io"
	gohttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type food struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestResourceUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		switch {
		case r.Method == gohttp.MethodGet && r.URL.Path == "/api/food":
			w.Write([]byte(`{"status":200,"message":"Foods fetched successfully","data":[{"id":1,"name":"Apple"}]}`))
		case r.Method == gohttp.MethodPut && r.URL.Path == "/api/food/1":
			body, _ := io.ReadAll(r.Body)
			var in map[string]any
			require.NoError(t, json.Unmarshal(body, &in))
			assert.Equal(t, "Pear", in["name"])
			w.Write([]byte(`{"status":200,"message":"Food updated successfully","data":{"id":1,"name":"Pear"}}`))
		default:
			w.WriteHeader(gohttp.StatusNotFound)
			w.Write([]byte(`{"status":404,"message":"Food not found"}`))
		}
	}))
	defer srv.Close()

	foods := NewResource[food](New(srv.URL), "api/food")
	ctx := context.Background()

	rows, err := foods.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []food{{1, "Apple"}}, rows)

	row, err := foods.Update(ctx, 1, map[string]any{"name": "Pear"})
	require.NoError(t, err)
	assert.Equal(t, "Pear", row.Name)

	_, err = foods.Delete(ctx, 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Food not found")
}

func TestChatAndSummary(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		switch r.URL.Path {
		case "/session":
			w.Write([]byte(`{"sessionId":"abc"}`))
		case "/chat":
			w.Write([]byte(`{"reply":"hello"}`))
		case "/sessions-summary":
			w.Write([]byte(`{"sessions":[{"session_id":"abc","message_count":2,"last_message":"hello","last_date":"2024-01-01T00:00:00Z"}]}`))
		case "/history":
			w.Write([]byte(`{"messages":[{"session_id":"abc","role":"user","content":"hi","date":"2024-01-01T00:00:00Z"}]}`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	id, err := c.NewSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	reply, err := c.Chat(ctx, id, []Turn{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)

	sums, err := c.SessionsSummary(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 2, sums[0].MessageCount)

	msgs, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
}

func TestValidationErrorCarriesFields(t *testing.T) {
	srv := httptest.NewServer(gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		w.WriteHeader(gohttp.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":422,"message":"Validation failed","data":null,"errors":{"sessionId":"sessionId is required"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Chat(context.Background(), "", nil)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 422, ae.Status)
	assert.Equal(t, "sessionId is required", ae.Errors["sessionId"])
}
