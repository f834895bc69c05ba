package ctx_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/shashiranjanraj/bizadmin/pkg/ctx"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/response"
)

func serve(t *testing.T, pattern, method, target, body string, h appctx.ErrorHandlerFunc) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, appctx.Handle(h))

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env response.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestSuccessEnvelope(t *testing.T) {
	rec, env := serve(t, "/", http.MethodGet, "/", "", func(c *appctx.Context) error {
		c.Success("Foods fetched successfully", []int{1})
		return nil
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, env.Status)
	assert.Equal(t, "Foods fetched successfully", env.Message)
	assert.Equal(t, []any{float64(1)}, env.Data)
}

func TestJSONWritesBareDocument(t *testing.T) {
	rec, _ := serve(t, "/", http.MethodGet, "/", "", func(c *appctx.Context) error {
		c.JSON(http.StatusOK, map[string]string{"reply": "hi"})
		return nil
	})
	assert.JSONEq(t, `{"reply":"hi"}`, rec.Body.String())
}

func TestParamID(t *testing.T) {
	var got uint
	rec, _ := serve(t, "/food/{id}", http.MethodGet, "/food/7", "", func(c *appctx.Context) error {
		id, err := c.ParamID("id")
		got = id
		c.Success("ok", nil)
		return err
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), got)
}

func TestParamIDRejectsNonNumeric(t *testing.T) {
	rec, env := serve(t, "/food/{id}", http.MethodGet, "/food/abc", "", func(c *appctx.Context) error {
		_, err := c.ParamID("id")
		return err
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "invalid id")
}

func TestBindValidationFailure(t *testing.T) {
	rec, env := serve(t, "/", http.MethodPost, "/", `{"name":""}`, func(c *appctx.Context) error {
		var in struct {
			Name string `json:"name" validate:"required"`
		}
		return c.Bind(&in)
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "name")
}

func TestBindMalformedJSON(t *testing.T) {
	rec, _ := serve(t, "/", http.MethodPost, "/", `{"name":`, func(c *appctx.Context) error {
		var in struct {
			Name string `json:"name"`
		}
		return c.Bind(&in)
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBindValid(t *testing.T) {
	var name string
	rec, _ := serve(t, "/", http.MethodPost, "/", `{"name":"Lead","email":"a@b.co"}`, func(c *appctx.Context) error {
		var in struct {
			Name  string `json:"name"  validate:"required"`
			Email string `json:"email" validate:"required,email"`
		}
		if err := c.Bind(&in); err != nil {
			return err
		}
		name = in.Name
		c.Created("created", nil)
		return nil
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Lead", name)
}

func TestReturnedErrorsAreClassified(t *testing.T) {
	rec, env := serve(t, "/", http.MethodGet, "/", "", func(c *appctx.Context) error {
		return errs.NotFound("Food not found")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Food not found", env.Message)
	assert.Nil(t, env.Data)

	rec, env = serve(t, "/", http.MethodGet, "/", "", func(c *appctx.Context) error {
		return errors.New("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(env.Message, "Something went wrong"))
}

func TestErrorAfterWriteKeepsResponse(t *testing.T) {
	rec, env := serve(t, "/", http.MethodGet, "/", "", func(c *appctx.Context) error {
		c.Success("done", nil)
		return errors.New("late failure")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", env.Message)
}

func TestStoreAndClientIP(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")

	appctx.Wrap(func(c *appctx.Context) {
		c.Set("user_id", uint(42))
		assert.Equal(t, uint(42), c.GetUint("user_id"))
		assert.Empty(t, c.GetString("missing"))
		assert.Equal(t, "1.2.3.4", c.ClientIP())
		assert.Equal(t, "def", c.DefaultQuery("q", "def"))
		c.String(http.StatusOK, "ok %d", 1)
	})(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok 1", rec.Body.String())
}
