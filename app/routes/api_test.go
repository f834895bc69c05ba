package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/app/repositories"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/auth"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
	"github.com/shashiranjanraj/bizadmin/pkg/storage"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newHandler(t *testing.T, authOn bool) (http.Handler, *gorm.DB) {
	t.Helper()
	return newHandlerWith(t, authOn, services.EchoProvider{})
}

func newHandlerWith(t *testing.T, authOn bool, provider services.ChatProvider) (http.Handler, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&models.Food{}, &models.Lead{}, &models.Product{},
		&models.ChatSession{}, &models.ChatMessage{}, &models.User{},
	))

	svcs := &services.Services{
		Foods:    services.NewFoodService(db, cache.NewMemoryStore(), nil),
		Leads:    services.NewLeadService(db, cache.NewMemoryStore(), nil),
		Products: services.NewProductService(repositories.NewProductRepository(db), nil, nil, storage.NewLocal(t.TempDir(), "/storage")),
		Chat:     services.NewChatService(repositories.NewChatRepository(db), provider, cache.NewMemoryStore(), nil),
		Auth:     services.NewAuthService(repositories.NewUserRepository(db)),
	}
	r := router.New()
	Register(r, Deps{DB: db, Services: svcs, Auth: authOn})
	return r.Handler(), db
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestFoodCRUD(t *testing.T) {
	h, _ := newHandler(t, false)

	rec := do(t, h, http.MethodPost, "/api/food", `{"name":"Pie","descr":"apple","price":12.50,"qty":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decode(t, rec)
	assert.Equal(t, "Food created successfully", env.Message)
	var created models.Food
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, models.Text("12.50"), *created.Price)

	rec = do(t, h, http.MethodGet, "/api/food", "")
	env = decode(t, rec)
	assert.Equal(t, "Foods fetched successfully", env.Message)
	var list []models.Food
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Pie", *list[0].Name)

	rec = do(t, h, http.MethodPut, "/api/food/1", `{"name":"Tart","descr":"lemon","price":"9"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env = decode(t, rec)
	assert.Equal(t, "Food updated successfully", env.Message)
	// the body replaces every field, so the omitted qty is cleared
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Equal(t, "null", string(fields["qty"]))
	assert.Equal(t, `"Tart"`, string(fields["name"]))

	env = decode(t, do(t, h, http.MethodGet, "/api/food", ""))
	list = nil
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Qty)

	rec = do(t, h, http.MethodDelete, "/api/food/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Food deleted successfully", decode(t, rec).Message)

	rec = do(t, h, http.MethodGet, "/api/food", "")
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))
}

func TestUnknownIDIs404(t *testing.T) {
	h, _ := newHandler(t, false)

	for _, tc := range []struct{ method, path, msg string }{
		{http.MethodPut, "/api/leads/42", "Lead not found"},
		{http.MethodDelete, "/api/leads/42", "Lead not found"},
		{http.MethodDelete, "/api/products/42", "Product not found"},
	} {
		rec := do(t, h, tc.method, tc.path, `{"lead_name":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.path)
		env := decode(t, rec)
		assert.Equal(t, tc.msg, env.Message)
		assert.Equal(t, "null", string(env.Data))
	}
}

func TestBadRequests(t *testing.T) {
	h, _ := newHandler(t, false)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/food/abc", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/food", `{"name":`).Code)

	// missing not-null columns are rejected by the database
	rec := do(t, h, http.MethodPost, "/api/food", `{"name":"only"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHome(t *testing.T) {
	h, _ := newHandler(t, false)
	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "The database name is: "))
}

func TestChatFlow(t *testing.T) {
	h, _ := newHandler(t, false)

	rec := do(t, h, http.MethodPost, "/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sess struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.SessionID)

	body := `{"sessionId":"` + sess.SessionID + `","messages":[{"role":"user","content":"hi"}]}`
	rec = do(t, h, http.MethodPost, "/chat", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"reply":"You said: hi"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/history", "")
	var hist struct {
		Messages []map[string]any `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, sess.SessionID, hist.Messages[0]["session_id"])
	assert.Contains(t, hist.Messages[0], "date")

	rec = do(t, h, http.MethodGet, "/sessions-summary", "")
	assert.Contains(t, rec.Body.String(), `"message_count":2`)

	rec = do(t, h, http.MethodGet, "/session/"+sess.SessionID, "")
	assert.Contains(t, rec.Body.String(), "You said: hi")
}

func TestChatValidation(t *testing.T) {
	h, _ := newHandler(t, false)

	rec := do(t, h, http.MethodPost, "/chat", `{"messages":[]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, env.Errors, "sessionId")
	assert.Contains(t, env.Errors, "messages")

	rec = do(t, h, http.MethodPost, "/chat",
		`{"sessionId":"4b7b1b1e-0000-4000-8000-000000000000","messages":[{"role":"robot","content":"x"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Errors, "messages.0.role")
}

func TestProductImageUpload(t *testing.T) {
	h, _ := newHandler(t, false)
	rec := do(t, h, http.MethodPost, "/api/products", `{"title":"Lamp","price":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "lamp.png")
	require.NoError(t, err)
	fw.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/1/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var p models.Product
	require.NoError(t, json.Unmarshal(decode(t, res).Data, &p))
	require.NotNil(t, p.Image)
	assert.True(t, strings.HasPrefix(*p.Image, "/storage/products/1/"))
}

func TestAuthProtectsMutations(t *testing.T) {
	t.Setenv("JWT_SECRET", "routes-secret")
	h, db := newHandler(t, true)

	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, repositories.NewUserRepository(db).Create(context.Background(),
		&models.User{Name: "Admin", Email: "admin@example.com", Password: hash, Role: auth.RoleAdmin}))

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodPost, "/api/leads", `{"lead_name":"x"}`).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/leads", "").Code)

	rec := do(t, h, http.MethodPost, "/api/auth/login", `{"email":"admin@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok services.Token
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tok))

	rec = do(t, h, http.MethodPost, "/api/leads", `{"lead_name":"x"}`, "Authorization", "Bearer "+tok.Token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	other, _, err := auth.GenerateToken(9, "viewer")
	require.NoError(t, err)
	rec = do(t, h, http.MethodPost, "/api/leads", `{"lead_name":"x"}`, "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
