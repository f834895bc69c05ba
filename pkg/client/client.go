// Package client is a typed client for the bizadmin REST API. It unwraps
// the {status, message, data} envelope and turns error envelopes into
// *APIError.
//
//	c := client.New("http://localhost:3001")
//	foods := client.NewResource[models.Food](c, "/api/food")
//	rows, err := foods.List(ctx)
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/http"
	"github.com/shashiranjanraj/bizadmin/pkg/report"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Errors))
	for k, v := range e.Errors {
		parts = append(parts, k+": "+v)
	}
	return fmt.Sprintf("api: %d %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 404
}

type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: 15 * time.Second}
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// do sends a request and decodes the raw JSON reply (enveloped or not)
// into dest.
func (c *Client) do(ctx context.Context, req *http.Request, dest any) error {
	resp, err := req.Bearer(c.Token).Timeout(c.Timeout).Send(ctx)
	if err != nil {
		return err
	}
	if !resp.OK() {
		var env envelope
		if json.Unmarshal(resp.Raw, &env) != nil || env.Message == "" {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(resp.Text())}
		}
		return &APIError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}
	if dest == nil {
		return nil
	}
	return resp.JSON(dest)
}

// data sends a request and decodes the envelope's data field into dest.
func (c *Client) data(ctx context.Context, req *http.Request, dest any) error {
	var env envelope
	if err := c.do(ctx, req, &env); err != nil {
		return err
	}
	if dest == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("api: decode data: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string { return c.BaseURL + path }

// Login exchanges admin credentials for a token and keeps it on c.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.data(ctx, http.Post(c.url("/api/auth/login")).Body(body), &out); err != nil {
		return "", err
	}
	c.Token = out.Token
	return out.Token, nil
}

// DatabaseName reads the plain-text greeting at GET /.
func (c *Client) DatabaseName(ctx context.Context) (string, error) {
	resp, err := http.Get(c.url("/")).Timeout(c.Timeout).Send(ctx)
	if err != nil {
		return "", err
	}
	if err := resp.Throw(); err != nil {
		return "", err
	}
	return strings.TrimPrefix(resp.Text(), "The database name is: "), nil
}

// Resource is one CRUD collection of the API.
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := r.c.data(ctx, http.Get(r.c.url(r.path)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var out T
	if err := r.c.data(ctx, http.Post(r.c.url(r.path)).Body(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Update(ctx context.Context, id uint, body any) (*T, error) {
	var out T
	if err := r.c.data(ctx, http.Put(r.c.url(r.item(id))).Body(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.c.data(ctx, http.Delete(r.c.url(r.item(id))), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) item(id uint) string {
	return r.path + "/" + strconv.FormatUint(uint64(id), 10)
}

// Turn is one chat message sent to POST /chat.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) NewSession(ctx context.Context) (string, error) {
	var out struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.do(ctx, http.Post(c.url("/session")), &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

// Chat sends the transcript and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, sessionID string, messages []Turn) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	body := map[string]any{"sessionId": sessionID, "messages": messages}
	if err := c.do(ctx, http.Post(c.url("/chat")).Body(body), &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *Client) History(ctx context.Context) ([]report.Message, error) {
	var out struct {
		Messages []report.Message `json:"messages"`
	}
	if err := c.do(ctx, http.Get(c.url("/history")), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SessionMessages(ctx context.Context, id string) ([]report.Message, error) {
	var out struct {
		Messages []report.Message `json:"messages"`
	}
	if err := c.do(ctx, http.Get(c.url("/session/"+id)), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SessionsSummary(ctx context.Context) ([]report.Summary, error) {
	var out struct {
		Sessions []report.Summary `json:"sessions"`
	}
	if err := c.do(ctx, http.Get(c.url("/sessions-summary")), &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}
