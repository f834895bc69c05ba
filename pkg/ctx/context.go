// Package ctx provides the request context handed to every API handler.
//
// Handlers receive a single *Context and return an error; anything they
// return goes through one error handler that turns it into an envelope:
//
//	func (fc *FoodController) Update(c *ctx.Context) error {
//	    id, err := c.ParamID("id")
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	    c.Success("Food updated successfully", food)
//	    return nil
//	}
//
//	router.Put("/food/{id}", "food.update", ctx.Handle(fc.Update))
package ctx

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/bind"
	"github.com/shashiranjanraj/bizadmin/pkg/errs"
	"github.com/shashiranjanraj/bizadmin/pkg/logger"
	"github.com/shashiranjanraj/bizadmin/pkg/response"
	"github.com/shashiranjanraj/bizadmin/pkg/validate"
)

// HandlerFunc is a context handler that writes its own response.
type HandlerFunc func(c *Context)

// ErrorHandlerFunc is a context handler that may fail.
type ErrorHandlerFunc func(c *Context) error

// ErrorHandler receives every error returned by an ErrorHandlerFunc. It is
// a variable so tests and apps can swap the rendering.
var ErrorHandler = DefaultErrorHandler

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Handle converts an ErrorHandlerFunc to a standard http.HandlerFunc,
// routing a returned error through ErrorHandler.
func Handle(h ErrorHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		if err := h(c); err != nil {
			c.Fail(err)
		}
	}
}

// DefaultErrorHandler logs err and writes the classified envelope. Outside
// production the error text is appended to generic 500 messages.
func DefaultErrorHandler(c *Context, err error) {
	cl := errs.Classify(err)
	log := logger.WithCtx(c.Context())

	if cl.Status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err, "method", c.Method(), "path", c.Path())
	} else {
		log.Debug("request rejected", "status", cl.Status, "error", err)
	}

	if c.WrittenStatus() != 0 {
		return
	}

	if len(cl.Fields) > 0 {
		c.ValidationError(cl.Fields)
		return
	}

	msg := cl.Message
	if cl.Internal && !config.IsProduction() {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	c.Error(cl.Status, msg)
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int // written status code (0 = not written yet)
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/food/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamID parses a numeric path parameter. A non-numeric value is a 400.
func (c *Context) ParamID(key string) (uint, error) {
	raw := c.Param(key)
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errs.BadRequest(fmt.Sprintf("invalid %s %q", key, raw), err)
	}
	return uint(n), nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Method() string { return c.R.Method }

func (c *Context) Path() string { return c.R.URL.Path }

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// FormFile returns the first uploaded file for key from a multipart body
// capped at maxBytes.
func (c *Context) FormFile(key string, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxBytes)
	if err := c.R.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, errs.BadRequest("invalid multipart body", err)
	}
	f, fh, err := c.R.FormFile(key)
	if err != nil {
		return nil, nil, errs.BadRequest(fmt.Sprintf("missing file field %q", key), err)
	}
	return f, fh, nil
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value for later middleware or handlers.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

func (c *Context) GetUint(key string) uint {
	v, _ := c.Get(key)
	u, _ := v.(uint)
	return u
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// Bind decodes the JSON body into dest and runs `validate` tags. Malformed
// JSON is a 400, failed rules a 422; both are returned as errors for the
// error handler.
func (c *Context) Bind(dest any) error {
	fields, err := bind.JSON(c.R, dest)
	if err != nil {
		return errs.BadRequest(err.Error(), err)
	}
	if validate.HasErrors(fields) {
		return errs.Validation(fields)
	}
	return nil
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v as-is with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Respond writes the {status, message, data} envelope.
func (c *Context) Respond(code int, message string, data any) {
	c.status = code
	response.Respond(c.W, code, message, data)
}

func (c *Context) Success(message string, data any) {
	c.Respond(http.StatusOK, message, data)
}

func (c *Context) Created(message string, data any) {
	c.Respond(http.StatusCreated, message, data)
}

func (c *Context) Error(code int, message string) {
	c.Respond(code, message, nil)
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(fields map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, fields)
}

func (c *Context) NotFound(message ...string) {
	msg := "Not found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Error(http.StatusNotFound, msg)
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// Fail hands err to ErrorHandler.
func (c *Context) Fail(err error) {
	ErrorHandler(c, err)
}

// WrittenStatus returns the status code already written, or 0.
func (c *Context) WrittenStatus() int { return c.status }
