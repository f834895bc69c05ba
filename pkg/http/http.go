// Package http is a small fluent client for outgoing JSON calls, used by the
// chat provider and the API client.
//
//	var out replyBody
//	err := http.Post(url).
//	    Bearer(key).
//	    Timeout(10 * time.Second).
//	    Retry(3, 500*time.Millisecond).
//	    Body(in).
//	    Into(ctx, &out)
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is shared by every request. Tests swap its Transport and
// call ResetTransport afterwards.
var DefaultClient = &gohttp.Client{Transport: defaultTransport}

func ResetTransport() { DefaultClient.Transport = defaultTransport }

// StatusError is returned by Throw and Into for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http: %s %s returned %d: %s", e.Method, e.URL, e.Status, truncate(e.Body, 256))
}

type Request struct {
	method    string
	url       string
	headers   map[string]string
	query     map[string]string
	body      any
	timeout   time.Duration
	attempts  int
	retryWait time.Duration
}

func Get(url string) *Request    { return newRequest(gohttp.MethodGet, url) }
func Post(url string) *Request   { return newRequest(gohttp.MethodPost, url) }
func Put(url string) *Request    { return newRequest(gohttp.MethodPut, url) }
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, url string) *Request {
	return &Request{
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		query:     map[string]string{},
		timeout:   30 * time.Second,
		attempts:  1,
		retryWait: 500 * time.Millisecond,
	}
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Bearer sets Authorization when token is non-empty.
func (r *Request) Bearer(token string) *Request {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

func (r *Request) Query(key, value string) *Request {
	r.query[key] = value
	return r
}

// Body sets the payload. Strings and byte slices are sent as-is, anything
// else is JSON encoded.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout bounds each attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Retry sets the total number of attempts; wait doubles after each failure.
// Transport errors and 5xx responses are retried, 4xx are not.
func (r *Request) Retry(attempts int, wait time.Duration) *Request {
	if attempts < 1 {
		attempts = 1
	}
	r.attempts = attempts
	r.retryWait = wait
	return r
}

// Send performs the request. A non-2xx response is not an error here; use
// Throw or Into for that.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	var (
		resp    *Response
		lastErr error
	)
	wait := r.retryWait
	for attempt := 1; attempt <= r.attempts; attempt++ {
		resp, lastErr = r.do(ctx)
		if lastErr == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == r.attempts {
			break
		}
		logger.WithCtx(ctx).Warn("http: retrying request",
			"method", r.method, "url", r.url, "attempt", attempt, "backoff", wait, "error", lastErr)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	if lastErr != nil {
		return nil, fmt.Errorf("http: %s %s failed after %d attempts: %w", r.method, r.url, r.attempts, lastErr)
	}
	return resp, nil
}

// Into sends the request and decodes a 2xx JSON body into dest (which may
// be nil).
func (r *Request) Into(ctx context.Context, dest any) error {
	resp, err := r.Send(ctx)
	if err != nil {
		return err
	}
	if err := resp.Throw(); err != nil {
		return err
	}
	if dest == nil || len(resp.Raw) == 0 {
		return nil
	}
	return resp.JSON(dest)
}

func (r *Request) do(ctx context.Context) (*Response, error) {
	body, ct, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}
	if len(r.query) > 0 {
		q := req.URL.Query()
		for k, v := range r.query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	res, err := DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	return &Response{StatusCode: res.StatusCode, Headers: res.Header, Raw: raw, method: r.method, url: r.url}, nil
}

func (r *Request) encodeBody() (io.Reader, string, error) {
	switch v := r.body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte

	method, url string
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

func (r *Response) Text() string { return string(r.Raw) }

// Throw returns a *StatusError for non-2xx responses.
func (r *Response) Throw() error {
	if r.OK() {
		return nil
	}
	return &StatusError{Method: r.method, URL: r.url, Status: r.StatusCode, Body: r.Raw}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
