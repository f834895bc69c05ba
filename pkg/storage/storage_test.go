package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	for in, want := range map[string]string{
		"products/1/a.png": "products/1/a.png",
		"/products//a.png": "products/a.png",
		"products\\a.png":   "products/a.png",
		"a/./b/../c.png":   "a/c.png",
	} {
		got, err := Clean(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "/", "../etc/passwd", ".."} {
		_, err := Clean(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := NewLocal(t.TempDir(), "http://localhost:3001/storage/")

	url, err := d.Put(ctx, "products/7/photo.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001/storage/products/7/photo.png", url)

	ok, err := d.Exists(ctx, "products/7/photo.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Get(ctx, "products/7/photo.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(b))

	srv := httptest.NewServer(http.StripPrefix("/storage", d.Handler()))
	defer srv.Close()
	res, err := http.Get(srv.URL + "/storage/products/7/photo.png")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, d.Delete(ctx, "products/7/photo.png"))
	require.NoError(t, d.Delete(ctx, "products/7/photo.png"))
	ok, err = d.Exists(ctx, "products/7/photo.png")
	require.NoError(t, err)
	assert.False(t, ok)
}
