package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a root directory and serves them through
// Handler.
type Local struct {
	root    string
	baseURL string
}

func NewLocal(root, baseURL string) *Local {
	if !filepath.IsAbs(root) {
		if cwd, err := os.Getwd(); err == nil {
			root = filepath.Join(cwd, root)
		}
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *Local) abs(p string) (string, string, error) {
	key, err := Clean(p)
	if err != nil {
		return "", "", err
	}
	return key, filepath.Join(d.root, filepath.FromSlash(key)), nil
}

func (d *Local) Put(ctx context.Context, p string, r io.Reader, _ string) (string, error) {
	key, full, err := d.abs(p)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("storage/local: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage/local: close %s: %w", key, err)
	}
	return d.URL(key), nil
}

func (d *Local) Get(_ context.Context, p string) (io.ReadCloser, error) {
	key, full, err := d.abs(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", key, err)
	}
	return f, nil
}

func (d *Local) Exists(_ context.Context, p string) (bool, error) {
	_, full, err := d.abs(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (d *Local) Delete(_ context.Context, p string) error {
	key, full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", key, err)
	}
	return nil
}

func (d *Local) URL(p string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}

// Handler serves the stored files; mount it under /storage. Directory
// listings are disabled.
func (d *Local) Handler() http.Handler {
	fs := http.FileServer(http.Dir(d.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}
