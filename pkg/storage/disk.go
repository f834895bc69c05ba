// Package storage keeps uploaded files (product images) on a local
// directory or an S3-compatible bucket.
//
//	storage.Connect(ctx)
//	url, err := storage.Default().Put(ctx, "products/7/photo.jpg", r, "image/jpeg")
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidPath is returned for empty or escaping paths.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is a storage driver.
type Disk interface {
	// Put stores r at p and returns its public URL.
	Put(ctx context.Context, p string, r io.Reader, contentType string) (string, error)
	Get(ctx context.Context, p string) (io.ReadCloser, error)
	Exists(ctx context.Context, p string) (bool, error)
	// Delete is a no-op for missing files.
	Delete(ctx context.Context, p string) error
	URL(p string) string
}

// Clean normalises p to a slash-separated relative key and rejects paths
// that would leave the disk root.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" || cleaned == "." || strings.HasPrefix(path.Clean(p), "..") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
