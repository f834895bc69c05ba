// Package seeders fills an empty database with an admin account and a few
// sample rows.
package seeders

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

type SeederFunc func(ctx context.Context, db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []entry
)

func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll runs every seeder in registration order and stops at the first
// failure. It returns the names that ran.
func RunAll(ctx context.Context, db *gorm.DB) ([]string, error) {
	mu.Lock()
	current := append([]entry(nil), entries...)
	mu.Unlock()

	var ran []string
	for _, e := range current {
		if err := e.fn(ctx, db.WithContext(ctx)); err != nil {
			return ran, fmt.Errorf("seeder %q: %w", e.name, err)
		}
		logger.Info("seeder: done", "name", e.name)
		ran = append(ran, e.name)
	}
	return ran, nil
}
