// Package migration runs ordered, batch-tracked schema migrations.
//
//	func init() {
//	    migration.Register("20240101000000_create_foods_table", &CreateFoodsTable{})
//	}
//
// Names sort chronologically; Run applies every pending migration as one
// batch and Rollback reverts the latest batch.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type named struct {
	name string
	m    Migration
}

// Set is an ordered collection of migrations.
type Set struct {
	mu    sync.Mutex
	items []named
}

func (s *Set) Add(name string, m Migration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, named{name: name, m: m})
}

func (s *Set) sorted() []named {
	s.mu.Lock()
	out := append([]named(nil), s.items...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Default holds migrations registered from init functions.
var Default = &Set{}

func Register(name string, m Migration) { Default.Add(name, m) }

// Status is one line of Runner.Status.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

type Runner struct {
	db  *gorm.DB
	set *Set
}

// New returns a runner over the Default set.
func New(db *gorm.DB) *Runner { return NewWith(db, Default) }

func NewWith(db *gorm.DB, set *Set) *Runner { return &Runner{db: db, set: set} }

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

// Run applies pending migrations and returns their names.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, err
	}
	batch++

	var applied []string
	for _, n := range r.set.sorted() {
		if _, ok := done[n.name]; ok {
			continue
		}
		db := r.db.WithContext(ctx)
		if err := n.m.Up(db); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", n.name, err)
		}
		if err := db.Create(&record{Name: n.name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", n.name, err)
		}
		logger.Info("migration: applied", "name", n.name, "batch", batch)
		applied = append(applied, n.name)
	}
	return applied, nil
}

// Rollback reverts the latest batch in reverse order and returns the
// reverted names.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read batch %d: %w", batch, err)
	}

	known := make(map[string]Migration)
	for _, n := range r.set.sorted() {
		known[n.name] = n.m
	}

	var reverted []string
	for _, rec := range rows {
		m, ok := known[rec.Name]
		if !ok {
			return reverted, fmt.Errorf("migration: %s is not registered", rec.Name)
		}
		db := r.db.WithContext(ctx)
		if err := m.Down(db); err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := db.Delete(&rec).Error; err != nil {
			return reverted, fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}
		logger.Info("migration: rolled back", "name", rec.Name)
		reverted = append(reverted, rec.Name)
	}
	return reverted, nil
}

// Status lists every registered migration in order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}
	var out []Status
	for _, n := range r.set.sorted() {
		rec, ok := done[n.name]
		out = append(out, Status{Name: n.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var last sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&record{}).Select("MAX(batch)").Row().Scan(&last); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return int(last.Int64), nil
}
