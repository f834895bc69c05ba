package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/pkg/logger"
)

// FailedJobRecord is a job that exhausted its retries.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:255;not null;index"  json:"job_type"`
	Payload  string    `gorm:"type:text;not null"       json:"payload"`
	Error    string    `gorm:"type:text"                json:"error"`
	Attempts int       `gorm:"not null;default:0"       json:"attempts"`
	FailedAt time.Time `gorm:"autoCreateTime"           json:"failed_at"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// FailedStore persists exhausted jobs.
type FailedStore interface {
	SaveFailed(ctx context.Context, rec *FailedJobRecord) error
}

// GormFailedStore writes failed jobs to the failed_jobs table (created by
// the migrations).
type GormFailedStore struct{ DB *gorm.DB }

func (s GormFailedStore) SaveFailed(ctx context.Context, rec *FailedJobRecord) error {
	return s.DB.WithContext(ctx).Create(rec).Error
}

// Prune deletes records older than age and returns how many went.
func (s GormFailedStore) Prune(ctx context.Context, age time.Duration) (int64, error) {
	res := s.DB.WithContext(ctx).Where("failed_at < ?", time.Now().Add(-age)).Delete(&FailedJobRecord{})
	return res.RowsAffected, res.Error
}

func (m *Manager) recordFailed(ctx context.Context, job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Type: typeName, Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	store := m.store
	m.mu.Unlock()

	if store == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}
	msg := ""
	if lastErr != nil {
		msg = lastErr.Error()
	}

	rec := &FailedJobRecord{JobType: typeName, Payload: string(payload), Error: msg, Attempts: attempts}
	if err := store.SaveFailed(context.WithoutCancel(ctx), rec); err != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
