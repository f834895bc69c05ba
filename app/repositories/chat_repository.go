package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/models"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, id string) (*models.ChatSession, error) {
	defer metrics.ObserveDBQuery("chat_sessions", "insert", time.Now())
	s := &models.ChatSession{ID: id}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ChatRepository) SessionExists(ctx context.Context, id string) (bool, error) {
	defer metrics.ObserveDBQuery("chat_sessions", "select", time.Now())
	var s models.ChatSession
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Append stores msgs in order within one transaction.
func (r *ChatRepository) Append(ctx context.Context, msgs ...*models.ChatMessage) error {
	defer metrics.ObserveDBQuery("chat_messages", "insert", time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range msgs {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// History returns every message in arrival order.
func (r *ChatRepository) History(ctx context.Context) ([]models.ChatMessage, error) {
	defer metrics.ObserveDBQuery("chat_messages", "select", time.Now())
	out := []models.ChatMessage{}
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *ChatRepository) BySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	defer metrics.ObserveDBQuery("chat_messages", "select", time.Now())
	out := []models.ChatMessage{}
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("id").Find(&out).Error
	return out, err
}
