package models

import (
	"time"

	"github.com/shashiranjanraj/bizadmin/pkg/report"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatSession struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"              json:"created_at"`
}

func (ChatSession) TableName() string { return "chat_sessions" }

// ChatMessage is append-only.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey"                json:"-"`
	SessionID string    `gorm:"size:36;not null;index"    json:"session_id"`
	Role      string    `gorm:"size:20;not null"          json:"role"`
	Content   string    `gorm:"type:text;not null"        json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime"            json:"date"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

func (m ChatMessage) Report() report.Message {
	return report.Message{SessionID: m.SessionID, Role: m.Role, Content: m.Content, Date: m.CreatedAt}
}
