package models

import (
	"strings"
	"time"
)

// User is an admin account, used only when auth is enabled.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"`
	Role      string    `gorm:"size:50;default:admin"         json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func join(parts ...*string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(*p)
	}
	return b.String()
}
