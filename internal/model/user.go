package model

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard roles.
const (
	RoleAdmin  = "ADMIN"
	RoleViewer = "VIEWER"
)

// User is a dashboard account. Telegram users are not modeled here; the bot
// trusts whoever talks to it, the web dashboard requires a login.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Username  string    `gorm:"uniqueIndex" json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
}
