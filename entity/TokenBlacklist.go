package entity

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist holds logged-out JWTs until they expire on their own.
// Checked by both the HTTP and the WebSocket auth middleware.
type TokenBlacklist struct {
	gorm.Model
	Token     string    `gorm:"index;not null" json:"-"`
	UserID    uint      `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
