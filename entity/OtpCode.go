package entity

import (
	"time"

	"gorm.io/gorm"
)

// OtpCode is a pending registration waiting for email verification. The row
// carries everything needed to create the user so nothing lives in process
// memory; expired rows are purged periodically.
type OtpCode struct {
	gorm.Model
	Email        string    `gorm:"index;not null" json:"email"`
	Code         string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
