package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	GuestCartTTL = 24 * time.Hour
	UserCartTTL  = 7 * 24 * time.Hour
)

// Cart belongs to exactly one of a user (UserID set) or a guest session
// (SessionID set). All items share one restaurant; TotalAmount and
// ItemCount are recomputed on every mutation before persisting.
type Cart struct {
	gorm.Model
	UserID    *uint  `gorm:"index" json:"userId,omitempty"`
	SessionID string `gorm:"index" json:"sessionId,omitempty"`

	RestaurantID *uint       `json:"restaurantId"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`

	Items []CartItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	TotalAmount float64   `json:"totalAmount"`
	ItemCount   int       `json:"itemCount"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	ExpiresAt   time.Time `gorm:"index" json:"expiresAt"`
}

func (c *Cart) TTL() time.Duration {
	if c.UserID != nil {
		return UserCartTTL
	}
	return GuestCartTTL
}
