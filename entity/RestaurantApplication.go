package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// RestaurantApplication holds a prospective owner plus restaurant fields.
// Nothing downstream exists until an admin approves it; approval creates the
// owner user and the restaurant in one transaction and records the
// back-references here.
type RestaurantApplication struct {
	gorm.Model
	// restaurant details
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Address     string `gorm:"not null" json:"address"`
	Phone       string `json:"phone"`
	Cuisine     string `gorm:"default:General" json:"cuisine"`
	Image       string `json:"image"`

	// owner details (password already hashed at submit time)
	OwnerName     string `gorm:"not null" json:"ownerName"`
	OwnerEmail    string `gorm:"index;not null" json:"ownerEmail"`
	OwnerPhone    string `json:"ownerPhone"`
	OwnerPassword string `json:"-"`

	Status     string `gorm:"not null;default:pending" json:"status"`
	AdminNotes string `json:"adminNotes"`

	ReviewedByID *uint      `json:"reviewedById,omitempty"`
	ReviewedBy   *User      `json:"-"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`

	CreatedUserID       *uint `json:"createdUserId,omitempty"`
	CreatedRestaurantID *uint `json:"createdRestaurantId,omitempty"`
}
