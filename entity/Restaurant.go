package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Code        string `gorm:"uniqueIndex" json:"code"` // prefix for order numbers
	Description string `json:"description"`
	Address     string `gorm:"not null" json:"address"`
	Phone       string `json:"phone"`
	Cuisine     string `json:"cuisine"`
	Image       string `json:"image"`
	IsOpen      bool   `gorm:"not null;default:true" json:"isOpen"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`

	OwnerID uint `gorm:"index" json:"ownerId"`
	Owner   User `json:"-"`

	Foods  []Food  `json:"-"`
	Orders []Order `json:"-"`
}
