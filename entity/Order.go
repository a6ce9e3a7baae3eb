package entity

import (
	"gorm.io/gorm"
)

// Order is immutable after creation except for Status (and Notes on
// cancellation). Items carry a price snapshot so later menu edits never
// change what was billed.
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"uniqueIndex;not null" json:"orderNumber"`

	CustomerID uint `gorm:"index" json:"customerId"`
	Customer   User `json:"-"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	// denormalized at creation time
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`

	Items []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	TotalAmount float64 `json:"totalAmount"`
	Status      string  `gorm:"not null;default:pending" json:"status"`

	PaymentID     *uint  `json:"paymentId,omitempty"`
	PaymentStatus string `gorm:"not null;default:pending" json:"paymentStatus"`
	PaymentMethod string `gorm:"not null;default:online" json:"paymentMethod"`

	Notes string `json:"notes"`
}
