package entity

import (
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	FoodID uint `json:"foodId"`
	Food   Food `json:"-"`

	Name     string  `json:"name"`
	Price    float64 `json:"price"` // snapshot, never re-priced
	Quantity int     `gorm:"not null" json:"quantity"`
}
