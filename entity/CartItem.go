package entity

import (
	"gorm.io/gorm"
)

type CartItem struct {
	gorm.Model
	CartID uint `gorm:"index" json:"cartId"`
	Cart   Cart `json:"-"`

	FoodID uint `json:"foodId"`
	Food   Food `json:"food"`

	RestaurantID uint `json:"restaurantId"`

	Quantity            int     `gorm:"not null;default:1" json:"quantity"`
	Price               float64 `json:"price"` // unit price snapshot at add time
	SpecialInstructions string  `gorm:"size:500" json:"specialInstructions"`
}
