package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	PaymentCreated   = "created"
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentCancelled = "cancelled"
)

type SnapshotItem struct {
	FoodID              uint    `json:"foodId"`
	Name                string  `json:"name"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// CartSnapshot freezes the cart at intent-creation time so mutations of the
// live cart cannot affect billing. Stored as a JSON column.
type CartSnapshot struct {
	Items         []SnapshotItem `json:"items"`
	TotalAmount   float64        `json:"totalAmount"`
	CustomerPhone string         `json:"customerPhone"`
}

func (s CartSnapshot) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *CartSnapshot) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		return nil
	}
	return errors.New("unsupported cart snapshot column type")
}

// Payment is one checkout attempt against the gateway. Status advances
// created -> {completed|failed|cancelled}; completed is terminal and guarded
// with an atomic check-and-set so verify and webhook can race safely.
type Payment struct {
	gorm.Model
	GatewayOrderID   string `gorm:"uniqueIndex;not null" json:"gatewayOrderId"`
	GatewayPaymentID string `gorm:"index" json:"gatewayPaymentId"`
	Signature        string `json:"-"`

	UserID uint `gorm:"index" json:"userId"`
	User   User `json:"-"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	Amount   float64 `gorm:"not null" json:"amount"`
	Currency string  `gorm:"not null;default:INR" json:"currency"`
	Status   string  `gorm:"not null;default:created" json:"status"`

	CartData CartSnapshot `gorm:"type:text" json:"cartData"`

	OrderID *uint  `json:"orderId,omitempty"`
	Order   *Order `json:"-"`

	PaidAt        *time.Time `json:"paidAt,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
}
