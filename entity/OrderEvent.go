package entity

import (
	"time"
)

const (
	OrderEventInsert = "insert"
	OrderEventUpdate = "update"
)

// OrderEvent is the change feed for orders. Rows are appended in the same
// transaction as the order write and tailed by the stream watcher, which
// marks them processed after fan-out. Notification is thereby decoupled
// from the request path and survives a crash after commit.
type OrderEvent struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	OrderID     uint       `gorm:"index;not null" json:"orderId"`
	Kind        string     `gorm:"not null" json:"kind"` // insert | update
	Status      string     `json:"status"`               // order status after the write
	CreatedAt   time.Time  `json:"createdAt"`
	ProcessedAt *time.Time `gorm:"index" json:"processedAt,omitempty"`
}
