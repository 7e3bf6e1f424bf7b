package models

import (
	"time"
)

// OrderStatusLog is an append-only audit row written alongside every
// applied transition, in the same transaction.
type OrderStatusLog struct {
	ID        uint        `gorm:"primaryKey"`
	OrderID   uint        `gorm:"not null;index"`
	Status    OrderStatus `gorm:"type:varchar(20);not null"`
	Actor     string      `gorm:"type:varchar(255)"`
	Note      string      `gorm:"type:text"`
	CreatedAt time.Time   `gorm:"not null"`
}
