package models

import (
	"time"
)

const (
	SessionActive = "active"
	SessionClosed = "closed"
)

// Customer is a table session: one row per seated party. Sessions never
// drive table occupancy; that derives from active orders.
type Customer struct {
	ID          uint      `gorm:"primaryKey"`
	TableNumber string    `gorm:"type:varchar(50);not null;index"`
	SessionKey  *string   `gorm:"type:varchar(255)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
