package models

import "time"

type Table struct {
	ID          uint        `gorm:"primaryKey"`
	TableNumber string      `gorm:"type:varchar(50);uniqueIndex;not null"`
	Capacity    int         `gorm:"not null;default:2"`
	Status      TableStatus `gorm:"type:varchar(50);not null;default:'available'"`
	// CurrentOrderID remembers the order that first occupied the table.
	// Occupancy truth is always re-derived from active orders, never from
	// this pointer alone.
	CurrentOrderID *uint `gorm:"index"`
	OccupiedAt     *time.Time
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}
