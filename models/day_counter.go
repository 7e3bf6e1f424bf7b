package models

import (
	"time"
)

// DayCounter backs order numbering: one row per calendar day, bumped with
// an atomic increment. Old rows are purged by housekeeping.
type DayCounter struct {
	Day       string    `gorm:"primaryKey;type:varchar(6)"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}
