package models

import (
	"time"
)

type Notification struct {
	ID uint `gorm:"primaryKey"`
	// Role targets a staff group; empty means everyone.
	Role    string  `gorm:"type:varchar(20);index"`
	Title   *string `gorm:"type:varchar(100)"`
	Message string  `gorm:"type:text;not null"`
	// READ is reserved in MySQL, so the column carries a safe name.
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}
