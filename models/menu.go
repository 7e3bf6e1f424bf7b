package models

import "time"

type Menu struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(255); not null"`
	Price       float64   `gorm:"type:decimal(10,2); not null"`
	Description string    `gorm:"type:text"`
	Available   bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
