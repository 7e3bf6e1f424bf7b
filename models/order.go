package models

import (
	"time"
)

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"type:varchar(20);uniqueIndex;not null" json:"order_number"`
	TableNumber   string      `gorm:"type:varchar(50);not null;index" json:"table_number"`
	CustomerID    *uint       `gorm:"index" json:"customer_id,omitempty"`
	Customer      *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal      float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax           float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	ServiceCharge float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"service_charge"`
	Discount      float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	PaymentMethod string      `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	PaymentStatus string      `gorm:"type:varchar(10);not null;default:'unpaid'" json:"payment_status"`
	ChefID        *uint       `gorm:"index" json:"chef_id,omitempty"`
	Chef          *User       `gorm:"foreignKey:ChefID" json:"chef,omitempty"`
	// ChefName is snapshotted at claim time so history survives staff changes.
	ChefName        *string          `gorm:"type:varchar(255)" json:"chef_name,omitempty"`
	ConfirmedAt     *time.Time       `json:"confirmed_at,omitempty"`
	PreparingAt     *time.Time       `json:"preparing_at,omitempty"`
	ReadyAt         *time.Time       `json:"ready_at,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	ServedAt        *time.Time       `json:"served_at,omitempty"`
	CancelledAt     *time.Time       `json:"cancelled_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	PrepSeconds     *int             `json:"prep_seconds,omitempty"`
	Rating          *int             `json:"rating,omitempty"`
	Feedback        string           `gorm:"type:text" json:"feedback,omitempty"`
	ServiceRequests []ServiceRequest `gorm:"foreignKey:OrderID" json:"service_requests,omitempty"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updated_at"`
}
