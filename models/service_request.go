package models

import (
	"time"
)

// ServiceRequest is an ancillary ask from a table (water, bill, cleanup)
// attached to an order but claimed and resolved on its own.
type ServiceRequest struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	OrderID     uint                 `gorm:"not null;index" json:"order_id"`
	Order       *Order               `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber string               `gorm:"type:varchar(50);not null;index" json:"table_number"`
	Kind        ServiceRequestKind   `gorm:"type:varchar(20);not null" json:"kind"`
	Note        string               `gorm:"type:text" json:"note,omitempty"`
	Status      ServiceRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	StaffID     *uint                `gorm:"index" json:"staff_id,omitempty"`
	Staff       *User                `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	StaffName   *string              `gorm:"type:varchar(255)" json:"staff_name,omitempty"`
	AssignedAt  *time.Time           `json:"assigned_at,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	CancelledAt *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time            `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"not null" json:"updated_at"`
}
