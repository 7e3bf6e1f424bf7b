package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
)

// Event types published after successful writes.
const (
	OrderCreated           = "order_created"
	OrderStatusChanged     = "order_status_changed"
	ServiceRequested       = "service_requested"
	ServiceRequestResolved = "service_request_resolved"
	TableOccupied          = "table_occupied"
	TableReleased          = "table_released"
)

// Emitter receives a domain event strictly after the write that caused
// it has committed. Delivery is at-least-once: a retried intent may
// publish the same event again, so consumers key on EventID. Publish
// must not fail the calling operation; problems are logged and dropped.
type Emitter interface {
	Publish(eventType string, payload interface{})
}

type OrderEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     uint      `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	ChefName    string    `json:"chef_name,omitempty"`
	TotalAmount float64   `json:"total_amount"`
	At          time.Time `json:"at"`
}

type ServiceRequestEvent struct {
	EventID     string    `json:"event_id"`
	RequestID   uint      `json:"request_id"`
	OrderID     uint      `json:"order_id"`
	TableNumber string    `json:"table_number"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	StaffName   string    `json:"staff_name,omitempty"`
	At          time.Time `json:"at"`
}

type TableEvent struct {
	EventID     string    `json:"event_id"`
	TableNumber string    `json:"table_number"`
	Status      string    `json:"status"`
	OrderID     *uint     `json:"order_id,omitempty"`
	At          time.Time `json:"at"`
}

func ForOrder(o *models.Order) OrderEvent {
	ev := OrderEvent{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		TableNumber: o.TableNumber,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		At:          time.Now(),
	}
	if o.ChefName != nil {
		ev.ChefName = *o.ChefName
	}
	return ev
}

func ForRequest(r *models.ServiceRequest) ServiceRequestEvent {
	ev := ServiceRequestEvent{
		EventID:     uuid.NewString(),
		RequestID:   r.ID,
		OrderID:     r.OrderID,
		TableNumber: r.TableNumber,
		Kind:        string(r.Kind),
		Status:      string(r.Status),
		At:          time.Now(),
	}
	if r.StaffName != nil {
		ev.StaffName = *r.StaffName
	}
	return ev
}

func ForTable(t *models.Table) TableEvent {
	return TableEvent{
		EventID:     uuid.NewString(),
		TableNumber: t.TableNumber,
		Status:      string(t.Status),
		OrderID:     t.CurrentOrderID,
		At:          time.Now(),
	}
}

// Fanout forwards every event to each emitter in order.
type Fanout []Emitter

func (f Fanout) Publish(eventType string, payload interface{}) {
	for _, e := range f {
		e.Publish(eventType, payload)
	}
}

// Nop drops everything. Used where no consumer is wired, and in tests.
type Nop struct{}

func (Nop) Publish(string, interface{}) {}
