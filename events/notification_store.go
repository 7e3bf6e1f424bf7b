package events

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

// NotificationStore turns selected events into persistent staff
// notifications that the dashboards poll.
type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Publish(eventType string, payload interface{}) {
	role, title, message := describeEvent(eventType, payload)
	if message == "" {
		return
	}
	notification := models.Notification{Role: role, Title: &title, Message: message}
	if err := s.db.Create(&notification).Error; err != nil {
		utils.ErrorLogger.Errorf("Failed to store %s notification: %v", eventType, err)
	}
}

// describeEvent maps an event to the staff group that should see it. An
// empty message means nobody needs a persistent note for this one.
func describeEvent(eventType string, payload interface{}) (role, title, message string) {
	switch eventType {
	case OrderCreated:
		ev, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		return models.RoleChef, "New order",
			fmt.Sprintf("Order %s for table %s, total %s",
				ev.OrderNumber, ev.TableNumber, utils.FormatAmount(ev.TotalAmount))
	case OrderStatusChanged:
		ev, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		switch models.OrderStatus(ev.Status) {
		case models.OrderReady:
			return models.RoleWaiter, "Order ready",
				fmt.Sprintf("Order %s is ready to serve at table %s", ev.OrderNumber, ev.TableNumber)
		case models.OrderCancelled:
			return models.RoleChef, "Order cancelled",
				fmt.Sprintf("Order %s for table %s was cancelled", ev.OrderNumber, ev.TableNumber)
		}
		return
	case ServiceRequested:
		ev, ok := payload.(ServiceRequestEvent)
		if !ok {
			return
		}
		role = models.RoleWaiter
		if ev.Kind == string(models.RequestCleanup) {
			role = models.RoleCleaner
		}
		return role, "Service request",
			fmt.Sprintf("Table %s asks for %s", ev.TableNumber, ev.Kind)
	case TableReleased:
		ev, ok := payload.(TableEvent)
		if !ok {
			return
		}
		return models.RoleCleaner, "Table free",
			fmt.Sprintf("Table %s is available again", ev.TableNumber)
	}
	return
}
