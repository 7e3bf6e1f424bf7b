package lifecycle

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
)

// RequestService files an ancillary ask against a live order. Terminal
// orders refuse; the visit is over, a new order starts a new one.
func (c *Coordinator) RequestService(ctx context.Context, orderID uint, kind models.ServiceRequestKind, note string) (*models.ServiceRequest, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown request kind %q", ErrInvalidInput, kind)
	}

	request := models.ServiceRequest{
		OrderID: orderID,
		Kind:    kind,
		Note:    note,
		Status:  models.RequestPending,
	}

	var rows int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Touch the order while it is still active so a concurrent
		// terminal transition cannot slip between check and insert.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID, models.ActiveOrderStatuses()).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		if rows == 0 {
			return nil
		}

		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		request.TableNumber = order.TableNumber
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}
	if rows == 0 {
		order, err := c.fetchOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: order %s is already %s", ErrInvalidTransition, order.OrderNumber, order.Status)
	}

	c.emitter.Publish(events.ServiceRequested, events.ForRequest(&request))
	return &request, nil
}

// AcceptRequest claims a pending request for a staff member, through
// the same conditional-claim primitive as chef assignment.
func (c *Coordinator) AcceptRequest(ctx context.Context, requestID, staffID uint) (*models.ServiceRequest, error) {
	name, err := c.staffName(ctx, staffID)
	if err != nil {
		return nil, err
	}

	rows, err := tryClaim(c.db.WithContext(ctx), &models.ServiceRequest{}, requestID, "staff_id", staffID,
		[]models.ServiceRequestStatus{models.RequestPending},
		map[string]interface{}{
			"status":      models.RequestAssigned,
			"staff_id":    staffID,
			"staff_name":  name,
			"assigned_at": time.Now(),
		})
	if err != nil {
		return nil, storeErr(err)
	}

	request, err := c.fetchRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		switch {
		case request.Status == models.RequestAssigned && request.StaffID != nil && *request.StaffID == staffID:
			return request, nil
		case request.Status == models.RequestAssigned:
			return nil, fmt.Errorf("%w: request is with %s", ErrAlreadyClaimed, staffLabel(request))
		default:
			return nil, fmt.Errorf("%w: cannot accept a %s request", ErrInvalidTransition, request.Status)
		}
	}
	return request, nil
}

// CompleteRequest resolves an assigned request. Only the claim holder
// may complete it.
func (c *Coordinator) CompleteRequest(ctx context.Context, requestID, staffID uint) (*models.ServiceRequest, error) {
	res := c.db.WithContext(ctx).Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ? AND staff_id = ?", requestID, models.RequestAssigned, staffID).
		Updates(map[string]interface{}{
			"status":       models.RequestCompleted,
			"completed_at": time.Now(),
		})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}

	request, err := c.fetchRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		holder := request.StaffID != nil && *request.StaffID == staffID
		switch {
		case holder && request.Status == models.RequestCompleted:
			return request, nil
		case request.Status == models.RequestAssigned:
			return nil, fmt.Errorf("%w: request belongs to %s", ErrNotAuthorized, staffLabel(request))
		default:
			return nil, fmt.Errorf("%w: cannot complete a %s request", ErrInvalidTransition, request.Status)
		}
	}
	c.emitter.Publish(events.ServiceRequestResolved, events.ForRequest(request))
	return request, nil
}

// CancelRequest withdraws a request nobody has picked up yet.
func (c *Coordinator) CancelRequest(ctx context.Context, requestID uint) (*models.ServiceRequest, error) {
	res := c.db.WithContext(ctx).Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(map[string]interface{}{
			"status":       models.RequestCancelled,
			"cancelled_at": time.Now(),
		})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}

	request, err := c.fetchRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		if request.Status == models.RequestCancelled {
			return request, nil
		}
		return nil, fmt.Errorf("%w: cannot cancel a %s request", ErrInvalidTransition, request.Status)
	}
	c.emitter.Publish(events.ServiceRequestResolved, events.ForRequest(request))
	return request, nil
}

// PendingRequests is the cross-order board of unclaimed asks, oldest
// first.
func (c *Coordinator) PendingRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := c.db.WithContext(ctx).
		Where("status = ?", models.RequestPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return requests, nil
}

func staffLabel(request *models.ServiceRequest) string {
	if request.StaffName != nil && *request.StaffName != "" {
		return *request.StaffName
	}
	return "another staff member"
}
