package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/pricing"
)

// NewItem is one requested line on an incoming order.
type NewItem struct {
	MenuID   uint
	Quantity int
	Notes    string
}

type CreateOrderInput struct {
	TableNumber string
	CustomerID  *uint
	Discount    float64
	Items       []NewItem
}

// CreateOrder places a new order: snapshots menu names and prices,
// prices the full list, issues the day-scoped order number, then writes
// the order, the table occupation and the audit row in one transaction.
func (c *Coordinator) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.TableNumber == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrInvalidInput)
	}
	if in.Discount < 0 {
		return nil, fmt.Errorf("%w: discount cannot be negative", ErrInvalidInput)
	}

	items, lines, err := c.buildItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	breakdown := pricing.Compute(lines, in.Discount)

	number, err := c.numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	order := models.Order{
		OrderNumber:   number,
		TableNumber:   in.TableNumber,
		CustomerID:    in.CustomerID,
		Status:        models.OrderPending,
		Items:         items,
		Subtotal:      breakdown.Subtotal,
		Tax:           breakdown.Tax,
		ServiceCharge: breakdown.ServiceCharge,
		Discount:      breakdown.Discount,
		TotalAmount:   breakdown.Total,
		PaymentStatus: models.PaymentUnpaid,
	}

	var occupied bool
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		flipped, err := ensureOccupied(tx, in.TableNumber, order.ID)
		if err != nil {
			return err
		}
		occupied = flipped
		return logStatus(tx, order.ID, models.OrderPending, "", "order placed")
	})
	if err != nil {
		if errors.Is(err, ErrTableUnavailable) || errors.Is(err, ErrRecordNotFound) {
			return nil, err
		}
		return nil, storeErr(err)
	}

	c.emitter.Publish(events.OrderCreated, events.ForOrder(&order))
	if occupied {
		if table, terr := c.fetchTable(ctx, in.TableNumber); terr == nil {
			c.emitter.Publish(events.TableOccupied, events.ForTable(table))
		}
	}
	return &order, nil
}

// buildItems resolves the requested menu entries and snapshots their
// names and prices onto fresh order lines.
func (c *Coordinator) buildItems(ctx context.Context, in []NewItem) ([]models.OrderItem, []pricing.Line, error) {
	ids := make([]uint, 0, len(in))
	for _, item := range in {
		if item.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
		ids = append(ids, item.MenuID)
	}

	var menus []models.Menu
	if err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, nil, storeErr(err)
	}
	byID := make(map[uint]models.Menu, len(menus))
	for _, menu := range menus {
		byID[menu.ID] = menu
	}

	items := make([]models.OrderItem, 0, len(in))
	lines := make([]pricing.Line, 0, len(in))
	for _, req := range in {
		menu, ok := byID[req.MenuID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: menu %d", ErrRecordNotFound, req.MenuID)
		}
		if !menu.Available {
			return nil, nil, fmt.Errorf("%w: %s is not available right now", ErrInvalidInput, menu.Name)
		}
		items = append(items, models.OrderItem{
			MenuID:    menu.ID,
			MenuName:  menu.Name,
			Price:     menu.Price,
			Quantity:  req.Quantity,
			Notes:     req.Notes,
			ItemTotal: pricing.LineTotal(menu.Price, req.Quantity),
		})
		lines = append(lines, pricing.Line{Price: menu.Price, Quantity: req.Quantity})
	}
	return items, lines, nil
}

// Confirm acknowledges a pending order at the front of house.
func (c *Coordinator) Confirm(ctx context.Context, orderID uint) (*models.Order, error) {
	rows, err := c.applyStatus(ctx, orderID,
		"status = ?", []interface{}{models.OrderPending},
		map[string]interface{}{"status": models.OrderConfirmed, "confirmed_at": time.Now()},
		models.OrderConfirmed, "", "")
	if err != nil {
		return nil, err
	}
	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if order.Status == models.OrderConfirmed {
			return order, nil
		}
		return nil, fmt.Errorf("%w: cannot confirm a %s order", ErrInvalidTransition, order.Status)
	}
	c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	return order, nil
}

// Accept claims the order for a chef and starts preparation. Legal from
// pending or confirmed. The claim and the status move in a single
// conditional write, so two chefs can never both win; the loser gets
// ErrAlreadyClaimed straight away with no internal retry.
func (c *Coordinator) Accept(ctx context.Context, orderID, staffID uint) (*models.Order, error) {
	name, err := c.staffName(ctx, staffID)
	if err != nil {
		return nil, err
	}

	var rows int64
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rows, err = tryClaim(tx, &models.Order{}, orderID, "chef_id", staffID,
			models.StatusesBefore(models.OrderPreparing),
			map[string]interface{}{
				"status":       models.OrderPreparing,
				"chef_id":      staffID,
				"chef_name":    name,
				"preparing_at": time.Now(),
			})
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		return logStatus(tx, orderID, models.OrderPreparing, name, "")
	})
	if err != nil {
		return nil, storeErr(err)
	}

	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		switch {
		case order.Status == models.OrderPreparing && order.ChefID != nil && *order.ChefID == staffID:
			// Retried accept; the claim already belongs to this chef.
			return order, nil
		case order.Status == models.OrderPreparing:
			return nil, fmt.Errorf("%w: order %s is with %s", ErrAlreadyClaimed, order.OrderNumber, chefLabel(order))
		default:
			return nil, fmt.Errorf("%w: cannot accept a %s order", ErrInvalidTransition, order.Status)
		}
	}
	c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	return order, nil
}

// MarkReady finishes preparation. Only the claim holder can do it; the
// holder check rides in the same write as the status change.
func (c *Coordinator) MarkReady(ctx context.Context, orderID, staffID uint) (*models.Order, error) {
	before, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	set := map[string]interface{}{"status": models.OrderReady, "ready_at": now}
	if before.PreparingAt != nil {
		set["prep_seconds"] = int(now.Sub(*before.PreparingAt).Seconds())
	}
	actor := ""
	if before.ChefName != nil {
		actor = *before.ChefName
	}

	rows, err := c.applyStatus(ctx, orderID,
		"status = ? AND chef_id = ?", []interface{}{models.OrderPreparing, staffID},
		set, models.OrderReady, actor, "")
	if err != nil {
		return nil, err
	}
	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		holder := order.ChefID != nil && *order.ChefID == staffID
		switch {
		case holder && (order.Status == models.OrderReady || order.Status == models.OrderCompleted):
			return order, nil
		case order.Status == models.OrderPreparing:
			return nil, fmt.Errorf("%w: order %s belongs to %s", ErrNotAuthorized, order.OrderNumber, chefLabel(order))
		default:
			return nil, fmt.Errorf("%w: cannot mark a %s order ready", ErrInvalidTransition, order.Status)
		}
	}
	c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	return order, nil
}

// Complete closes out a served order, then runs the table release check
// as its own atomic step. A failed release surfaces as the returned
// error with the completed order still attached; retrying Complete is
// safe and re-runs just the release check.
func (c *Coordinator) Complete(ctx context.Context, orderID uint) (*models.Order, error) {
	now := time.Now()
	rows, err := c.applyStatus(ctx, orderID,
		"status = ?", []interface{}{models.OrderReady},
		map[string]interface{}{"status": models.OrderCompleted, "completed_at": now, "served_at": now},
		models.OrderCompleted, "", "")
	if err != nil {
		return nil, err
	}
	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 && order.Status != models.OrderCompleted {
		return nil, fmt.Errorf("%w: cannot complete a %s order", ErrInvalidTransition, order.Status)
	}
	if rows > 0 {
		c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	}
	if _, err := c.ReleaseIfIdle(ctx, order.TableNumber); err != nil {
		return order, err
	}
	return order, nil
}

// Cancel abandons an order before cooking starts. actorID is the staff
// member cancelling on the floor, nil when the guest cancels their own
// order.
func (c *Coordinator) Cancel(ctx context.Context, orderID uint, actorID *uint) (*models.Order, error) {
	actor := "customer"
	if actorID != nil {
		name, err := c.staffName(ctx, *actorID)
		if err != nil {
			return nil, err
		}
		actor = name
	}

	rows, err := c.applyStatus(ctx, orderID,
		"status IN ?", []interface{}{models.StatusesBefore(models.OrderCancelled)},
		map[string]interface{}{"status": models.OrderCancelled, "cancelled_at": time.Now()},
		models.OrderCancelled, actor, "")
	if err != nil {
		return nil, err
	}
	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 && order.Status != models.OrderCancelled {
		return nil, fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, order.Status)
	}
	if rows > 0 {
		c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	}
	if _, err := c.ReleaseIfIdle(ctx, order.TableNumber); err != nil {
		return order, err
	}
	return order, nil
}

// Reject turns down an order the kitchen cannot make. Only pending
// orders can be rejected.
func (c *Coordinator) Reject(ctx context.Context, orderID, staffID uint) (*models.Order, error) {
	name, err := c.staffName(ctx, staffID)
	if err != nil {
		return nil, err
	}

	rows, err := c.applyStatus(ctx, orderID,
		"status = ?", []interface{}{models.OrderPending},
		map[string]interface{}{"status": models.OrderRejected, "rejected_at": time.Now()},
		models.OrderRejected, name, "")
	if err != nil {
		return nil, err
	}
	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 && order.Status != models.OrderRejected {
		return nil, fmt.Errorf("%w: cannot reject a %s order", ErrInvalidTransition, order.Status)
	}
	if rows > 0 {
		c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
	}
	if _, err := c.ReleaseIfIdle(ctx, order.TableNumber); err != nil {
		return order, err
	}
	return order, nil
}

// CancelStale cancels pending orders nobody has touched for longer
// than maxAge. Orders that transition while the sweep runs lose the
// guard and are skipped. Returns how many orders were cancelled.
func (c *Coordinator) CancelStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	var ids []uint
	err := c.db.WithContext(ctx).Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderPending, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, storeErr(err)
	}

	cancelled := 0
	var lastErr error
	for _, id := range ids {
		rows, err := c.applyStatus(ctx, id,
			"status = ?", []interface{}{models.OrderPending},
			map[string]interface{}{"status": models.OrderCancelled, "cancelled_at": time.Now()},
			models.OrderCancelled, "housekeeping", "stale pending order")
		if err != nil {
			lastErr = err
			continue
		}
		if rows == 0 {
			continue
		}
		cancelled++
		order, err := c.fetchOrder(ctx, id)
		if err != nil {
			lastErr = err
			continue
		}
		c.emitter.Publish(events.OrderStatusChanged, events.ForOrder(order))
		if _, err := c.ReleaseIfIdle(ctx, order.TableNumber); err != nil {
			lastErr = err
		}
	}
	return cancelled, lastErr
}

// AddItems appends lines to an order that has not started cooking and
// reprices it from the full current list.
func (c *Coordinator) AddItems(ctx context.Context, orderID uint, newItems []NewItem) (*models.Order, error) {
	if len(newItems) == 0 {
		return nil, fmt.Errorf("%w: no items to add", ErrInvalidInput)
	}
	items, _, err := c.buildItems(ctx, newItems)
	if err != nil {
		return nil, err
	}

	var rows int64
	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Touching the row while the status predicate holds keeps a
		// concurrent Accept out until this transaction is done.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID, models.StatusesBefore(models.OrderPreparing)).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		if rows == 0 {
			return nil
		}

		for i := range items {
			items[i].OrderID = orderID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return err
		}
		lines := make([]pricing.Line, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
		}
		breakdown := pricing.Compute(lines, order.Discount)
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"subtotal":       breakdown.Subtotal,
			"tax":            breakdown.Tax,
			"service_charge": breakdown.ServiceCharge,
			"total_amount":   breakdown.Total,
		}).Error
	})
	if err != nil {
		return nil, storeErr(err)
	}

	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: cannot add items to a %s order", ErrInvalidTransition, order.Status)
	}
	return order, nil
}

// RecordPayment marks the bill settled. The guard flips unpaid to paid
// exactly once; repeats just return the paid order.
func (c *Coordinator) RecordPayment(ctx context.Context, orderID uint, method string) (*models.Order, error) {
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	res := c.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, models.PaymentUnpaid).
		Updates(map[string]interface{}{
			"payment_method": method,
			"payment_status": models.PaymentPaid,
		})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}

	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// SubmitFeedback stores a guest rating against a completed order.
func (c *Coordinator) SubmitFeedback(ctx context.Context, orderID uint, rating int, feedback string) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	res := c.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderCompleted).
		Updates(map[string]interface{}{"rating": rating, "feedback": feedback})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}

	order, err := c.fetchOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: can only rate a %s order once completed", ErrInvalidTransition, order.Status)
	}
	return order, nil
}

// GetOrder loads one order with its lines and service requests.
func (c *Coordinator) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := c.db.WithContext(ctx).
		Preload("Items").
		Preload("ServiceRequests").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrRecordNotFound, orderID)
		}
		return nil, storeErr(err)
	}
	return &order, nil
}

// ListOrders returns orders newest first, optionally filtered by status.
func (c *Coordinator) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	query := c.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, storeErr(err)
	}
	return orders, nil
}

// KitchenQueue lists the orders a chef can pick up or is cooking,
// oldest first so the queue is worked in arrival order.
func (c *Coordinator) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := c.db.WithContext(ctx).Preload("Items").
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderPreparing}).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return orders, nil
}

// StatusHistory returns the audit trail for one order, oldest first.
func (c *Coordinator) StatusHistory(ctx context.Context, orderID uint) ([]models.OrderStatusLog, error) {
	if _, err := c.fetchOrder(ctx, orderID); err != nil {
		return nil, err
	}
	var history []models.OrderStatusLog
	err := c.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&history).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return history, nil
}

func chefLabel(order *models.Order) string {
	if order.ChefName != nil && *order.ChefName != "" {
		return *order.ChefName
	}
	return "another chef"
}
