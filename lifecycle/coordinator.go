package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/sequence"
)

// Coordinator owns every mutation of orders, tables and service
// requests. Each mutation is a single conditional write; when the
// guard matches nothing, the current row decides whether that was an
// idempotent repeat, a lost claim race or an illegal transition.
// Events go out only after the surrounding transaction has committed.
type Coordinator struct {
	db      *gorm.DB
	emitter events.Emitter
	numbers *sequence.Generator
}

func NewCoordinator(db *gorm.DB, emitter events.Emitter, numbers *sequence.Generator) *Coordinator {
	if emitter == nil {
		emitter = events.Nop{}
	}
	if numbers == nil {
		numbers = sequence.NewGenerator(sequence.NewDBCounter(db))
	}
	return &Coordinator{db: db, emitter: emitter, numbers: numbers}
}

// storeErr maps a gorm error to one of the typed kinds.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func (c *Coordinator) fetchOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := c.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrRecordNotFound, orderID)
		}
		return nil, storeErr(err)
	}
	return &order, nil
}

func (c *Coordinator) fetchRequest(ctx context.Context, requestID uint) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := c.db.WithContext(ctx).First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: service request %d", ErrRecordNotFound, requestID)
		}
		return nil, storeErr(err)
	}
	return &request, nil
}

// staffName resolves an actor id to the name snapshotted on claims and
// audit rows.
func (c *Coordinator) staffName(ctx context.Context, staffID uint) (string, error) {
	var user models.User
	err := c.db.WithContext(ctx).First(&user, staffID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: staff %d", ErrRecordNotFound, staffID)
		}
		return "", storeErr(err)
	}
	return user.Name, nil
}

// logStatus appends the audit row for an applied transition. Runs in
// the same transaction as the conditional write it records.
func logStatus(tx *gorm.DB, orderID uint, status models.OrderStatus, actor, note string) error {
	return tx.Create(&models.OrderStatusLog{
		OrderID: orderID,
		Status:  status,
		Actor:   actor,
		Note:    note,
	}).Error
}

// applyStatus runs one guarded order update plus its audit row in a
// transaction and reports how many rows the guard matched. Zero rows
// means the predicate failed; callers classify that from the current
// row.
func (c *Coordinator) applyStatus(ctx context.Context, orderID uint, query string, args []interface{}, set map[string]interface{}, to models.OrderStatus, actor, note string) (int64, error) {
	var rows int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ?", orderID).
			Where(query, args...).
			Updates(set)
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected
		if rows == 0 {
			return nil
		}
		return logStatus(tx, orderID, to, actor, note)
	})
	if err != nil {
		return 0, storeErr(err)
	}
	return rows, nil
}
