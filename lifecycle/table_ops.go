package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/events"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
)

// activeOrderExists is the subquery deciding occupancy truth: does any
// non-terminal order reference this table right now. Every release-side
// write embeds it so the check and the set are one atomic statement.
const activeOrderExists = "EXISTS (SELECT 1 FROM orders WHERE orders.table_number = tables.table_number AND orders.status IN ?)"

// ensureOccupied binds a newly created order to its table inside the
// creation transaction. A table that is available (or left occupied
// with no bound order) flips to occupied; a table already occupied by a
// live order passes through untouched, since a party may order again
// mid-visit. Reserved, maintenance, cleaning and inactive tables refuse.
func ensureOccupied(tx *gorm.DB, tableNumber string, orderID uint) (bool, error) {
	res := tx.Model(&models.Table{}).
		Where("table_number = ? AND active = ? AND (status = ? OR (status = ? AND current_order_id IS NULL))",
			tableNumber, true, models.TableAvailable, models.TableOccupied).
		Updates(map[string]interface{}{
			"status":           models.TableOccupied,
			"current_order_id": orderID,
			"occupied_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var table models.Table
	if err := tx.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: table %s", ErrRecordNotFound, tableNumber)
		}
		return false, err
	}
	if !table.Active {
		return false, fmt.Errorf("%w: table %s is out of service", ErrTableUnavailable, tableNumber)
	}
	if table.Status != models.TableOccupied {
		return false, fmt.Errorf("%w: table %s is %s", ErrTableUnavailable, tableNumber, table.Status)
	}
	// Occupied with an order bound: another active order already holds
	// the table; nothing to change.
	return false, nil
}

// ReleaseIfIdle frees the table if no active order references it any
// more. Invoked after every terminal transition. The occupancy truth is
// re-derived inside the write itself, so an order created concurrently
// keeps the table held no matter how the two operations interleave.
// Returns whether this call released the table.
func (c *Coordinator) ReleaseIfIdle(ctx context.Context, tableNumber string) (bool, error) {
	res := c.db.WithContext(ctx).Model(&models.Table{}).
		Where("table_number = ? AND status = ?", tableNumber, models.TableOccupied).
		Where("NOT "+activeOrderExists, models.ActiveOrderStatuses()).
		Updates(map[string]interface{}{
			"status":           models.TableAvailable,
			"current_order_id": nil,
			"occupied_at":      nil,
		})
	if res.Error != nil {
		return false, storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	table, err := c.fetchTable(ctx, tableNumber)
	if err != nil {
		return true, err
	}
	c.emitter.Publish(events.TableReleased, events.ForTable(table))
	return true, nil
}

// SetTableStatus applies a manual floor change (reserve, maintenance,
// cleaning, back to available). Occupied is never set by hand, and a
// table with live orders cannot be forced out from under them; the
// same occupancy subquery guards the write.
func (c *Coordinator) SetTableStatus(ctx context.Context, tableNumber string, to models.TableStatus) (*models.Table, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown table status %q", ErrInvalidInput, to)
	}
	if to == models.TableOccupied {
		return nil, fmt.Errorf("%w: occupied is set by order placement only", ErrInvalidInput)
	}

	res := c.db.WithContext(ctx).Model(&models.Table{}).
		Where("table_number = ?", tableNumber).
		Where("NOT "+activeOrderExists, models.ActiveOrderStatuses()).
		Updates(map[string]interface{}{
			"status":           to,
			"current_order_id": nil,
			"occupied_at":      nil,
		})
	if res.Error != nil {
		return nil, storeErr(res.Error)
	}

	table, err := c.fetchTable(ctx, tableNumber)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: table %s still has orders in progress", ErrTableUnavailable, tableNumber)
	}
	return table, nil
}

func (c *Coordinator) fetchTable(ctx context.Context, tableNumber string) (*models.Table, error) {
	var table models.Table
	err := c.db.WithContext(ctx).Where("table_number = ?", tableNumber).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: table %s", ErrRecordNotFound, tableNumber)
		}
		return nil, storeErr(err)
	}
	return &table, nil
}
