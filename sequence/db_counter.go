package sequence

import (
	"context"

	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/models"
)

type dbCounter struct {
	db *gorm.DB
}

// NewDBCounter backs the generator with the day_counters table. The
// increment runs inside a transaction so the bumped value read back is
// the one this caller produced.
func NewDBCounter(db *gorm.DB) Counter {
	return &dbCounter{db: db}
}

func (c *dbCounter) Next(ctx context.Context, day string) (int64, error) {
	var value int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.DayCounter{}).
			Where("day = ?", day).
			Update("value", gorm.Expr("value + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// First order of the day. Two creators can race to insert
			// the row; the loser falls back to bumping it.
			if err := tx.Create(&models.DayCounter{Day: day, Value: 1}).Error; err != nil {
				res = tx.Model(&models.DayCounter{}).
					Where("day = ?", day).
					Update("value", gorm.Expr("value + 1"))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return err
				}
			} else {
				value = 1
				return nil
			}
		}

		var row models.DayCounter
		if err := tx.Where("day = ?", day).First(&row).Error; err != nil {
			return err
		}
		value = row.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}
