package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/SolomonOP/smart-waiter-system-sub000/lifecycle"
	"github.com/SolomonOP/smart-waiter-system-sub000/models"
	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

// counterRetentionDays is how long spent day counters stay around
// before the nightly purge removes them.
const counterRetentionDays = 7

// Housekeeper runs the periodic chores: purging spent order-number
// counters and, when enabled, cancelling pending orders nobody ever
// picked up.
type Housekeeper struct {
	DB          *gorm.DB
	Coordinator *lifecycle.Coordinator

	// StalePendingAfter enables the stale-order sweep when positive.
	StalePendingAfter time.Duration

	cron *cron.Cron
}

func NewHousekeeper(db *gorm.DB, coordinator *lifecycle.Coordinator, stalePendingAfter time.Duration) *Housekeeper {
	return &Housekeeper{
		DB:                db,
		Coordinator:       coordinator,
		StalePendingAfter: stalePendingAfter,
	}
}

func (h *Housekeeper) Start() {
	h.cron = cron.New()

	h.cron.AddFunc("0 3 * * *", h.purgeOldCounters)
	if h.StalePendingAfter > 0 {
		h.cron.AddFunc("@every 1m", h.cancelStalePending)
		utils.InfoLogger.Printf("Housekeeping: stale pending orders cancelled after %s", h.StalePendingAfter)
	}

	h.cron.Start()
	utils.InfoLogger.Println("Housekeeping started")
}

func (h *Housekeeper) Stop() {
	if h.cron != nil {
		h.cron.Stop()
	}
}

func (h *Housekeeper) purgeOldCounters() {
	cutoff := time.Now().AddDate(0, 0, -counterRetentionDays).Format("060102")
	res := h.DB.Where("day < ?", cutoff).Delete(&models.DayCounter{})
	if res.Error != nil {
		utils.ErrorLogger.Errorf("Housekeeping: counter purge failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.Printf("Housekeeping: purged %d spent day counters", res.RowsAffected)
	}
}

func (h *Housekeeper) cancelStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cancelled, err := h.Coordinator.CancelStale(ctx, h.StalePendingAfter)
	if err != nil {
		utils.ErrorLogger.Errorf("Housekeeping: stale order sweep: %v", err)
	}
	if cancelled > 0 {
		utils.InfoLogger.Printf("Housekeeping: cancelled %d stale pending orders", cancelled)
	}
}
