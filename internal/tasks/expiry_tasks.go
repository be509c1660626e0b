package tasks

import (
	"context"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/models"
	"github.com/rhanierex/Gym-Management/internal/notifier"
	"github.com/rhanierex/Gym-Management/internal/services"
)

// ExpirySlotRule fires the alert at the two fixed daily slots the owner
// agreed on: 09:00 and 17:00 local time.
const ExpirySlotRule = "FREQ=DAILY;BYHOUR=9,17;BYMINUTE=0;BYSECOND=0"

func alertWindow() time.Duration {
	if v := os.Getenv("EXPIRY_ALERT_WINDOW_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return membership.DefaultAlertWindow
}

func buildNotifier(db *gorm.DB) *notifier.Notifier {
	registry := membership.NewRegistry(membership.NewGormStore(db), nil)
	tg := services.NewTelegramService()
	return notifier.New(registry, tg, tg.DefaultChatID(), alertWindow())
}

// ExpiryCheckTaskDef runs the scheduled scan for soon-to-expire memberships
type ExpiryCheckTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *ExpiryCheckTaskDef) TaskID() string {
	return "expiry_check"
}

// HandleExecution scans the registry and pushes one alert batch if anything
// is expiring. The run is idempotent; re-alerting on the next slot is the
// intended behavior.
func (t *ExpiryCheckTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	n := buildNotifier(db)

	count, err := n.RunScheduledCheck(ctx)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		return map[string]interface{}{"status": "success", "message": "no members expiring"}, nil
	}
	return map[string]interface{}{"status": "success", "alerted": count}, nil
}

// ExpiryCheckTask is the singleton instance of ExpiryCheckTaskDef
var ExpiryCheckTask = &ExpiryCheckTaskDef{}

// DailySummaryTaskDef pushes the headline gym numbers to the owner's chat
type DailySummaryTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *DailySummaryTaskDef) TaskID() string {
	return "daily_summary"
}

// HandleExecution sends the summary message
func (t *DailySummaryTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	n := buildNotifier(db)

	if err := n.SendDailySummary(ctx); err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": "success"}, nil
}

// DailySummaryTask is the singleton instance of DailySummaryTaskDef
var DailySummaryTask = &DailySummaryTaskDef{}
