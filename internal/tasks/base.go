package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rhanierex/Gym-Management/internal/models"
)

// BuildScheduledTask is a helper to build ScheduledTask records generically
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	return &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}, nil
}

// EnsureRecurring creates a recurring task with the given name and RRULE
// unless an active one already exists. The worker calls this on startup to
// seed the twice-daily expiry alert slots.
func EnsureRecurring(db *gorm.DB, taskName, rule string, firstDue time.Time) error {
	var existing models.ScheduledTask
	err := db.Where("task_name = ? AND status = ?", taskName, models.ScheduledTaskStatusActive).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check existing %s task: %w", taskName, err)
	}

	task, err := BuildScheduledTask(taskName, map[string]interface{}{}, firstDue, &rule, models.ScheduledTaskTypeRecurring, 3)
	if err != nil {
		return err
	}
	if err := db.Create(task).Error; err != nil {
		return fmt.Errorf("seed %s task: %w", taskName, err)
	}
	return nil
}
