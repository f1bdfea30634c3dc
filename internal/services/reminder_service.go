package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/terraincognita07/cyclekit/internal/models"
)

type ReminderService struct {
	reminders ReminderRepository
}

func NewReminderService(reminders ReminderRepository) *ReminderService {
	return &ReminderService{reminders: reminders}
}

// ListReminders returns the customer's reminders of the given types ordered
// by date. No types means every cycle-derived type.
func (service *ReminderService) ListReminders(ctx context.Context, customerID string, types ...models.ReminderType) ([]models.Reminder, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	if len(types) == 0 {
		types = models.CycleReminderTypes()
	}

	result := make([]models.Reminder, 0)
	for _, reminderType := range types {
		reminders, err := service.reminders.ListByOwnerAndType(ctx, customerID, reminderType)
		if err != nil {
			return nil, fmt.Errorf("list %s reminders: %w", reminderType, err)
		}
		result = append(result, reminders...)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (service *ReminderService) GetReminder(ctx context.Context, id string) (models.Reminder, error) {
	return service.reminders.FindByID(ctx, id)
}

// MarkSent flags a reminder as acted upon. Marking an already sent reminder
// succeeds without changes.
func (service *ReminderService) MarkSent(ctx context.Context, id string) (models.Reminder, error) {
	reminder, err := service.reminders.FindByID(ctx, id)
	if err != nil {
		return models.Reminder{}, err
	}
	if reminder.IsSent {
		return reminder, nil
	}
	if err := service.reminders.MarkSent(ctx, id); err != nil {
		return models.Reminder{}, fmt.Errorf("mark reminder sent: %w", err)
	}
	reminder.IsSent = true
	return reminder, nil
}
