package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/cyclekit/internal/models"
	"github.com/terraincognita07/cyclekit/internal/services"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

// Create stores the reminder with its date in UTC so that date range queries
// compare consistently.
func (repo *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	reminder.Date = reminder.Date.UTC()
	return repo.database.WithContext(ctx).Create(reminder).Error
}

func (repo *ReminderRepository) FindByID(ctx context.Context, id string) (models.Reminder, error) {
	var reminder models.Reminder
	if err := repo.database.WithContext(ctx).First(&reminder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Reminder{}, services.ErrReminderNotFound
		}
		return models.Reminder{}, err
	}
	return reminder, nil
}

func (repo *ReminderRepository) MarkSent(ctx context.Context, id string) error {
	result := repo.database.WithContext(ctx).
		Model(&models.Reminder{}).
		Where("id = ?", id).
		Update("is_sent", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrReminderNotFound
	}
	return nil
}

func (repo *ReminderRepository) Delete(ctx context.Context, id string) error {
	result := repo.database.WithContext(ctx).Where("id = ?", id).Delete(&models.Reminder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return services.ErrReminderNotFound
	}
	return nil
}

func (repo *ReminderRepository) ListByOwnerAndType(ctx context.Context, customerID string, reminderType models.ReminderType) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	if err := repo.database.WithContext(ctx).
		Where("customer_id = ? AND type = ?", customerID, reminderType).
		Order("date ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// ListDue returns unsent reminders dated at or before now, oldest first.
func (repo *ReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	query := repo.database.WithContext(ctx).
		Where("is_sent = ? AND date <= ?", false, now.UTC()).
		Order("date ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}
