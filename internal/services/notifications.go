package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/models"
)

const defaultDispatchBatchSize = 100

type DueReminderRepository interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error)
	MarkSent(ctx context.Context, id string) error
}

type Notifier interface {
	Notify(ctx context.Context, reminder models.Reminder) error
}

type DispatchReport struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type ReminderDispatcher struct {
	reminders DueReminderRepository
	notifier  Notifier
	batchSize int
	logger    logrus.FieldLogger
}

func NewReminderDispatcher(reminders DueReminderRepository, notifier Notifier, batchSize int, logger logrus.FieldLogger) *ReminderDispatcher {
	if batchSize <= 0 {
		batchSize = defaultDispatchBatchSize
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderDispatcher{
		reminders: reminders,
		notifier:  notifier,
		batchSize: batchSize,
		logger:    logger,
	}
}

// DispatchDue hands every unsent reminder whose date is not after now to the
// notifier and marks it sent once notified. A failing reminder stays unsent
// and is retried on the next sweep; the rest of the batch still runs.
func (dispatcher *ReminderDispatcher) DispatchDue(ctx context.Context, now time.Time) (DispatchReport, error) {
	due, err := dispatcher.reminders.ListDue(ctx, now, dispatcher.batchSize)
	if err != nil {
		return DispatchReport{}, fmt.Errorf("list due reminders: %w", err)
	}

	report := DispatchReport{Due: len(due)}
	var errs []error
	for _, reminder := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := dispatcher.notifier.Notify(ctx, reminder); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("notify reminder %s: %w", reminder.ID, err))
			continue
		}
		if err := dispatcher.reminders.MarkSent(ctx, reminder.ID); err != nil {
			report.Failed++
			errs = append(errs, fmt.Errorf("mark reminder %s sent: %w", reminder.ID, err))
			continue
		}
		report.Sent++
	}

	if report.Due > 0 {
		dispatcher.logger.WithFields(logrus.Fields{
			"due":    report.Due,
			"sent":   report.Sent,
			"failed": report.Failed,
		}).Info("reminders dispatched")
	}
	return report, errors.Join(errs...)
}

// LogNotifier records due reminders in the application log.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, reminder models.Reminder) error {
	notifier.logger.WithFields(logrus.Fields{
		"reminder_id": reminder.ID,
		"customer_id": reminder.CustomerID,
		"type":        reminder.Type,
		"date":        reminder.Date.Format(time.RFC3339),
	}).Info(reminder.Message)
	return nil
}
