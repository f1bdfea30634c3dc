package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/cyclekit/internal/models"
)

var errStoreUnavailable = errors.New("store unavailable")

func mustParseDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustParseTime(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02 15:04", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func sequentialIDs(prefix string) func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("%s-%d", prefix, next)
	}
}

type cycleRepositoryStub struct {
	cycles      map[string]models.Cycle
	createErr   error
	findErr     error
	updateErr   error
	deleteErr   error
	updateCalls int
}

func newCycleRepositoryStub() *cycleRepositoryStub {
	return &cycleRepositoryStub{cycles: make(map[string]models.Cycle)}
}

func (stub *cycleRepositoryStub) Create(_ context.Context, cycle *models.Cycle) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.cycles[cycle.ID] = *cycle
	return nil
}

func (stub *cycleRepositoryStub) FindByID(_ context.Context, id string) (models.Cycle, error) {
	if stub.findErr != nil {
		return models.Cycle{}, stub.findErr
	}
	cycle, ok := stub.cycles[id]
	if !ok {
		return models.Cycle{}, ErrCycleNotFound
	}
	return cycle, nil
}

func (stub *cycleRepositoryStub) Update(_ context.Context, cycle *models.Cycle, _ []string) error {
	stub.updateCalls++
	if stub.updateErr != nil {
		return stub.updateErr
	}
	if _, ok := stub.cycles[cycle.ID]; !ok {
		return ErrCycleNotFound
	}
	stub.cycles[cycle.ID] = *cycle
	return nil
}

func (stub *cycleRepositoryStub) Delete(_ context.Context, id string) error {
	if stub.deleteErr != nil {
		return stub.deleteErr
	}
	if _, ok := stub.cycles[id]; !ok {
		return ErrCycleNotFound
	}
	delete(stub.cycles, id)
	return nil
}

type reminderRepositoryStub struct {
	reminders       map[string]models.Reminder
	createCalls     int
	failCreateAt    int
	listErr         error
	deleteErr       error
	markSentErrByID map[string]error
	beforeCreate    func()
}

func newReminderRepositoryStub() *reminderRepositoryStub {
	return &reminderRepositoryStub{
		reminders:       make(map[string]models.Reminder),
		markSentErrByID: make(map[string]error),
	}
}

func (stub *reminderRepositoryStub) Create(_ context.Context, reminder *models.Reminder) error {
	stub.createCalls++
	if stub.beforeCreate != nil {
		stub.beforeCreate()
	}
	if stub.failCreateAt > 0 && stub.createCalls == stub.failCreateAt {
		return errStoreUnavailable
	}
	stub.reminders[reminder.ID] = *reminder
	return nil
}

func (stub *reminderRepositoryStub) FindByID(_ context.Context, id string) (models.Reminder, error) {
	reminder, ok := stub.reminders[id]
	if !ok {
		return models.Reminder{}, ErrReminderNotFound
	}
	return reminder, nil
}

func (stub *reminderRepositoryStub) MarkSent(_ context.Context, id string) error {
	if err, ok := stub.markSentErrByID[id]; ok {
		return err
	}
	reminder, ok := stub.reminders[id]
	if !ok {
		return ErrReminderNotFound
	}
	reminder.IsSent = true
	stub.reminders[id] = reminder
	return nil
}

func (stub *reminderRepositoryStub) Delete(_ context.Context, id string) error {
	if stub.deleteErr != nil {
		return stub.deleteErr
	}
	delete(stub.reminders, id)
	return nil
}

func (stub *reminderRepositoryStub) ListByOwnerAndType(_ context.Context, customerID string, reminderType models.ReminderType) ([]models.Reminder, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.Reminder, 0)
	for _, reminder := range stub.reminders {
		if reminder.CustomerID == customerID && reminder.Type == reminderType {
			result = append(result, reminder)
		}
	}
	sortReminders(result)
	return result, nil
}

func (stub *reminderRepositoryStub) ListDue(_ context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	result := make([]models.Reminder, 0)
	for _, reminder := range stub.reminders {
		if !reminder.IsSent && !reminder.Date.After(now) {
			result = append(result, reminder)
		}
	}
	sortReminders(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (stub *reminderRepositoryStub) byCustomer(customerID string) []models.Reminder {
	result := make([]models.Reminder, 0)
	for _, reminder := range stub.reminders {
		if reminder.CustomerID == customerID {
			result = append(result, reminder)
		}
	}
	sortReminders(result)
	return result
}

func sortReminders(reminders []models.Reminder) {
	sort.Slice(reminders, func(i, j int) bool {
		if reminders[i].Date.Equal(reminders[j].Date) {
			return reminders[i].ID < reminders[j].ID
		}
		return reminders[i].Date.Before(reminders[j].Date)
	})
}

type transactorStub struct {
	cycles    CycleRepository
	reminders ReminderRepository
	calls     int
}

func (stub *transactorStub) WithinTransaction(_ context.Context, fn func(cycles CycleRepository, reminders ReminderRepository) error) error {
	stub.calls++
	return fn(stub.cycles, stub.reminders)
}
