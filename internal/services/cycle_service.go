package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/models"
)

var (
	ErrCycleNotFound         = errors.New("cycle not found")
	ErrReminderNotFound      = errors.New("reminder not found")
	ErrCustomerRequired      = errors.New("customer id is required")
	ErrCycleLengthOutOfRange = errors.New("cycle length out of range")
)

type CycleRepository interface {
	Create(ctx context.Context, cycle *models.Cycle) error
	FindByID(ctx context.Context, id string) (models.Cycle, error)
	Update(ctx context.Context, cycle *models.Cycle, fields []string) error
	Delete(ctx context.Context, id string) error
}

type ReminderRepository interface {
	Create(ctx context.Context, reminder *models.Reminder) error
	FindByID(ctx context.Context, id string) (models.Reminder, error)
	MarkSent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByOwnerAndType(ctx context.Context, customerID string, reminderType models.ReminderType) ([]models.Reminder, error)
}

// Transactor runs fn against repositories bound to a single store
// transaction. Stores without transactions simply do not provide one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(cycles CycleRepository, reminders ReminderRepository) error) error
}

// CycleObservation is the input of CreateCycle. Messages overrides the
// service's reminder texts for this call when set.
type CycleObservation struct {
	CustomerID  string
	PeriodDays  []string
	CycleLength int
	Notes       string
	Messages    ReminderMessages
}

// CyclePatch is a partial cycle update. Nil fields are left as stored; a
// non-nil PeriodDays (even an empty one) triggers reminder regeneration.
type CyclePatch struct {
	PeriodDays  *[]string
	CycleLength *int
	Notes       *string
	Messages    ReminderMessages
}

type CycleResult struct {
	Cycle     models.Cycle      `json:"cycle"`
	Reminders []models.Reminder `json:"reminders"`
}

type CyclePreview struct {
	PeriodDays []string        `json:"period_days"`
	Events     *CycleEvents    `json:"events"`
	Reminders  []ReminderDraft `json:"reminders"`
}

type CycleService struct {
	cycles    CycleRepository
	reminders ReminderRepository
	tx        Transactor
	messages  ReminderMessages
	location  *time.Location
	now       func() time.Time
	newID     func() string
	logger    logrus.FieldLogger
}

type CycleServiceOption func(*CycleService)

func WithTransactor(tx Transactor) CycleServiceOption {
	return func(service *CycleService) {
		service.tx = tx
	}
}

func WithReminderMessages(messages ReminderMessages) CycleServiceOption {
	return func(service *CycleService) {
		if messages != nil {
			service.messages = messages
		}
	}
}

func WithLocation(location *time.Location) CycleServiceOption {
	return func(service *CycleService) {
		if location != nil {
			service.location = location
		}
	}
}

func WithClock(now func() time.Time) CycleServiceOption {
	return func(service *CycleService) {
		if now != nil {
			service.now = now
		}
	}
}

func WithIDGenerator(newID func() string) CycleServiceOption {
	return func(service *CycleService) {
		if newID != nil {
			service.newID = newID
		}
	}
}

func WithLogger(logger logrus.FieldLogger) CycleServiceOption {
	return func(service *CycleService) {
		if logger != nil {
			service.logger = logger
		}
	}
}

func NewCycleService(cycles CycleRepository, reminders ReminderRepository, opts ...CycleServiceOption) *CycleService {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	service := &CycleService{
		cycles:    cycles,
		reminders: reminders,
		messages:  DefaultReminderMessages(),
		location:  time.UTC,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    discard,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (service *CycleService) GetCycle(ctx context.Context, id string) (models.Cycle, error) {
	return service.cycles.FindByID(ctx, id)
}

func (service *CycleService) CycleEvents(ctx context.Context, id string) (*CycleEvents, error) {
	cycle, err := service.cycles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	days, err := ParseStoredPeriodDays(cycle.PeriodDays, service.location)
	if err != nil {
		return nil, fmt.Errorf("parse stored period days: %w", err)
	}
	return ComputeCycleEvents(days, cycle.CycleLength), nil
}

// PreviewCycle computes events and reminder drafts without persisting
// anything.
func (service *CycleService) PreviewCycle(rawPeriodDays []string, cycleLength int, now time.Time, messages ReminderMessages) (CyclePreview, error) {
	resolvedLength, err := resolveCycleLength(cycleLength)
	if err != nil {
		return CyclePreview{}, err
	}
	days, err := NormalizePeriodDays(rawPeriodDays, service.location)
	if err != nil {
		return CyclePreview{}, err
	}
	events := ComputeCycleEvents(days, resolvedLength)
	return CyclePreview{
		PeriodDays: FormatPeriodDays(days),
		Events:     events,
		Reminders:  GenerateReminders(events, now.In(service.location), service.messagesOr(messages)),
	}, nil
}

func (service *CycleService) CreateCycle(ctx context.Context, observation CycleObservation) (CycleResult, error) {
	customerID := strings.TrimSpace(observation.CustomerID)
	if customerID == "" {
		return CycleResult{}, ErrCustomerRequired
	}
	cycleLength, err := resolveCycleLength(observation.CycleLength)
	if err != nil {
		return CycleResult{}, err
	}
	days, err := NormalizePeriodDays(observation.PeriodDays, service.location)
	if err != nil {
		return CycleResult{}, err
	}

	cycle := models.Cycle{
		ID:          service.newID(),
		CustomerID:  customerID,
		PeriodDays:  FormatPeriodDays(days),
		CycleLength: cycleLength,
		Notes:       observation.Notes,
	}

	var created []models.Reminder
	err = service.run(ctx, func(cycles CycleRepository, reminders ReminderRepository) error {
		if err := cycles.Create(ctx, &cycle); err != nil {
			return fmt.Errorf("create cycle: %w", err)
		}
		persisted, err := service.persistReminders(ctx, reminders, customerID, days, cycleLength, observation.Messages)
		created = persisted
		return err
	})
	if err != nil {
		return CycleResult{}, err
	}

	service.logger.WithFields(logrus.Fields{
		"cycle_id":    cycle.ID,
		"customer_id": customerID,
		"reminders":   len(created),
	}).Info("cycle created")
	return CycleResult{Cycle: cycle, Reminders: created}, nil
}

func (service *CycleService) UpdateCycle(ctx context.Context, id string, patch CyclePatch) (CycleResult, error) {
	var cycleLength *int
	if patch.CycleLength != nil {
		resolved, err := resolveCycleLength(*patch.CycleLength)
		if err != nil {
			return CycleResult{}, err
		}
		cycleLength = &resolved
	}

	var days []time.Time
	if patch.PeriodDays != nil {
		normalized, err := NormalizePeriodDays(*patch.PeriodDays, service.location)
		if err != nil {
			return CycleResult{}, err
		}
		days = normalized
	}

	result := CycleResult{Reminders: []models.Reminder{}}
	err := service.run(ctx, func(cycles CycleRepository, reminders ReminderRepository) error {
		cycle, err := cycles.FindByID(ctx, id)
		if err != nil {
			return err
		}

		fields := make([]string, 0, 3)
		if patch.PeriodDays != nil {
			cycle.PeriodDays = FormatPeriodDays(days)
			fields = append(fields, "period_days")
		}
		if cycleLength != nil {
			cycle.CycleLength = *cycleLength
			fields = append(fields, "cycle_length")
		}
		if patch.Notes != nil {
			cycle.Notes = *patch.Notes
			fields = append(fields, "notes")
		}
		if len(fields) > 0 {
			if err := cycles.Update(ctx, &cycle, fields); err != nil {
				return fmt.Errorf("update cycle: %w", err)
			}
		}
		result.Cycle = cycle

		if patch.PeriodDays == nil {
			return nil
		}

		// Readers outside a transaction see no reminders between these two steps.
		if err := service.clearCycleReminders(ctx, reminders, cycle.CustomerID); err != nil {
			return err
		}
		persisted, err := service.persistReminders(ctx, reminders, cycle.CustomerID, days, cycle.CycleLength, patch.Messages)
		result.Reminders = persisted
		return err
	})
	if err != nil {
		return CycleResult{}, err
	}

	service.logger.WithFields(logrus.Fields{
		"cycle_id":    result.Cycle.ID,
		"customer_id": result.Cycle.CustomerID,
		"regenerated": patch.PeriodDays != nil,
		"reminders":   len(result.Reminders),
	}).Info("cycle updated")
	return result, nil
}

// DeleteCycle removes the cycle and every period, ovulation and pill reminder
// of its customer, including reminders derived from other cycles of the same
// customer.
func (service *CycleService) DeleteCycle(ctx context.Context, id string) error {
	var customerID string
	err := service.run(ctx, func(cycles CycleRepository, reminders ReminderRepository) error {
		cycle, err := cycles.FindByID(ctx, id)
		if err != nil {
			return err
		}
		customerID = cycle.CustomerID

		if err := service.clearCycleReminders(ctx, reminders, cycle.CustomerID); err != nil {
			return err
		}
		if err := cycles.Delete(ctx, cycle.ID); err != nil {
			return fmt.Errorf("delete cycle: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.WithFields(logrus.Fields{
		"cycle_id":    id,
		"customer_id": customerID,
	}).Info("cycle deleted")
	return nil
}

func (service *CycleService) run(ctx context.Context, fn func(cycles CycleRepository, reminders ReminderRepository) error) error {
	if service.tx == nil {
		return fn(service.cycles, service.reminders)
	}
	return service.tx.WithinTransaction(ctx, fn)
}

func (service *CycleService) messagesOr(messages ReminderMessages) ReminderMessages {
	if messages == nil {
		return service.messages
	}
	return messages
}

func (service *CycleService) persistReminders(ctx context.Context, reminders ReminderRepository, customerID string, days []time.Time, cycleLength int, messages ReminderMessages) ([]models.Reminder, error) {
	events := ComputeCycleEvents(days, cycleLength)
	drafts := GenerateReminders(events, service.now().In(service.location), service.messagesOr(messages))

	created := make([]models.Reminder, 0, len(drafts))
	for _, draft := range drafts {
		reminder := models.Reminder{
			ID:         service.newID(),
			CustomerID: customerID,
			Type:       draft.Type,
			Date:       draft.Date,
			Message:    draft.Message,
		}
		if err := reminders.Create(ctx, &reminder); err != nil {
			return created, fmt.Errorf("create %s reminder: %w", draft.Type, err)
		}
		created = append(created, reminder)
	}
	return created, nil
}

func (service *CycleService) clearCycleReminders(ctx context.Context, reminders ReminderRepository, customerID string) error {
	for _, reminderType := range models.CycleReminderTypes() {
		existing, err := reminders.ListByOwnerAndType(ctx, customerID, reminderType)
		if err != nil {
			return fmt.Errorf("list %s reminders: %w", reminderType, err)
		}
		for _, reminder := range existing {
			if err := reminders.Delete(ctx, reminder.ID); err != nil {
				return fmt.Errorf("delete %s reminder: %w", reminderType, err)
			}
		}
	}
	return nil
}

func resolveCycleLength(value int) (int, error) {
	if value == 0 {
		return models.DefaultCycleLength, nil
	}
	if !IsValidCycleLength(value) {
		return 0, ErrCycleLengthOutOfRange
	}
	return value, nil
}
