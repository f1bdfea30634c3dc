package api

import (
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/calendar"
	"github.com/terraincognita07/cyclekit/internal/i18n"
	"github.com/terraincognita07/cyclekit/internal/metrics"
	"github.com/terraincognita07/cyclekit/internal/services"
)

type Dependencies struct {
	Cycles    *services.CycleService
	Reminders *services.ReminderService
	I18n      *i18n.Manager
	// Metrics is optional; without it /metrics is not served.
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger
	// AccessLog receives one line per request. Nil discards them.
	AccessLog io.Writer
	// SecretKey signs bearer tokens. Empty disables authentication.
	SecretKey         []byte
	Now               func() time.Time
	CalendarProductID string
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Cycles == nil || deps.Reminders == nil {
		return nil, errors.New("cycle and reminder services are required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}

	handler := &Handler{
		cycles:            deps.Cycles,
		reminders:         deps.Reminders,
		i18n:              deps.I18n,
		metrics:           deps.Metrics,
		logger:            deps.Logger,
		accessLog:         deps.AccessLog,
		secretKey:         deps.SecretKey,
		now:               deps.Now,
		calendarProductID: deps.CalendarProductID,
	}
	if handler.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		handler.logger = discard
	}
	if handler.accessLog == nil {
		handler.accessLog = io.Discard
	}
	if handler.now == nil {
		handler.now = time.Now
	}
	if handler.calendarProductID == "" {
		handler.calendarProductID = calendar.DefaultProductID
	}
	return handler, nil
}

func (handler *Handler) authEnabled() bool {
	return len(handler.secretKey) > 0
}

func (handler *Handler) observeCycleOperation(operation string, err error, result services.CycleResult) {
	if handler.metrics == nil {
		return
	}
	handler.metrics.ObserveCycleOperation(operation, err)
	if err == nil {
		handler.metrics.ObserveRemindersCreated(result)
	}
}
