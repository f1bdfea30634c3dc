package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclekit/internal/models"
)

type notifierStub struct {
	notified []string
	errByID  map[string]error
}

func (stub *notifierStub) Notify(_ context.Context, reminder models.Reminder) error {
	if err, ok := stub.errByID[reminder.ID]; ok {
		return err
	}
	stub.notified = append(stub.notified, reminder.ID)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestDispatchDueMarksNotifiedRemindersSent(t *testing.T) {
	stub := newReminderRepositoryStub()
	seedReminder(stub, "due-1", "customer-1", models.ReminderPill, "2024-12-01")
	seedReminder(stub, "due-2", "customer-1", models.ReminderPeriod, "2024-12-02")
	seedReminder(stub, "future", "customer-1", models.ReminderPeriod, "2024-12-26")

	notifier := &notifierStub{errByID: map[string]error{}}
	dispatcher := NewReminderDispatcher(stub, notifier, 10, quietLogger())

	report, err := dispatcher.DispatchDue(context.Background(), mustParseTime("2024-12-02 08:00"))
	if err != nil {
		t.Fatalf("dispatch due: %v", err)
	}
	if report.Due != 2 || report.Sent != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !stub.reminders["due-1"].IsSent || !stub.reminders["due-2"].IsSent {
		t.Fatal("expected due reminders to be marked sent")
	}
	if stub.reminders["future"].IsSent {
		t.Fatal("expected future reminder to stay unsent")
	}

	report, err = dispatcher.DispatchDue(context.Background(), mustParseTime("2024-12-02 08:00"))
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if report.Due != 0 {
		t.Fatalf("expected sent reminders not to be dispatched again, got %+v", report)
	}
}

func TestDispatchDueContinuesAfterFailure(t *testing.T) {
	stub := newReminderRepositoryStub()
	seedReminder(stub, "a", "customer-1", models.ReminderPill, "2024-12-01")
	seedReminder(stub, "b", "customer-1", models.ReminderPill, "2024-12-02")

	notifier := &notifierStub{errByID: map[string]error{"a": errStoreUnavailable}}
	dispatcher := NewReminderDispatcher(stub, notifier, 10, quietLogger())

	report, err := dispatcher.DispatchDue(context.Background(), mustParseDay("2024-12-03"))
	if !errors.Is(err, errStoreUnavailable) {
		t.Fatalf("expected joined notifier error, got %v", err)
	}
	if report.Sent != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if stub.reminders["a"].IsSent {
		t.Fatal("expected failed reminder to stay unsent for retry")
	}
	if !stub.reminders["b"].IsSent {
		t.Fatal("expected later reminder to be sent")
	}
}

func TestDispatchDueRespectsBatchSize(t *testing.T) {
	stub := newReminderRepositoryStub()
	seedReminder(stub, "a", "customer-1", models.ReminderPill, "2024-12-01")
	seedReminder(stub, "b", "customer-1", models.ReminderPill, "2024-12-02")
	seedReminder(stub, "c", "customer-1", models.ReminderPill, "2024-12-03")

	notifier := &notifierStub{errByID: map[string]error{}}
	report, err := NewReminderDispatcher(stub, notifier, 2, quietLogger()).DispatchDue(context.Background(), mustParseDay("2024-12-04"))
	if err != nil {
		t.Fatalf("dispatch due: %v", err)
	}
	if report.Due != 2 || len(notifier.notified) != 2 {
		t.Fatalf("expected a batch of 2, got %+v", report)
	}
}

func TestDispatchDueListFailure(t *testing.T) {
	stub := newReminderRepositoryStub()
	stub.listErr = errStoreUnavailable

	_, err := NewReminderDispatcher(stub, &notifierStub{}, 0, quietLogger()).DispatchDue(context.Background(), mustParseDay("2024-12-04"))
	if !errors.Is(err, errStoreUnavailable) {
		t.Fatalf("expected list error, got %v", err)
	}
}
