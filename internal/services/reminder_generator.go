package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/cyclekit/internal/models"
)

const (
	periodReminderLeadDays    = 3
	ovulationReminderLeadDays = 1
	pillReminderDays          = 3
	pillReminderHour          = 20
	PillCourseDays            = 21
)

type ReminderDraft struct {
	Type      models.ReminderType `json:"type"`
	Date      time.Time           `json:"date"`
	Message   string              `json:"message"`
	DayNumber int                 `json:"day_number,omitempty"`
}

type ReminderMessages interface {
	PeriodReminder() string
	OvulationReminder() string
	PillReminder(dayNumber int, courseDays int) string
}

type defaultReminderMessages struct{}

func (defaultReminderMessages) PeriodReminder() string {
	return "Your period is expected in 3 days."
}

func (defaultReminderMessages) OvulationReminder() string {
	return "Ovulation is expected tomorrow: your fertile window is open."
}

func (defaultReminderMessages) PillReminder(dayNumber int, courseDays int) string {
	return fmt.Sprintf("Time to take your pill: day %d/%d.", dayNumber, courseDays)
}

func DefaultReminderMessages() ReminderMessages {
	return defaultReminderMessages{}
}

// GenerateReminders turns a cycle timeline into reminder drafts relative to
// now. Period and ovulation drafts are emitted only while still in the
// future; pill drafts cover today and the next two days at 20:00 within the
// 21-day course that starts the day after the period ends. Drafts come out
// as period, ovulation, then pills in date order.
func GenerateReminders(events *CycleEvents, now time.Time, messages ReminderMessages) []ReminderDraft {
	drafts := make([]ReminderDraft, 0, 2+pillReminderDays)
	if events == nil {
		return drafts
	}
	if messages == nil {
		messages = DefaultReminderMessages()
	}

	periodAt := events.NextPeriodDate.AddDate(0, 0, -periodReminderLeadDays)
	if periodAt.After(now) {
		drafts = append(drafts, ReminderDraft{
			Type:    models.ReminderPeriod,
			Date:    periodAt,
			Message: messages.PeriodReminder(),
		})
	}

	ovulationAt := events.OvulationDate.AddDate(0, 0, -ovulationReminderLeadDays)
	if ovulationAt.After(now) {
		drafts = append(drafts, ReminderDraft{
			Type:    models.ReminderOvulation,
			Date:    ovulationAt,
			Message: messages.OvulationReminder(),
		})
	}

	pillStart := events.PeriodEndDate.AddDate(0, 0, 1)
	for offset := 0; offset < pillReminderDays; offset++ {
		candidate := pillReminderTime(now.AddDate(0, 0, offset))
		if candidate.Before(pillStart) {
			continue
		}
		dayNumber := calendarDaysBetween(pillStart, candidate) + 1
		if dayNumber > PillCourseDays {
			continue
		}
		drafts = append(drafts, ReminderDraft{
			Type:      models.ReminderPill,
			Date:      candidate,
			Message:   messages.PillReminder(dayNumber, PillCourseDays),
			DayNumber: dayNumber,
		})
	}

	return drafts
}

func pillReminderTime(day time.Time) time.Time {
	year, month, date := day.Date()
	return time.Date(year, month, date, pillReminderHour, 0, 0, 0, day.Location())
}
