package calendar

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/terraincognita07/cyclekit/internal/models"
)

const DefaultProductID = "-//cyclekit//Reminders//EN"

// BuildReminderCalendar renders reminders as one VEVENT each. Times are
// written in UTC; stamp becomes every event's DTSTAMP.
func BuildReminderCalendar(reminders []models.Reminder, prodID string, stamp time.Time) *ical.Calendar {
	if prodID == "" {
		prodID = DefaultProductID
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, prodID)

	for _, reminder := range reminders {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, reminder.ID+"@cyclekit")
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, reminder.Date.UTC())
		event.Props.SetText(ical.PropSummary, reminder.Message)
		event.Props.SetText(ical.PropCategories, string(reminder.Type))
		if reminder.IsSent {
			event.Props.SetText(ical.PropStatus, "CONFIRMED")
		} else {
			event.Props.SetText(ical.PropStatus, "TENTATIVE")
		}
		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

func Encode(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func Marshal(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, cal); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
