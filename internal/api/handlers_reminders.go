package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclekit/internal/calendar"
	"github.com/terraincognita07/cyclekit/internal/models"
)

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	reminders, err := handler.customerReminders(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

// ExportReminderCalendar answers 204 when there is nothing to export, since
// an iCalendar object must carry at least one component.
func (handler *Handler) ExportReminderCalendar(c *fiber.Ctx) error {
	reminders, err := handler.customerReminders(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	if len(reminders) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	body, err := calendar.Marshal(calendar.BuildReminderCalendar(reminders, handler.calendarProductID, handler.now()))
	if err != nil {
		return handler.serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "reminders.ics"))
	return c.Send(body)
}

func (handler *Handler) MarkReminderSent(c *fiber.Ctx) error {
	reminder, err := handler.reminders.GetReminder(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	if !handler.canAccess(c, reminder.CustomerID) {
		return handler.forbidden(c)
	}

	reminder, err = handler.reminders.MarkSent(c.UserContext(), reminder.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(reminder)
}

// customerReminders loads the reminders named by the :customer param and the
// optional comma separated ?type= filter.
func (handler *Handler) customerReminders(c *fiber.Ctx) ([]models.Reminder, error) {
	customerID := strings.TrimSpace(c.Params("customer"))
	if !handler.canAccess(c, customerID) {
		return nil, errForeignCustomer
	}

	types, ok := parseReminderTypes(c.Query("type"))
	if !ok {
		return nil, errUnknownReminderType
	}
	return handler.reminders.ListReminders(c.UserContext(), customerID, types...)
}

func parseReminderTypes(raw string) ([]models.ReminderType, bool) {
	types := make([]models.ReminderType, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		reminderType, ok := models.ParseReminderType(part)
		if !ok {
			return nil, false
		}
		types = append(types, reminderType)
	}
	return types, true
}
