package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclekit/internal/services"
)

var (
	errForeignCustomer     = errors.New("resource belongs to another customer")
	errUnknownReminderType = errors.New("unknown reminder type")
)

func (handler *Handler) apiError(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{"error": handler.i18n.Translate(currentLanguage(c), key)})
}

// serviceError maps service and repository errors onto HTTP statuses.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errForeignCustomer):
		return handler.forbidden(c)
	case errors.Is(err, errUnknownReminderType):
		return handler.apiError(c, fiber.StatusBadRequest, "error.unknown_reminder_type")
	case errors.Is(err, services.ErrCycleNotFound):
		return handler.apiError(c, fiber.StatusNotFound, "error.cycle_not_found")
	case errors.Is(err, services.ErrReminderNotFound):
		return handler.apiError(c, fiber.StatusNotFound, "error.reminder_not_found")
	case errors.Is(err, services.ErrInvalidPeriodDay):
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_period_day")
	case errors.Is(err, services.ErrCycleLengthOutOfRange):
		return handler.apiError(c, fiber.StatusBadRequest, "error.cycle_length_out_of_range")
	case errors.Is(err, services.ErrCustomerRequired):
		return handler.apiError(c, fiber.StatusBadRequest, "error.customer_required")
	default:
		handler.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		return handler.apiError(c, fiber.StatusInternalServerError, "error.internal")
	}
}

func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}
	return handler.serviceError(c, err)
}

func (handler *Handler) forbidden(c *fiber.Ctx) error {
	return handler.apiError(c, fiber.StatusForbidden, "error.forbidden")
}
