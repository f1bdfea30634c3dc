package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclekit/internal/models"
	"github.com/terraincognita07/cyclekit/internal/services"
)

func (handler *Handler) CreateCycle(c *fiber.Ctx) error {
	payload := createCyclePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_input")
	}

	customerID := strings.TrimSpace(payload.CustomerID)
	if current, ok := currentCustomer(c); ok && customerID == "" {
		customerID = current
	}
	if !handler.canAccess(c, customerID) {
		return handler.forbidden(c)
	}

	result, err := handler.cycles.CreateCycle(c.UserContext(), services.CycleObservation{
		CustomerID:  customerID,
		PeriodDays:  payload.PeriodDays,
		CycleLength: payload.CycleLength,
		Notes:       payload.Notes,
		Messages:    handler.reminderMessages(c),
	})
	handler.observeCycleOperation("create", err, result)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	cycle, err := handler.loadOwnedCycle(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) UpdateCycle(c *fiber.Ctx) error {
	if _, err := handler.loadOwnedCycle(c); err != nil {
		return handler.serviceError(c, err)
	}

	payload := updateCyclePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_input")
	}

	result, err := handler.cycles.UpdateCycle(c.UserContext(), c.Params("id"), services.CyclePatch{
		PeriodDays:  payload.PeriodDays,
		CycleLength: payload.CycleLength,
		Notes:       payload.Notes,
		Messages:    handler.reminderMessages(c),
	})
	handler.observeCycleOperation("update", err, result)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(result)
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	if _, err := handler.loadOwnedCycle(c); err != nil {
		return handler.serviceError(c, err)
	}

	err := handler.cycles.DeleteCycle(c.UserContext(), c.Params("id"))
	handler.observeCycleOperation("delete", err, services.CycleResult{})
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCycleEvents responds with null when the cycle has no period days.
func (handler *Handler) GetCycleEvents(c *fiber.Ctx) error {
	if _, err := handler.loadOwnedCycle(c); err != nil {
		return handler.serviceError(c, err)
	}

	events, err := handler.cycles.CycleEvents(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(events)
}

func (handler *Handler) PreviewCycle(c *fiber.Ctx) error {
	payload := previewPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_input")
	}

	now := handler.now()
	if payload.Now != nil {
		now = *payload.Now
	}

	preview, err := handler.cycles.PreviewCycle(payload.PeriodDays, payload.CycleLength, now, handler.reminderMessages(c))
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(preview)
}

func (handler *Handler) loadOwnedCycle(c *fiber.Ctx) (models.Cycle, error) {
	cycle, err := handler.cycles.GetCycle(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.Cycle{}, err
	}
	if !handler.canAccess(c, cycle.CustomerID) {
		return models.Cycle{}, errForeignCustomer
	}
	return cycle, nil
}
