package api

import (
	"github.com/gofiber/fiber/v2"
)

// AuthRequired scopes /api requests to the token's customer. It is a no-op
// when no secret key is configured.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	if !handler.authEnabled() {
		return c.Next()
	}

	customerID, err := handler.authenticateRequest(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}

	c.Locals(contextCustomerKey, customerID)
	return c.Next()
}

func (handler *Handler) canAccess(c *fiber.Ctx, customerID string) bool {
	if !handler.authEnabled() {
		return true
	}
	current, ok := currentCustomer(c)
	return ok && current == customerID
}
