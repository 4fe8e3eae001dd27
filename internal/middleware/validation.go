package middleware

import (
	"trivia-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// LocalSessionID is the fiber.Locals key holding a validated session ID.
const LocalSessionID = "validated_session_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

// ValidateSessionID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		if errors := vm.validator.ValidateSessionID(sessionID); len(errors) > 0 {
			return errors // handled by ErrorHandler
		}

		c.Locals(LocalSessionID, sessionID)
		return c.Next()
	}
}
