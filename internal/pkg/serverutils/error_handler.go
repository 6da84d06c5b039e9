package serverutils

import (
	"errors"
	"fmt"
	"runtime/debug"

	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, apperror.ErrMissingUsername),
		errors.Is(err, apperror.ErrInvalidPayload),
		errors.Is(err, apperror.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler is installed as fiber's ErrorHandler. Client errors echo their
// message; everything else is logged in full and answered with a generic body.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled request error", map[string]interface{}{
				"error":  err.Error(),
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
			message = "Internal server error"
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// NewRecoverMiddleware turns handler panics into 500s. The panic value and stack go
// to the log; the caller only sees the generic body from the error handler.
func NewRecoverMiddleware(log logger.ILogger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, r interface{}) {
			log.Error("HTTP", "Recovered from panic", map[string]interface{}{
				"error":  fmt.Sprintf("%v", r),
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"stack":  string(debug.Stack()),
			})
		},
	})
}
