package serverutils

import (
	"errors"

	"webnotes-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps service-layer error classes to HTTP statuses.
// Controllers just return errors; nothing below this layer knows about
// status codes.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(validationErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperr.ErrStoreUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("storage is unavailable, try again shortly"))
		case errors.Is(err, apperr.ErrModelUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse("AI model is unavailable, try again shortly"))
		case errors.Is(err, apperr.ErrComputeFailed):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse("AI computation failed"))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
		}
	}
}
