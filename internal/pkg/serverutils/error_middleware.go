package serverutils

import (
	"context"
	"errors"

	"pc-autobuild-be/pkg/autobuild"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns handler errors into the JSON error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, body := ErrorBody(err)
		return ctx.Status(status).JSON(body)
	}
}

// ErrorBody maps an error to its status code and envelope.
func ErrorBody(err error) (int, Response) {
	var validationErrs validator.ValidationErrors
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, ErrorResponse("Validation failed", fieldErrors(validationErrs))
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Message, nil)
	case errors.Is(err, autobuild.ErrInvalidIntent):
		return fiber.StatusUnprocessableEntity, ErrorResponse("Could not find a budget in the request", nil)
	case errors.Is(err, autobuild.ErrExtraction):
		return fiber.StatusBadGateway, ErrorResponse("Intent extraction service failed", nil)
	case errors.Is(err, autobuild.ErrGraphStore):
		return fiber.StatusServiceUnavailable, ErrorResponse("Parts catalog is unavailable", nil)
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, ErrorResponse("Resolution timed out", nil)
	default:
		return fiber.StatusInternalServerError, ErrorResponse("Internal server error", nil)
	}
}
