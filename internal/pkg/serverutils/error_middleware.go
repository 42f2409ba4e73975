package serverutils

import (
	"errors"

	"ai-hub-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the error taxonomy onto HTTP statuses.
// Component-local failures never reach here; only boundary rejections and
// conversation-affecting failures surface to the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		switch apperror.KindOf(err) {
		case apperror.KindValidation:
			status = fiber.StatusBadRequest
		case apperror.KindNotFound:
			status = fiber.StatusNotFound
		case apperror.KindAuth:
			status = fiber.StatusUnauthorized
		case apperror.KindRead:
			status = fiber.StatusUnprocessableEntity
		case apperror.KindCompletion, apperror.KindPersistence:
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
