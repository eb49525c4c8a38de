package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"studio-booking-be/internal/pkg/apperror"
)

// ErrorHandlerMiddleware converts domain errors bubbling out of handlers
// into the standard error envelope with the right HTTP status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var ae *apperror.AppError
		if errors.As(err, &ae) {
			return ctx.Status(statusFor(ae.Kind)).JSON(ErrorResponse(string(ae.Kind), ae.Message))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse("HTTP_ERROR", fe.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("INTERNAL", "something went wrong"))
	}
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindNoOp:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindInvalidTransition,
		apperror.KindAlreadyTerminal,
		apperror.KindAlreadyCheckedIn,
		apperror.KindWrongDay,
		apperror.KindReschedulingWindow,
		apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindTransaction:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
