package serverutils

import (
	"errors"

	"hr-helpdesk-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every error as a JSON envelope. Internal details are
// only exposed when debug is set.
func ErrorHandler(log logger.ILogger, debug bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			code = fiber.StatusBadRequest
			message = ve.Error()
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		default:
			log.Error("http", "Unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
			if debug {
				message = err.Error()
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
