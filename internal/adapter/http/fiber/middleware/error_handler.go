package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/domain"
)

// ErrorHandler maps the core's typed failures to HTTP statuses. Every error
// is a rejected operation, never a crash.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusFor(err)

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code == fiber.StatusInternalServerError {
			log.Error("Internal Server Error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStationNotFound),
		errors.Is(err, domain.ErrConnectorNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrTariffNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyOpen):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidMeterValue),
		errors.Is(err, domain.ErrInvalidTariff):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
