package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/portalenergy/chargehub/internal/observability/telemetry"
)

// Metrics counts served operations by route and outcome.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		outcome := "ok"
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			outcome = "error"
		}

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		telemetry.OperationsTotal.WithLabelValues(c.Method()+" "+route, outcome).Inc()
		return err
	}
}
