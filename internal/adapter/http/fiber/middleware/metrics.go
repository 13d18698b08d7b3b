package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ratesense/ratesense/internal/observability/telemetry"
)

// Metrics counts served requests by method, route and status. The route
// pattern is used instead of the raw path so parameterized routes collapse
// into one series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}

		telemetry.HTTPRequestsTotal.WithLabelValues(
			c.Method(),
			path,
			strconv.Itoa(status),
		).Inc()

		return err
	}
}
