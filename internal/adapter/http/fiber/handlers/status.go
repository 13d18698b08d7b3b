package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

type StatusHandler struct {
	status ports.StatusService
	log    *zap.Logger
}

func NewStatusHandler(status ports.StatusService, log *zap.Logger) *StatusHandler {
	return &StatusHandler{
		status: status,
		log:    log,
	}
}

// Status serves the dashboard status snapshot.
func (h *StatusHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.status.Status(c.Context()))
}

// SelfTest runs the connectivity checks against the PMS surfaces. Slow by
// nature, so POST only.
func (h *StatusHandler) SelfTest(c *fiber.Ctx) error {
	return c.JSON(h.status.SelfTest(c.Context()))
}
