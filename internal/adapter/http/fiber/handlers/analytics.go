package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

const defaultForecastDays = 30

type AnalyticsHandler struct {
	analytics ports.AnalyticsService
	hotelID   string
	log       *zap.Logger
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, hotelID string, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		hotelID:   hotelID,
		log:       log,
	}
}

// Statistics serves the learned-history summary.
func (h *AnalyticsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.analytics.Statistics(c.Context(), h.hotelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// YearComparison contrasts the current week with the same week last year.
func (h *AnalyticsHandler) YearComparison(c *fiber.Ctx) error {
	comparison, err := h.analytics.YearComparison(c.Context(), h.hotelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(comparison)
}

// Predictions serves the occupancy forecast. The horizon defaults to 30 days
// and is capped at 90.
func (h *AnalyticsHandler) Predictions(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultForecastDays)
	if days <= 0 {
		days = defaultForecastDays
	}
	if days > 90 {
		days = 90
	}

	forecasts, err := h.analytics.Predictions(c.Context(), h.hotelID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"predictions": forecasts, "days": days})
}
