package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

type RateHandler struct {
	rates ports.RateService
	log   *zap.Logger
}

func NewRateHandler(rates ports.RateService, log *zap.Logger) *RateHandler {
	return &RateHandler{
		rates: rates,
		log:   log,
	}
}

// List serves the current prices as room kind -> occupancy -> price.
func (h *RateHandler) List(c *fiber.Ctx) error {
	prices, err := h.rates.CurrentPrices(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"prices": prices})
}

type ApplyRequest struct {
	Recommendations []ports.RatePushRequest `json:"recommendations"`
}

// Apply pushes a batch of recommendation changes to the channel manager.
func (h *RateHandler) Apply(c *fiber.Ctx) error {
	var req ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if len(req.Recommendations) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No recommendations to apply"})
	}

	report, err := h.rates.ApplyRecommendations(c.Context(), req.Recommendations)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
