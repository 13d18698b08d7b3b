package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/domain"
	"github.com/ratesense/ratesense/internal/ports"
)

type RecommendationHandler struct {
	recommendations ports.RecommendationService
	decisions       ports.DecisionService
	hotelID         string
	log             *zap.Logger
}

func NewRecommendationHandler(recommendations ports.RecommendationService, decisions ports.DecisionService, hotelID string, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		decisions:       decisions,
		hotelID:         hotelID,
		log:             log,
	}
}

// Get serves the precomputed payload, falling back to a live computation.
func (h *RecommendationHandler) Get(c *fiber.Ctx) error {
	payload, err := h.recommendations.Payload(c.Context(), h.hotelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(payload)
}

// Precompute triggers a background recompute and returns immediately. The
// fiber context dies with the request, so the job runs on its own context.
func (h *RecommendationHandler) Precompute(c *fiber.Ctx) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := h.recommendations.Precompute(ctx, h.hotelID); err != nil {
			h.log.Error("Background precompute failed", zap.Error(err))
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "precompute started",
	})
}

type DecisionRequest struct {
	Decision   string   `json:"decision"`
	UserChange *float64 `json:"user_change,omitempty"`
}

// Decide records an operator verdict on one recommendation and applies
// approved or modified changes.
func (h *RecommendationHandler) Decide(c *fiber.Ctx) error {
	recommendationID := c.Params("id")

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	result, err := h.decisions.Record(c.Context(), recommendationID, domain.DecisionState(req.Decision), req.UserChange)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// Decisions serves the decision log together with the learner's summary.
func (h *RecommendationHandler) Decisions(c *fiber.Ctx) error {
	log, err := h.decisions.Log(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(log)
}
