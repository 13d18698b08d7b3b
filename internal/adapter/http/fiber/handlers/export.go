package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

type ExportHandler struct {
	exports ports.ExportService
	hotelID string
	log     *zap.Logger
}

func NewExportHandler(exports ports.ExportService, hotelID string, log *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		hotelID: hotelID,
		log:     log,
	}
}

// CSV downloads the recommendation export as a semicolon-separated file.
func (h *ExportHandler) CSV(c *fiber.Ctx) error {
	data, filename, err := h.exports.CSV(c.Context(), h.hotelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// JSON serves the full payload enriched with current prices.
func (h *ExportHandler) JSON(c *fiber.Ctx) error {
	payload, err := h.exports.JSON(c.Context(), h.hotelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(payload)
}
