package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ratesense/ratesense/internal/ports"
)

type RoomHandler struct {
	rooms ports.RoomService
	log   *zap.Logger
}

func NewRoomHandler(rooms ports.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
		log:   log,
	}
}

// List serves the room catalog.
func (h *RoomHandler) List(c *fiber.Ctx) error {
	kinds, err := h.rooms.Catalog(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rooms": kinds, "count": len(kinds)})
}
