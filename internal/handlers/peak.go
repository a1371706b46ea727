package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/cyclepeak/internal/models"
)

// ComputePeak handles one-shot peak requests
// POST /v1/peak/:kind  {"values": ["06:00:00", ...]}
func (h *Handler) ComputePeak(c *fiber.Ctx) error {
	var body models.PeakRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.peakService.Compute(ctx, c.Params("kind"), body.Values)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}
