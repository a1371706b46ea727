package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/cyclepeak/internal/models"
)

// CreatePass handles POST /v1/passes
func (h *Handler) CreatePass(c *fiber.Ctx) error {
	var body models.CreatePassRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	resp, err := h.peakService.CreatePass(body.Kind, body.ID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListPasses handles GET /v1/passes
func (h *Handler) ListPasses(c *fiber.Ctx) error {
	return c.JSON(h.peakService.ListPasses())
}

// GetPass handles GET /v1/passes/:id
func (h *Handler) GetPass(c *fiber.Ctx) error {
	resp, err := h.peakService.GetPass(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// ObservePass handles POST /v1/passes/:id/observations
func (h *Handler) ObservePass(c *fiber.Ctx) error {
	var body models.ObserveRequest
	if err := c.BodyParser(&body); err != nil {
		return invalidJSON(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.peakService.Observe(ctx, c.Params("id"), body.Values)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// PassPeak handles GET /v1/passes/:id/peak
func (h *Handler) PassPeak(c *fiber.Ctx) error {
	resp, err := h.peakService.PassPeak(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}

// DeletePass handles DELETE /v1/passes/:id
func (h *Handler) DeletePass(c *fiber.Ctx) error {
	resp, err := h.peakService.DeletePass(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(resp)
}
