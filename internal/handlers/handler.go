// Package handlers exposes PeakService over HTTP.
package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
	"github.com/soltixdb/cyclepeak/internal/services"
	"github.com/soltixdb/cyclepeak/internal/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger      *logging.Logger
	peakService *services.PeakService
}

// New creates a new handler instance
func New(logger *logging.Logger, peakService *services.PeakService) *Handler {
	return &Handler{
		logger:      logger,
		peakService: peakService,
	}
}

// requestContext bounds a request with DefaultRequestTimeout
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
}

// statusForCode maps service error codes to HTTP statuses
func statusForCode(code string) int {
	switch code {
	case services.CodeInvalidKind, services.CodeInvalidObservation, services.CodeInvalidPassID:
		return fiber.StatusBadRequest
	case services.CodeTooManyObservations:
		return fiber.StatusRequestEntityTooLarge
	case services.CodePassNotFound:
		return fiber.StatusNotFound
	case services.CodePassExists, services.CodeKindMismatch:
		return fiber.StatusConflict
	case services.CodeTooManyPasses:
		return fiber.StatusTooManyRequests
	case services.CodeRequestCancelled:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	if svcErr, ok := err.(*services.ServiceError); ok {
		return c.Status(statusForCode(svcErr.Code)).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	h.logger.WithContext(c.UserContext()).Error("Unexpected handler error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		},
	})
}

// invalidJSON writes the response for an unparsable request body
func invalidJSON(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INVALID_JSON",
			Message: "Failed to parse JSON body",
			Details: map[string]interface{}{"error": err.Error()},
		},
	})
}
