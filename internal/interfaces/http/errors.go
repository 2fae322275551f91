package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
// El mensaje de un rechazo remoto se devuelve tal cual.
func writeError(c *fiber.Ctx, err error) error {
	var ve *stockkeeping.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.NotSubmittableResponse{
			Code:       "NOT_SUBMITTABLE",
			Message:    ve.Error(),
			Validation: validationResponse(ve.Blocker, ve.Problems),
		})
	}
	var se *stockkeeping.SubmissionError
	if errors.As(err, &se) {
		status := fiber.StatusBadGateway
		var remote *ports.RemoteError
		if errors.As(se.Err, &remote) && remote.StatusCode >= 400 && remote.StatusCode < 500 {
			status = fiber.StatusUnprocessableEntity
		}
		all := se.Batches
		if len(all) == 0 {
			all = append(append([]stockkeeping.BatchOutcome(nil), se.Committed...), se.Failed)
		}
		batches := make([]dto.BatchResponse, 0, len(all))
		for _, b := range all {
			batches = append(batches, batchResponse(b))
		}
		return c.Status(status).JSON(dto.SubmitFailureResponse{
			Code:            "SUBMIT_FAILED",
			Message:         se.Message,
			RefreshRequired: len(se.Committed) > 0,
			Batches:         batches,
		})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInactiveWarehouse):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INACTIVE_WAREHOUSE", Message: err.Error()})
	case errors.Is(err, domain.ErrNoValidLines):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_VALID_LINES", Message: err.Error()})
	case errors.Is(err, domain.ErrBusy):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUSY", Message: err.Error()})
	case errors.Is(err, domain.ErrSuperseded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUPERSEDED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrClosed):
		return c.Status(fiber.StatusGone).JSON(dto.ErrorResponse{Code: "SESSION_CLOSED", Message: err.Error()})
	case errors.Is(err, domain.ErrFetchFailed):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "FETCH_FAILED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
