package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
)

// SubmissionHandler documentos de envíos registrados en la bitácora (protegido).
type SubmissionHandler struct {
	slip *stockkeeping.SlipUseCase
}

// NewSubmissionHandler construye el handler.
func NewSubmissionHandler(slip *stockkeeping.SlipUseCase) *SubmissionHandler {
	return &SubmissionHandler{slip: slip}
}

// TransferSlip godoc
// @Summary      Comprobante PDF de un traslado confirmado
// @Tags         submissions
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/submissions/{id}/slip [get]
func (h *SubmissionHandler) TransferSlip(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdf, filename, err := h.slip.TransferSlip(c.UserContext(), GetUserID(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}
