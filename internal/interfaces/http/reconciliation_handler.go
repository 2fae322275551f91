package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
)

// ReconciliationHandler sesiones de conciliación de stock no atribuido (protegido).
type ReconciliationHandler struct {
	registry *stockkeeping.Registry
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(registry *stockkeeping.Registry) *ReconciliationHandler {
	return &ReconciliationHandler{registry: registry}
}

func (h *ReconciliationHandler) session(c *fiber.Ctx) (*stockkeeping.ReconciliationSession, error) {
	return h.registry.Reconciliation(c.Params("id"), GetUserID(c))
}

func (h *ReconciliationHandler) state(c *fiber.Ctx, s *stockkeeping.ReconciliationSession) error {
	return c.JSON(reconciliationStateResponse(s.State()))
}

// Open godoc
// @Summary      Abrir sesión de conciliación
// @Tags         reconciliations
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.ReconciliationSessionResponse
// @Router       /api/reconciliations [post]
func (h *ReconciliationHandler) Open(c *fiber.Ctx) error {
	s := h.registry.OpenReconciliation(GetUserID(c))
	_, _ = s.LoadWarehouses(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(reconciliationStateResponse(s.State()))
}

// Get godoc
// @Summary      Estado de la sesión de conciliación
// @Tags         reconciliations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.ReconciliationSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reconciliations/{id} [get]
func (h *ReconciliationHandler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// Search godoc
// @Summary      Buscar stock no atribuido
// @Description  q vacío trae el listado completo. Una búsqueda reemplazada por otra más nueva responde 409.
// @Tags         reconciliations
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID de la sesión"
// @Param        q    query  string  false  "Nombre o SKU"
// @Success      200  {object}  dto.UnallocatedSearchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reconciliations/{id}/search [get]
func (h *ReconciliationHandler) Search(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	term := c.Query("q")
	rows, err := s.Search(c.UserContext(), term)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(unallocatedResponse(stockkeeping.NormalizeSearchTerm(term), rows))
}

// AddLine godoc
// @Summary      Agregar variante no atribuida
// @Tags         reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.AddLineRequest  true  "Variante"
// @Success      200   {object}  dto.ReconciliationSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reconciliations/{id}/lines [post]
func (h *ReconciliationHandler) AddLine(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil || in.VariantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id es requerido"})
	}
	if err := s.AddLine(in.VariantID); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// UpdateLine godoc
// @Summary      Editar cantidad o bodega de una línea
// @Tags         reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                               true  "ID de la sesión"
// @Param        lineId  path  string                               true  "ID de la línea (variante)"
// @Param        body    body  dto.UpdateReconciliationLineRequest  true  "Cambios"
// @Success      200     {object}  dto.ReconciliationSessionResponse
// @Router       /api/reconciliations/{id}/lines/{lineId} [patch]
func (h *ReconciliationHandler) UpdateLine(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateReconciliationLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lineID := lineParam(c)
	if in.Quantity != nil {
		if err := s.SetQuantity(lineID, in.Quantity.Decimal()); err != nil {
			return writeError(c, err)
		}
	}
	if in.TargetWarehouseID != nil {
		if err := s.SetTarget(lineID, *in.TargetWarehouseID); err != nil {
			return writeError(c, err)
		}
	}
	return h.state(c, s)
}

// RemoveLine godoc
// @Summary      Quitar una línea
// @Tags         reconciliations
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la sesión"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.ReconciliationSessionResponse
// @Router       /api/reconciliations/{id}/lines/{lineId} [delete]
func (h *ReconciliationHandler) RemoveLine(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.RemoveLine(lineParam(c)); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// ApplyTarget godoc
// @Summary      Aplicar una bodega a todas las líneas
// @Tags         reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la sesión"
// @Param        body  body  dto.SelectWarehouseRequest  true  "Bodega"
// @Success      200   {object}  dto.ReconciliationSessionResponse
// @Router       /api/reconciliations/{id}/target [put]
func (h *ReconciliationHandler) ApplyTarget(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SelectWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := s.SetAllTargets(in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// Submit godoc
// @Summary      Enviar la conciliación
// @Tags         reconciliations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la sesión"
// @Param        body  body  dto.SubmitRequest  false  "Motivo"
// @Success      200   {object}  dto.ReconciliationSubmitResponse
// @Failure      422   {object}  dto.NotSubmittableResponse
// @Failure      502   {object}  dto.SubmitFailureResponse
// @Router       /api/reconciliations/{id}/submit [post]
func (h *ReconciliationHandler) Submit(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SubmitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	outcome, err := s.Submit(c.UserContext(), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconciliationSubmitResponse{
		SubmissionID:    outcome.SubmissionID,
		ItemsProcessed:  outcome.ItemsProcessed,
		RefreshRequired: outcome.RefreshRequired,
	})
}

// Close godoc
// @Summary      Cerrar la sesión de conciliación
// @Tags         reconciliations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/reconciliations/{id} [delete]
func (h *ReconciliationHandler) Close(c *fiber.Ctx) error {
	if err := h.registry.CloseReconciliation(c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
