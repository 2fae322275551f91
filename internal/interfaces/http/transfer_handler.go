package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
)

// TransferHandler sesiones de traslado entre bodegas (protegido).
type TransferHandler struct {
	registry *stockkeeping.Registry
}

// NewTransferHandler construye el handler.
func NewTransferHandler(registry *stockkeeping.Registry) *TransferHandler {
	return &TransferHandler{registry: registry}
}

func (h *TransferHandler) session(c *fiber.Ctx) (*stockkeeping.TransferSession, error) {
	return h.registry.Transfer(c.Params("id"), GetUserID(c))
}

// lineParam devuelve el ID de línea ("variante@bodega") sin escapes.
func lineParam(c *fiber.Ctx) string {
	raw := c.Params("lineId")
	if s, err := url.PathUnescape(raw); err == nil {
		return s
	}
	return raw
}

func (h *TransferHandler) state(c *fiber.Ctx, s *stockkeeping.TransferSession) error {
	return c.JSON(transferStateResponse(s.State()))
}

// Open godoc
// @Summary      Abrir sesión de traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.TransferSessionResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Open(c *fiber.Ctx) error {
	s := h.registry.OpenTransfer(GetUserID(c))
	// Si falla, el directorio se vuelve a pedir al elegir bodegas.
	_, _ = s.LoadWarehouses(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(transferStateResponse(s.State()))
}

// Get godoc
// @Summary      Estado de la sesión de traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.TransferSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// SourceStock godoc
// @Summary      Existencias vigentes de la bodega origen
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.SourceStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/stock [get]
func (h *TransferHandler) SourceStock(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	snap, ok := s.SourceSnapshot()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "STOCK_NOT_LOADED", Message: "no hay existencias cargadas para la bodega origen"})
	}
	return c.JSON(sourceStockResponse(snap))
}

// SelectSource godoc
// @Summary      Elegir bodega origen
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la sesión"
// @Param        body  body  dto.SelectWarehouseRequest  true  "Bodega origen"
// @Success      200   {object}  dto.TransferSessionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/source [put]
func (h *TransferHandler) SelectSource(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SelectWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	if err := s.SelectSource(c.UserContext(), in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// Refresh godoc
// @Summary      Volver a consultar las existencias de la sesión
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.TransferSessionResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/refresh [post]
func (h *TransferHandler) Refresh(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.Refresh(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// AddLine godoc
// @Summary      Agregar variante a la selección
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la sesión"
// @Param        body  body  dto.AddLineRequest  true  "Variante"
// @Success      200   {object}  dto.TransferSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/lines [post]
func (h *TransferHandler) AddLine(c *fiber.Ctx) error {
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

// Seed godoc
// @Summary      Sembrar líneas desde el desglose por bodega
// @Description  Agrega una línea por cada bodega activa con stock de la variante.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la sesión"
// @Param        body  body  dto.SeedLinesRequest  true  "Producto y variante"
// @Success      200   {object}  dto.TransferSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/seed [post]
func (h *TransferHandler) Seed(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SeedLinesRequest
	if err := c.BodyParser(&in); err != nil || in.ProductID == "" || in.VariantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y variant_id son requeridos"})
	}
	if err := s.SeedFromVariant(c.UserContext(), in.ProductID, in.VariantID); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// UpdateLine godoc
// @Summary      Editar cantidad o destino de una línea
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                          true  "ID de la sesión"
// @Param        lineId  path  string                          true  "ID de la línea (variante@bodega)"
// @Param        body    body  dto.UpdateTransferLineRequest   true  "Cambios"
// @Success      200     {object}  dto.TransferSessionResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/lines/{lineId} [patch]
func (h *TransferHandler) UpdateLine(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateTransferLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lineID := lineParam(c)
	if in.Quantity != nil {
		if err := s.SetQuantity(lineID, in.Quantity.Decimal()); err != nil {
			return writeError(c, err)
		}
	}
	if in.DestinationWarehouseID != nil {
		if err := s.SetDestination(lineID, *in.DestinationWarehouseID); err != nil {
			return writeError(c, err)
		}
	}
	return h.state(c, s)
}

// RemoveLine godoc
// @Summary      Quitar una línea
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la sesión"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.TransferSessionResponse
// @Router       /api/transfers/{id}/lines/{lineId} [delete]
func (h *TransferHandler) RemoveLine(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.RemoveLine(lineParam(c)); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// ApplyDestination godoc
// @Summary      Aplicar un destino a todas las líneas
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la sesión"
// @Param        body  body  dto.SelectWarehouseRequest  true  "Bodega destino"
// @Success      200   {object}  dto.TransferSessionResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/destination [put]
func (h *TransferHandler) ApplyDestination(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SelectWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := s.SetAllDestinations(in.WarehouseID); err != nil {
		return writeError(c, err)
	}
	return h.state(c, s)
}

// Submit godoc
// @Summary      Enviar el traslado
// @Description  Un lote por ruta (origen, destino), enviados en orden. Si un lote falla,
// @Description  los anteriores quedan confirmados y sus líneas salen de la selección.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la sesión"
// @Param        body  body  dto.SubmitRequest  false  "Motivo"
// @Success      200   {object}  dto.TransferSubmitResponse
// @Failure      422   {object}  dto.NotSubmittableResponse
// @Failure      502   {object}  dto.SubmitFailureResponse
// @Router       /api/transfers/{id}/submit [post]
func (h *TransferHandler) Submit(c *fiber.Ctx) error {
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
	out := dto.TransferSubmitResponse{
		ItemsProcessed:  outcome.ItemsProcessed,
		RefreshRequired: outcome.RefreshRequired,
		Batches:         make([]dto.BatchResponse, 0, len(outcome.Batches)),
	}
	for _, b := range outcome.Batches {
		out.Batches = append(out.Batches, batchResponse(b))
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar la sesión de traslado
// @Tags         transfers
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Close(c *fiber.Ctx) error {
	if err := h.registry.CloseTransfer(c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
