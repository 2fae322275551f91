package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/dto"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
)

// CatalogHandler consultas de solo lectura: bodegas y desglose por bodega (protegido).
type CatalogHandler struct {
	uc *stockkeeping.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *stockkeeping.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListWarehouses godoc
// @Summary      Listar bodegas
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo bodegas activas"
// @Success      200     {object}  dto.WarehouseListResponse
// @Failure      502     {object}  dto.ErrorResponse
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	list, err := h.uc.Warehouses(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	onlyActive := c.QueryBool("active", false)
	out := dto.WarehouseListResponse{Rows: make([]dto.WarehouseResponse, 0, len(list))}
	for _, w := range list {
		if onlyActive && !w.IsActive {
			continue
		}
		out.Rows = append(out.Rows, warehouseResponse(w))
	}
	return c.JSON(out)
}

// Breakdown godoc
// @Summary      Desglose de existencias por bodega
// @Description  scope=product agrega todas las variantes; scope=variant solo la indicada.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id          path   string  true   "ID del producto"
// @Param        variant_id  query  string  false  "ID de la variante (fila de origen)"
// @Param        scope       query  string  false  "product | variant"  default(product)
// @Success      200  {object}  dto.BreakdownResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/breakdown [get]
func (h *CatalogHandler) Breakdown(c *fiber.Ctx) error {
	productID := c.Params("id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	scope := stockkeeping.ParseBreakdownScope(c.Query("scope"))
	view, err := h.uc.ProductBreakdown(c.UserContext(), productID, c.Query("variant_id"), scope)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(breakdownResponse(view))
}
