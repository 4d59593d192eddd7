package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ValuationHandler valoración de inventario.
type ValuationHandler struct {
	uc  *inventory.ValuationUseCase
	log *logger.Logger
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *inventory.ValuationUseCase, log *logger.Logger) *ValuationHandler {
	return &ValuationHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Valoración de un par producto/ubicación
// @Tags         valuations
// @Security     Bearer
// @Produce      json
// @Param        product_id   path   string  true   "Producto"
// @Param        location_id  path   string  true   "Ubicación"
// @Param        method       query  string  false  "fifo | lifo | weighted_average | specific"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/valuations/{product_id}/{location_id} [get]
func (h *ValuationHandler) Get(c *fiber.Ctx) error {
	v, err := h.uc.GetValuation(c.Context(), c.Params("product_id"), c.Params("location_id"), entity.ValuationMethod(c.Query("method")))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromValuation(v))
}

// Recompute godoc
// @Summary      Recalcular valoración de un par
// @Tags         valuations
// @Security     Bearer
// @Produce      json
// @Param        product_id   path   string  true   "Producto"
// @Param        location_id  path   string  true   "Ubicación"
// @Param        method       query  string  false  "Método"
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/valuations/{product_id}/{location_id}/recompute [post]
func (h *ValuationHandler) Recompute(c *fiber.Ctx) error {
	v, err := h.uc.Recompute(c.Context(), c.Params("product_id"), c.Params("location_id"), entity.ValuationMethod(c.Query("method")))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromValuation(v))
}

// RecomputeAll godoc
// @Summary      Recalcular todas las valoraciones
// @Tags         valuations
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecomputeResponse
// @Router       /api/valuations/recompute [post]
func (h *ValuationHandler) RecomputeAll(c *fiber.Ctx) error {
	r, err := h.uc.RecomputeAll(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.RecomputeResponse{Pairs: r.Pairs, Rows: r.Rows, Drifted: r.Drifted})
}
