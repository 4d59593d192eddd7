package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// DamageHandler reportes de stock dañado.
type DamageHandler struct {
	uc  *damage.UseCase
	log *logger.Logger
}

// NewDamageHandler construye el handler.
func NewDamageHandler(uc *damage.UseCase, log *logger.Logger) *DamageHandler {
	return &DamageHandler{uc: uc, log: log}
}

// Report godoc
// @Summary      Reportar stock dañado
// @Tags         damages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReportDamageRequest  true  "Producto, ubicación, cantidad y tipo"
// @Success      201   {object}  dto.DamageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/damages [post]
func (h *DamageHandler) Report(c *fiber.Ctx) error {
	var in dto.ReportDamageRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	d, err := h.uc.Report(c.Context(), in.ToInput(GetUserID(c)))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDamage(d))
}

// Get godoc
// @Summary      Obtener reporte de daño
// @Tags         damages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.DamageResponse
// @Router       /api/damages/{id} [get]
func (h *DamageHandler) Get(c *fiber.Ctx) error {
	d, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromDamage(d))
}

// List godoc
// @Summary      Listar reportes de daño
// @Tags         damages
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ListResponse[dto.DamageResponse]
// @Router       /api/damages [get]
func (h *DamageHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	list, err := h.uc.List(c.Context(), entity.DamageFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Status:     entity.DamageStatus(c.Query("status")),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.DamageResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.FromDamage(d))
	}
	return c.JSON(dto.ListResponse[dto.DamageResponse]{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)}})
}

// Approve godoc
// @Summary      Aprobar reporte
// @Tags         damages
// @Security     Bearer
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.DamageResponse
// @Router       /api/damages/{id}/approve [post]
func (h *DamageHandler) Approve(c *fiber.Ctx) error {
	d, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromDamage(d))
}

// Reject godoc
// @Summary      Rechazar reporte
// @Tags         damages
// @Security     Bearer
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.DamageResponse
// @Router       /api/damages/{id}/reject [post]
func (h *DamageHandler) Reject(c *fiber.Ctx) error {
	d, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromDamage(d))
}

// Dispose godoc
// @Summary      Disponer stock dañado (descuenta inventario)
// @Tags         damages
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                     true  "ID del reporte"
// @Param        body  body  dto.DisposeDamageRequest  true  "Método y fecha"
// @Success      200   {object}  dto.DamageResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/damages/{id}/dispose [post]
func (h *DamageHandler) Dispose(c *fiber.Ctx) error {
	var in dto.DisposeDamageRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	d, err := h.uc.Dispose(c.Context(), c.Params("id"), damage.DisposeInput{
		Method: in.DisposalMethod,
		Date:   in.DisposalDate,
		Actor:  GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromDamage(d))
}
