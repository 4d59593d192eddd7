package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// AlertHandler alertas de stock.
type AlertHandler struct {
	uc  *alerting.UseCase
	log *logger.Logger
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerting.UseCase, log *logger.Logger) *AlertHandler {
	return &AlertHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        alert_type  query  string  false  "low_stock | out_of_stock | overstock | expiry_warning"
// @Param        open        query  bool    false  "Solo abiertas"
// @Param        unread      query  bool    false  "Solo no leídas"
// @Success      200  {object}  dto.ListResponse[dto.AlertResponse]
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	list, err := h.uc.List(c.Context(), entity.AlertFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		AlertType:  entity.AlertType(c.Query("alert_type")),
		OnlyOpen:   c.QueryBool("open", false),
		OnlyUnread: c.QueryBool("unread", false),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, dto.FromAlert(a))
	}
	return c.JSON(dto.ListResponse[dto.AlertResponse]{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)}})
}

// MarkRead godoc
// @Summary      Marcar alerta como leída
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Router       /api/alerts/{id}/read [post]
func (h *AlertHandler) MarkRead(c *fiber.Ctx) error {
	a, err := h.uc.MarkRead(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromAlert(a))
}

// Resolve godoc
// @Summary      Resolver alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	a, err := h.uc.Resolve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromAlert(a))
}

// Scan godoc
// @Summary      Barrido manual de alertas
// @Tags         alerts
// @Security     Bearer
// @Success      200  {object}  dto.ScanResponse
// @Router       /api/alerts/scan [post]
func (h *AlertHandler) Scan(c *fiber.Ctx) error {
	r, err := h.uc.Scan(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ScanResponse{Pairs: r.Pairs, Raised: r.Raised})
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Pares con disponible en o bajo el punto de reorden, con cantidad sugerida y costo estimado.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Success      200  {array}  dto.ReplenishmentSuggestionResponse
// @Router       /api/replenishment [get]
func (h *AlertHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.uc.Replenishment(c.Context(), c.Query("location_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.ReplenishmentSuggestionResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ReplenishmentSuggestionResponse{
			Priority:      s.Priority,
			ProductID:     s.ProductID,
			SKU:           s.SKU,
			ProductName:   s.ProductName,
			LocationID:    s.LocationID,
			Available:     s.Available,
			ReorderLevel:  s.ReorderLevel,
			IdealStock:    s.IdealStock,
			SuggestedQty:  s.SuggestedQty,
			UnitCost:      s.UnitCost,
			EstimatedCost: s.EstimatedCost,
		})
	}
	return c.JSON(items)
}
