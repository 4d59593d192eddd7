package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// MovementHandler movimientos, balances y lotes.
type MovementHandler struct {
	ledger *inventory.Ledger
	log    *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.Ledger, log *logger.Logger) *MovementHandler {
	return &MovementHandler{ledger: ledger, log: log}
}

// Record godoc
// @Summary      Registrar movimiento de inventario
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "from_location_id / to_location_id según el tipo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	mov, err := h.ledger.RecordMovement(c.Context(), in.ToInput(GetUserID(c)))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromMovement(mov))
}

// Get godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	mov, err := h.ledger.GetMovement(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromMovement(mov))
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        location_id     query  string  false  "Ubicación (origen o destino)"
// @Param        movement_type   query  string  false  "Tipo"
// @Param        from            query  string  false  "Desde (RFC3339)"
// @Param        to              query  string  false  "Hasta (RFC3339)"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	filter := entity.MovementFilter{
		ProductID:     c.Query("product_id"),
		LocationID:    c.Query("location_id"),
		Type:          entity.MovementType(c.Query("movement_type")),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Limit:         limit,
		Offset:        offset,
	}
	var ok bool
	if filter.From, ok = queryTime(c, "from"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	if filter.To, ok = queryTime(c, "to"); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	list, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.FromMovement(m))
	}
	return c.JSON(dto.ListResponse[dto.MovementResponse]{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Count: len(items)}})
}

// Balance godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         balances
// @Security     Bearer
// @Produce      json
// @Param        product_id   path  string  true  "Producto"
// @Param        location_id  path  string  true  "Ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/balances/{product_id}/{location_id} [get]
func (h *MovementHandler) Balance(c *fiber.Ctx) error {
	bal, err := h.ledger.GetBalance(c.Context(), c.Params("product_id"), c.Params("location_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.FromBalance(bal))
}

// Lots godoc
// @Summary      Listar lotes y piezas
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        kind         query  string  false  "standard | odd_size"
// @Param        status       query  string  false  "active | exhausted | expired | damaged"
// @Success      200  {object}  dto.ListResponse[dto.LotResponse]
// @Router       /api/lots [get]
func (h *MovementHandler) Lots(c *fiber.Ctx) error {
	limit, offset := page(c)
	filter := entity.LotFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Kind:       entity.LotKind(c.Query("kind")),
		Status:     entity.LotStatus(c.Query("status")),
		Limit:      limit,
		Offset:     offset,
	}
	list, err := h.ledger.ListLots(c.Context(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	pinned, err := h.ledger.PinnedLots(c.Context(), list)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.LotResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.FromLot(l, pinned[l.ID]))
	}
	return c.JSON(dto.ListResponse[dto.LotResponse]{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset, Count: len(items)}})
}

// ExpireLots godoc
// @Summary      Marcar lotes vencidos
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/lots/expire [post]
func (h *MovementHandler) ExpireLots(c *fiber.Ctx) error {
	n, err := h.ledger.ExpireLots(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"expired": n})
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
