package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/observability"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.Ledger
	Valuation *inventory.ValuationUseCase
	Transfers *transfer.UseCase
	Damages   *damage.UseCase
	Alerts    *alerting.UseCase
	Metrics   *observability.Metrics // opcional
	Log       *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleAuditor)
	operator := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	admin := RequireRole(jwt.RoleAdmin)

	mh := NewMovementHandler(deps.Ledger, deps.Log)
	api.Post("/movements", operator, mh.Record)
	api.Get("/movements", anyRole, mh.List)
	api.Get("/movements/:id", anyRole, mh.Get)
	api.Get("/balances/:product_id/:location_id", anyRole, mh.Balance)
	api.Get("/lots", anyRole, mh.Lots)
	api.Post("/lots/expire", admin, mh.ExpireLots)

	vh := NewValuationHandler(deps.Valuation, deps.Log)
	api.Post("/valuations/recompute", admin, vh.RecomputeAll)
	api.Get("/valuations/:product_id/:location_id", anyRole, vh.Get)
	api.Post("/valuations/:product_id/:location_id/recompute", admin, vh.Recompute)

	th := NewTransferHandler(deps.Transfers, deps.Log)
	transfers := api.Group("/transfers")
	transfers.Post("/", operator, th.Create)
	transfers.Get("/", anyRole, th.List)
	transfers.Get("/:id", anyRole, th.Get)
	transfers.Post("/:id/approve", admin, th.Approve)
	transfers.Post("/:id/dispatch", operator, th.Dispatch)
	transfers.Post("/:id/receive", operator, th.Receive)
	transfers.Post("/:id/cancel", operator, th.Cancel)

	dh := NewDamageHandler(deps.Damages, deps.Log)
	damages := api.Group("/damages")
	damages.Post("/", operator, dh.Report)
	damages.Get("/", anyRole, dh.List)
	damages.Get("/:id", anyRole, dh.Get)
	damages.Post("/:id/approve", admin, dh.Approve)
	damages.Post("/:id/reject", admin, dh.Reject)
	damages.Post("/:id/dispose", operator, dh.Dispose)

	ah := NewAlertHandler(deps.Alerts, deps.Log)
	alerts := api.Group("/alerts")
	alerts.Get("/", anyRole, ah.List)
	alerts.Post("/scan", admin, ah.Scan)
	alerts.Post("/:id/read", anyRole, ah.MarkRead)
	alerts.Post("/:id/resolve", operator, ah.Resolve)
	api.Get("/replenishment", anyRole, ah.Replenishment)
}
