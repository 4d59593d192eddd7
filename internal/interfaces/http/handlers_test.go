package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/internal/observability"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	prodID = "prod-tile"
	locA   = "loc-a"
	locB   = "loc-b"
)

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.New()
	store.AddProduct(entity.Product{ID: prodID, SKU: "TILE-60", Name: "Porcelanato 60x60", DefaultCost: decimal.NewFromInt(9), ReorderLevel: decimal.NewFromInt(2)})
	store.AddLocation(entity.Location{ID: locA, Name: "Bodega A"})
	store.AddLocation(entity.Location{ID: locB, Name: "Sala B"})

	log := logger.Nop()
	metrics := observability.NewMetrics()
	ledger := inventory.NewLedger(store, store.Repos(), inventory.DefaultConfig(), log, inventory.WithMetrics(metrics))
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    ledger,
		Valuation: inventory.NewValuationUseCase(ledger),
		Transfers: transfer.NewUseCase(ledger, log, metrics),
		Damages:   damage.NewUseCase(ledger, log, metrics),
		Alerts:    alerting.NewUseCase(ledger, log, metrics),
		Metrics:   metrics,
		Log:       log,
		JWTSecret: testJWTSecret,
	})
	return &api{t: t, app: app}
}

func (a *api) do(method, path, role string, body any, out any) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(a.t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *api) purchase(qty int64, cost int64) dto.MovementResponse {
	a.t.Helper()
	var mov dto.MovementResponse
	status := a.do(http.MethodPost, "/api/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": prodID, "to_location_id": locA, "movement_type": "purchase", "quantity": qty, "unit_cost": cost,
	}, &mov)
	require.Equal(a.t, http.StatusCreated, status)
	return mov
}

func TestAPI_MovimientoYBalance(t *testing.T) {
	a := newAPI(t)
	mov := a.purchase(10, 12)
	assert.Equal(t, "purchase", mov.MovementType)
	assert.Equal(t, testUserID, mov.CreatedBy)
	require.Len(t, mov.Allocations, 1)

	var bal dto.BalanceResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/balances/"+prodID+"/"+locA, pkgjwt.RoleAuditor, nil, &bal))
	assert.True(t, decimal.NewFromInt(10).Equal(bal.CurrentStock))
	assert.True(t, decimal.NewFromInt(10).Equal(bal.AvailableStock))

	var val dto.ValuationResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/valuations/"+prodID+"/"+locA+"?method=fifo", pkgjwt.RoleAuditor, nil, &val))
	assert.True(t, decimal.NewFromInt(120).Equal(val.CurrentValue))

	var list dto.ListResponse[dto.MovementResponse]
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/movements?product_id="+prodID, pkgjwt.RoleAuditor, nil, &list))
	assert.Len(t, list.Items, 1)

	var lots dto.ListResponse[dto.LotResponse]
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/lots?location_id="+locA, pkgjwt.RoleAuditor, nil, &lots))
	require.Len(t, lots.Items, 1)
	assert.True(t, decimal.NewFromInt(12).Equal(lots.Items[0].UnitCost))
}

func TestAPI_StockInsuficienteDevuelveDetalle(t *testing.T) {
	a := newAPI(t)
	a.purchase(3, 10)

	var errResp dto.ErrorResponse
	status := a.do(http.MethodPost, "/api/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": prodID, "from_location_id": locA, "movement_type": "sale", "quantity": 5,
	}, &errResp)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)
	assert.Equal(t, "2", errResp.Details["shortfall"])
	assert.Equal(t, "3", errResp.Details["available"])
}

func TestAPI_ErroresDeEntrada(t *testing.T) {
	a := newAPI(t)

	var errResp dto.ErrorResponse
	status := a.do(http.MethodPost, "/api/movements", pkgjwt.RoleBodeguero, map[string]any{"movement_type": "purchase"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)

	status = a.do(http.MethodPost, "/api/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": prodID, "from_location_id": locA, "movement_type": "purchase", "quantity": 1,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errResp.Code)

	status = a.do(http.MethodPost, "/api/movements", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": "nope", "to_location_id": locA, "movement_type": "purchase", "quantity": 1,
	}, &errResp)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/movements", pkgjwt.RoleAuditor, map[string]any{}, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/movements", "", nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/movements/nope", pkgjwt.RoleAuditor, nil, nil))
}

func TestAPI_CicloDeTraslado(t *testing.T) {
	a := newAPI(t)
	a.purchase(10, 11)

	var tr dto.TransferResponse
	status := a.do(http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero, map[string]any{
		"from_location_id": locA, "to_location_id": locB,
		"items": []map[string]any{{"product_id": prodID, "quantity": 4}},
	}, &tr)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", tr.Status)
	id := tr.ID

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/transfers/"+id+"/approve", pkgjwt.RoleBodeguero, nil, nil))
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/transfers/"+id+"/approve", pkgjwt.RoleAdmin, nil, &tr))

	var bal dto.BalanceResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/balances/"+prodID+"/"+locA, pkgjwt.RoleAuditor, nil, &bal))
	assert.True(t, decimal.NewFromInt(4).Equal(bal.ReservedStock))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/transfers/"+id+"/dispatch", pkgjwt.RoleBodeguero, nil, &tr))
	assert.Equal(t, "in_transit", tr.Status)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/transfers/"+id+"/receive", pkgjwt.RoleBodeguero, nil, &tr))
	assert.Equal(t, "completed", tr.Status)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/transfers/"+id+"/cancel", pkgjwt.RoleBodeguero, nil, &errResp))
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/balances/"+prodID+"/"+locB, pkgjwt.RoleAuditor, nil, &bal))
	assert.True(t, decimal.NewFromInt(4).Equal(bal.CurrentStock))

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero, map[string]any{
		"from_location_id": locA, "to_location_id": locA, "items": []map[string]any{{"product_id": prodID, "quantity": 1}},
	}, nil))
}

func TestAPI_DanoYAlertas(t *testing.T) {
	a := newAPI(t)
	a.purchase(5, 10)

	var d dto.DamageResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/damages", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": prodID, "location_id": locA, "damage_type": "breakage", "quantity": 4, "reason": "caída",
	}, &d))
	assert.Equal(t, "reported", d.Status)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/damages", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": prodID, "location_id": locA, "damage_type": "meteor", "quantity": 1,
	}, nil))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/damages/"+d.ID+"/approve", pkgjwt.RoleAdmin, nil, &d))
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/damages/"+d.ID+"/dispose", pkgjwt.RoleBodeguero, map[string]any{
		"disposal_method": "scrap",
	}, &d))
	assert.Equal(t, "disposed", d.Status)
	assert.True(t, decimal.NewFromInt(40).Equal(d.TotalLoss))

	var alerts dto.ListResponse[dto.AlertResponse]
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/alerts?open=true", pkgjwt.RoleAuditor, nil, &alerts))
	require.Len(t, alerts.Items, 1)
	assert.Equal(t, "low_stock", alerts.Items[0].AlertType)

	var alert dto.AlertResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/alerts/"+alerts.Items[0].ID+"/resolve", pkgjwt.RoleBodeguero, nil, &alert))
	assert.True(t, alert.IsResolved)

	var scan dto.ScanResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/alerts/scan", pkgjwt.RoleAdmin, nil, &scan))
	assert.Equal(t, 1, scan.Raised)
}

func TestAPI_HealthYMetrics(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil, nil))
	a.purchase(1, 1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `inventory_movements_total{type="purchase"} 1`)
}
