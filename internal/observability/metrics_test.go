package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Contadores(t *testing.T) {
	m := observability.NewMetrics()
	m.MovementRecorded(entity.MovementPurchase)
	m.MovementRecorded(entity.MovementPurchase)
	m.StockRejected(entity.MovementSale)
	m.TransferTransition("completed")
	m.DamageTransition("disposed")
	m.AlertsRaised(3)
	m.JobRun("inventory:alerts_scan", nil)
	m.JobRun("inventory:alerts_scan", errors.New("boom"))

	n, err := testutil.GatherAndCount(m.Gatherer(),
		"inventory_movements_total", "inventory_stock_rejections_total", "inventory_alerts_raised_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = testutil.GatherAndCount(m.Gatherer(), "inventory_job_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMetrics_HandlerExponeMetricas(t *testing.T) {
	m := observability.NewMetrics()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventory_http_requests_total{code="200",route="/ping"} 1`)
}
