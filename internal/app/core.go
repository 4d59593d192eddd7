package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/alerting"
	"github.com/jhoicas/inventario-ledger/internal/application/damage"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/transfer"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/observability"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Core casos de uso compartidos por la API y el worker.
type Core struct {
	Ledger    *inventory.Ledger
	Valuation *inventory.ValuationUseCase
	Transfers *transfer.UseCase
	Damages   *damage.UseCase
	Alerts    *alerting.UseCase
	Metrics   *observability.Metrics

	closers []func()
}

// Close libera pool y cliente Redis en orden inverso.
func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// LedgerConfig traduce la configuración de la app a la del ledger.
func LedgerConfig(cfg config.InventoryConfig) inventory.Config {
	out := inventory.DefaultConfig()
	if cfg.DepletionPolicy != "" {
		out.DepletionPolicy = cfg.DepletionPolicy
	}
	if len(cfg.ValuationMethods) > 0 {
		out.ValuationMethods = out.ValuationMethods[:0:0]
		for _, m := range cfg.ValuationMethods {
			out.ValuationMethods = append(out.ValuationMethods, entity.ValuationMethod(m))
		}
	}
	if cfg.DefaultValuation != "" {
		out.DefaultValuation = entity.ValuationMethod(cfg.DefaultValuation)
	}
	if cfg.ExpiryHorizonDays > 0 {
		out.ExpiryHorizon = time.Duration(cfg.ExpiryHorizonDays) * 24 * time.Hour
	}
	return out
}

func validateLedgerConfig(cfg inventory.Config) error {
	if cfg.DepletionPolicy != domaininv.PolicyFIFO && cfg.DepletionPolicy != domaininv.PolicyLIFO {
		return fmt.Errorf("INVENTORY_DEPLETION_POLICY inválida: %q", cfg.DepletionPolicy)
	}
	for _, m := range cfg.ValuationMethods {
		if !m.Valid() {
			return fmt.Errorf("INVENTORY_VALUATION_METHODS: método desconocido %q", m)
		}
	}
	if !cfg.DefaultValuation.Valid() {
		return fmt.Errorf("INVENTORY_DEFAULT_VALUATION: método desconocido %q", cfg.DefaultValuation)
	}
	return nil
}

// Build arma el ledger sobre el store configurado (postgres o memory) y los casos de uso encima.
// La caché Redis es opcional: si no responde se sigue sin ella.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Core, error) {
	ledgerCfg := LedgerConfig(cfg.Inventory)
	if err := validateLedgerConfig(ledgerCfg); err != nil {
		return nil, err
	}
	core := &Core{Metrics: observability.NewMetrics()}
	opts := []inventory.Option{inventory.WithMetrics(core.Metrics)}

	var (
		runner inventory.TxRunner
		reader repository.Set
	)
	switch cfg.App.StoreDriver {
	case "memory":
		store := memory.New()
		runner, reader = store, store.Repos()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		core.closers = append(core.closers, pool.Close)
		if cfg.DB.AutoMigrate {
			if err := postgres.ApplySchema(ctx, pool); err != nil {
				core.Close()
				return nil, err
			}
			log.Info().Msg("schema aplicado")
		}
		runner, reader = postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMs), postgres.NewRepositorySet(pool)
	}

	if cfg.Redis.Addr != "" && cfg.Redis.CacheTTL > 0 {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, valorizaciones sin caché")
		} else {
			core.closers = append(core.closers, func() { _ = client.Close() })
			opts = append(opts, inventory.WithCache(cache.NewValuationCache(client, time.Duration(cfg.Redis.CacheTTL)*time.Second)))
		}
	}

	core.Ledger = inventory.NewLedger(runner, reader, ledgerCfg, log.Component("ledger"), opts...)
	core.Valuation = inventory.NewValuationUseCase(core.Ledger)
	core.Transfers = transfer.NewUseCase(core.Ledger, log.Component("transfers"), core.Metrics)
	core.Damages = damage.NewUseCase(core.Ledger, log.Component("damages"), core.Metrics)
	core.Alerts = alerting.NewUseCase(core.Ledger, log.Component("alerts"), core.Metrics)
	return core, nil
}
