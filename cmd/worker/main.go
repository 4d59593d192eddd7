package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jhoicas/inventario-ledger/internal/app"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/jobs"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if cfg.App.StoreDriver == "memory" {
		log.Fatal().Msg("el worker requiere STORE_DRIVER=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar ledger")
	}
	defer core.Close()

	now := time.Now().UTC()
	alertsTask, err := jobs.NewAlertsScanTask("cron", now)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de alertas")
	}
	expireTask, err := jobs.NewExpireLotsTask("cron", now)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de vencimientos")
	}
	revalTask, err := jobs.NewRevaluationTask("cron", now)
	if err != nil {
		log.Fatal().Err(err).Msg("construir tarea de revalorización")
	}

	handlers := jobs.NewHandlers(core.Alerts, core.Ledger, core.Valuation, core.Metrics, log.Component("jobs"))
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Concurrency: cfg.Worker.Concurrency,
		Logger:      log,
		Handlers:    handlers.TaskHandlers(),
		Cron: []jobs.CronRegistration{
			{Spec: cfg.Worker.AlertScanCron, Task: alertsTask},
			{Spec: cfg.Worker.ExpirySweepCron, Task: expireTask},
			{Spec: cfg.Worker.RevaluationCron, Task: revalTask},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar worker")
	}

	// /metrics y /health del worker en el puerto HTTP configurado.
	probe := fiber.New(fiber.Config{DisableStartupMessage: true})
	probe.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	probe.Get("/metrics", core.Metrics.Handler())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		return probe.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		return probe.ShutdownWithTimeout(10 * time.Second)
	})

	log.Info().Str("addr", cfg.HTTP.Addr()).Int("concurrency", cfg.Worker.Concurrency).Msg("worker iniciado")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
		return
	}
	log.Info().Msg("worker detenido")
}
