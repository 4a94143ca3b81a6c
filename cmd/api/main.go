package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	appanalytics "github.com/jhoicas/Tesoreria-api/internal/application/analytics"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/ledger"
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/jhoicas/Tesoreria-api/internal/domain/repository"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/feed"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tesoreria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Tesoreria-api/internal/interfaces/http"
	"github.com/jhoicas/Tesoreria-api/pkg/config"
	"github.com/jhoicas/Tesoreria-api/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	health := map[string]httpRouter.Pinger{}

	var (
		txRunner ledger.TxRunner
		reads    repository.Repositories
	)
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		store := memory.NewStore()
		txRunner = memory.NewTxRunner(store)
		reads = store.Repositories()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		txRunner = postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout)
		reads = postgres.Repositories(pool)
		health["postgres"] = pingPool(pool)
	}

	ledgerCfg := ledger.Config{AllowOverdraft: cfg.Ledger.AllowOverdraft, Scale: cfg.Ledger.CurrencyScale}
	coord := coordinator.New(txRunner, reads, coordinator.Config{
		Ledger:        ledgerCfg,
		Scale:         cfg.Ledger.CurrencyScale,
		MaxRetries:    cfg.Ledger.MaxRetries,
		RetryBase:     cfg.Ledger.RetryBase,
		CommitTimeout: cfg.Ledger.CommitTimeout,
	}, log)

	if err := coord.Bootstrap(ctx, bankSeeds(cfg.BankSeeds)); err != nil {
		log.Fatal().Err(err).Msg("bootstrap de bancos")
	}

	if cfg.Feed.Enabled() {
		rdb, err := feed.NewRedis(ctx, cfg.Feed.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		queue := feed.NewRedisQueue(rdb, cfg.Feed.Queue)
		relay := feed.NewRelay(reads.Movements, queue, queue, feed.Config{
			Interval:  cfg.Feed.Interval,
			BatchSize: cfg.Feed.BatchSize,
		}, log)
		go relay.Run(ctx)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	dashboardUC := appanalytics.NewDashboardUseCase(reads.Banks, reads.Movements, ledgerCfg.Clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tesorería API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator: coord,
		DashboardUC: dashboardUC,
		Health:      health,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// bankSeeds convierte BANK_SEED_<ID> al tipo del dominio. Config ya filtró ids desconocidos.
func bankSeeds(raw map[string]decimal.Decimal) map[entity.BankID]decimal.Decimal {
	out := make(map[entity.BankID]decimal.Decimal, len(raw))
	for id, capital := range raw {
		if bank, ok := entity.ParseBankID(id); ok {
			out[bank] = capital
		}
	}
	return out
}

func pingPool(pool *pgxpool.Pool) httpRouter.Pinger {
	return func(ctx context.Context) error { return pool.Ping(ctx) }
}
