package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/thiagoschoeffel/TSAdmin-sub000/docs"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/domain/repository"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/lock"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/memory"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/postgres"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/xlsx"
	httpRouter "github.com/thiagoschoeffel/TSAdmin-sub000/internal/interfaces/http"
	"github.com/thiagoschoeffel/TSAdmin-sub000/pkg/config"
	"github.com/thiagoschoeffel/TSAdmin-sub000/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage puertos del libro según STORAGE_DRIVER.
type storage struct {
	txRunner     ledger.TxRunner
	movements    repository.MovementRepository
	reservations repository.ReservationRepository
	blockTypes   repository.BlockTypeRepository
	moldTypes    repository.MoldTypeRepository
	rawMaterials repository.RawMaterialRepository
	stats        repository.ProductionStatsRepository
	recorder     repository.ProductionRecorder // nil con postgres
	close        func()
}

// @title        Ledger API
// @version      1.0
// @description  Libro de movimientos de inventario: producción, reservas y reportes de stock.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	var locker ledger.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log.Component("lock"))
		log.Info().Str("address", cfg.Redis.Address).Msg("lock distribuido en Redis")
	}

	syncCfg := ledger.SyncConfig{
		DefaultLossFactor:    cfg.Ledger.DefaultLossFactor,
		DefaultBlockLengthMM: cfg.Ledger.DefaultBlockLengthMM,
		DefaultBlockWidthMM:  cfg.Ledger.DefaultBlockWidthMM,
	}
	productionSync := ledger.NewProductionSync(
		st.txRunner, locker, st.blockTypes, st.moldTypes, st.rawMaterials,
		syncCfg, log.Component("production_sync"),
	).WithRecorder(st.recorder)
	manualMovements := ledger.NewManualMovements(
		st.txRunner, locker, st.movements, st.blockTypes, st.moldTypes, st.rawMaterials,
		log.Component("manual_movements"),
	)
	balances := ledger.NewBalanceService(
		st.movements, st.reservations, st.stats, cfg.Ledger.SiloEpsilon,
		log.Component("balances"),
	)
	reservations := ledger.NewReservationService(
		st.txRunner, locker, st.reservations, st.rawMaterials,
		log.Component("reservations"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ledger API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ManualMovements: manualMovements,
		ProductionSync:  productionSync,
		Balances:        balances,
		Reservations:    reservations,
		Exporter:        xlsx.NewStockReportExporter(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		if cfg.Storage.SeedFile != "" {
			seed, err := memory.LoadSeed(cfg.Storage.SeedFile)
			if err != nil {
				return nil, err
			}
			if err := s.ApplySeed(seed); err != nil {
				return nil, err
			}
			log.Info().
				Str("file", cfg.Storage.SeedFile).
				Int("block_types", len(seed.BlockTypes)).
				Int("mold_types", len(seed.MoldTypes)).
				Int("raw_materials", len(seed.RawMaterials)).
				Msg("registros iniciales cargados")
		} else {
			log.Warn().Msg("sin STORAGE_SEED_FILE: los registros empiezan vacíos")
		}
		stats := memory.NewProductionStats()
		return &storage{
			txRunner:     s,
			movements:    s.Movements(),
			reservations: s.Reservations(),
			blockTypes:   s.BlockTypes(),
			moldTypes:    s.MoldTypes(),
			rawMaterials: s.RawMaterials(),
			stats:        stats,
			recorder:     stats,
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.EnsureSchema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema del libro verificado")
	}
	return &storage{
		txRunner:     postgres.NewTxRunner(pool),
		movements:    postgres.NewMovementRepository(pool),
		reservations: postgres.NewReservationRepository(pool),
		blockTypes:   postgres.NewBlockTypeRepository(pool),
		moldTypes:    postgres.NewMoldTypeRepository(pool),
		rawMaterials: postgres.NewRawMaterialRepository(pool),
		stats:        postgres.NewProductionStatsRepository(pool),
		close:        pool.Close,
	}, nil
}
