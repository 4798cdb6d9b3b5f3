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

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/application/usecase"
	"github.com/Guztaver/licitacao-sub002/internal/infrastructure/postgres"
	httpRouter "github.com/Guztaver/licitacao-sub002/internal/interfaces/http"
	"github.com/Guztaver/licitacao-sub002/pkg/config"
	"github.com/Guztaver/licitacao-sub002/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockRepo := postgres.NewStockRecordRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	replRepo := postgres.NewReplenishmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	itemUC := usecase.NewItemUseCase(itemRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	stockUC := inventory.NewStockUseCase(stockRepo)
	movementUC := inventory.NewMovementUseCase(txRunner, stockRepo, movRepo)

	alertCfg := inventory.DefaultAlertConfig()
	alertCfg.ExpiryHorizonDays = cfg.Inventory.ExpiryHorizonDays
	alertCfg.StaleLotDays = cfg.Inventory.StaleLotDays
	alertCfg.AbnormalStdDevFactor = cfg.Inventory.AbnormalStdDevFactor
	alertUC := inventory.NewAlertUseCase(stockRepo, movRepo, alertRepo, replRepo, alertCfg, log)

	// A avaliação de alertas roda após cada movimentação confirmada, fora da
	// transação do motor.
	movementUC.SetObserver(alertUC)

	replenishmentUC := inventory.NewReplenishmentUseCase(stockRepo, replRepo, movementUC, log)
	checksUC := inventory.NewChecksUseCase(alertUC, replenishmentUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almoxarifado API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:          itemUC,
		LocationUC:      locationUC,
		StockUC:         stockUC,
		MovementUC:      movementUC,
		AlertUC:         alertUC,
		ReplenishmentUC: replenishmentUC,
		ChecksUC:        checksUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	// Varredura automática em cadência fixa (0 desliga).
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.Inventory.CheckIntervalMinutes > 0 {
		go runChecksLoop(sweepCtx, checksUC, time.Duration(cfg.Inventory.CheckIntervalMinutes)*time.Minute, log)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação parada")
}

// runChecksLoop executa a varredura na cadência dada até o contexto encerrar.
// A primeira execução acontece após um intervalo completo, não na subida, para
// não competir com a inicialização.
func runChecksLoop(ctx context.Context, checksUC *inventory.ChecksUseCase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := checksUC.Run(ctx); err != nil {
				log.Error().Err(err).Msg("varredura automática")
			}
		}
	}
}
