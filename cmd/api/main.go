package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"

	_ "github.com/jhoicas/estoque-api/docs"
	"github.com/jhoicas/estoque-api/internal/application/analytics"
	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// @title        Estoque API
// @version      1.0
// @description  Inventario de LojaPark y BarPlaypub: productos, stock por local, retiradas y alertas.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
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
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, cfg.DB.Migrate)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer repos.Close()

	locationUC := usecase.NewLocationUseCase(repos.Locations)
	userUC := usecase.NewUserUseCase(repos.Users, repos.Locations)
	if cfg.DB.Driver == "memory" {
		seedMemory(ctx, log, repos, userUC)
	}

	authUC := auth.NewAuthUseCase(repos.Users, auth.TokenConfig{
		Secret:     cfg.Session.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	stockUC := inventory.NewStockUseCase(repos.Tx, repos.Products, repos.Stock, repos.Locations)
	withdrawUC := inventory.NewWithdrawUseCase(repos.Tx)
	historyUC := usecase.NewWithdrawalHistoryUseCase(
		repos.Withdrawals,
		infrapdf.NewWithdrawalReportGenerator(cfg.App.Name, time.Local),
	)
	alertsUC := analytics.NewAlertsUseCase(repos.Products, repos.Stock, analytics.AlertsConfig{
		ExpiryDays:        cfg.Alerts.ThresholdDays,
		LowStockThreshold: cfg.Alerts.LowStockThreshold,
	})
	backupUC := usecase.NewBackupUseCase(repos.Stock)

	sessions := session.New(session.Config{
		Expiration:     cfg.Session.TTL,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Session.Secure,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Session.CookieKey()}))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:   sessions,
		AuthUC:     authUC,
		StockUC:    stockUC,
		WithdrawUC: withdrawUC,
		HistoryUC:  historyUC,
		AlertsUC:   alertsUC,
		UserUC:     userUC,
		LocationUC: locationUC,
		BackupUC:   backupUC,
		PublicDir:  cfg.App.PublicDir,
	})

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ruta no encontrada"})
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

// seedMemory crea los dos locales y los usuarios por defecto cuando no hay base de datos.
func seedMemory(ctx context.Context, log *logger.Logger, repos *storage.Repositories, userUC *usecase.UserUseCase) {
	loja, err := repos.Locations.Ensure(ctx, entity.LocationStore)
	if err != nil {
		log.Fatal().Err(err).Msg("seed LojaPark")
	}
	bar, err := repos.Locations.Ensure(ctx, entity.LocationBar)
	if err != nil {
		log.Fatal().Err(err).Msg("seed BarPlaypub")
	}
	users := []dto.CreateUserRequest{
		{Username: "admin", Password: "admin123", Role: entity.RoleAdmin, StockID: dto.FlexInt(loja.ID)},
		{Username: "funcionario", Password: "func123", Role: entity.RoleEmployee, StockID: dto.FlexInt(bar.ID)},
	}
	for _, u := range users {
		if _, err := userUC.EnsureUser(ctx, u); err != nil {
			log.Fatal().Err(err).Str("username", u.Username).Msg("seed usuario")
		}
	}
	log.Warn().Msg("usuarios de demostración creados: admin/admin123, funcionario/func123")
}
