package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jhoicas/estoque-api/internal/application/analytics"
	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions   *session.Store
	AuthUC     *auth.AuthUseCase
	StockUC    *inventory.StockUseCase
	WithdrawUC *inventory.WithdrawUseCase
	HistoryUC  *usecase.WithdrawalHistoryUseCase
	AlertsUC   *analytics.AlertsUseCase
	UserUC     *usecase.UserUseCase
	LocationUC *usecase.LocationUseCase
	BackupUC   *usecase.BackupUseCase
	PublicDir  string // vacío = no se sirven páginas
}

// Router registra las rutas de la aplicación.
// El rol se verifica por ruta: un Use por grupo alcanzaría también a las rutas de otros roles.
func Router(app *fiber.App, deps RouterDeps) {
	admin := RequireRole(entity.RoleAdmin)
	employee := RequireRole(entity.RoleEmployee)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleEmployee)

	// Sesión (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions, deps.LocationUC)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	api := app.Group("/api")
	api.Post("/token", authHandler.Token)

	// Rutas protegidas (sesión o Bearer Token)
	protected := api.Group("/", RequireAuth(deps.Sessions, deps.AuthUC))
	protected.Get("/me", authHandler.Me)

	locationHandler := NewLocationHandler(deps.LocationUC)
	protected.Get("/stocks", admin, locationHandler.List)

	productHandler := NewProductHandler(deps.StockUC)
	protected.Get("/products", anyRole, productHandler.List)
	protected.Post("/products", admin, productHandler.Create)
	protected.Put("/products/:id", admin, productHandler.Update)
	protected.Delete("/products/:id", admin, productHandler.Delete)
	protected.Post("/add-product-stock", admin, productHandler.AddStock)

	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawUC, deps.HistoryUC)
	protected.Post("/retiradas", anyRole, withdrawalHandler.Create)
	protected.Get("/retiradas", admin, withdrawalHandler.List)
	protected.Get("/retiradas/report.pdf", admin, withdrawalHandler.Report)
	protected.Get("/my-retiradas", employee, withdrawalHandler.ListOwn)

	alertHandler := NewAlertHandler(deps.AlertsUC)
	protected.Get("/alerts", admin, alertHandler.Get)

	userHandler := NewUserHandler(deps.UserUC)
	protected.Post("/usuarios", admin, userHandler.Create)
	protected.Post("/change-password", admin, userHandler.ChangePassword)

	backupHandler := NewBackupHandler(deps.BackupUC)
	protected.Get("/backup", admin, backupHandler.Export)

	if deps.PublicDir == "" {
		return
	}
	pages := NewPageHandler(deps.PublicDir, deps.LocationUC)
	app.Get("/admin", RequirePage(deps.Sessions, entity.RoleAdmin), pages.File("admin.html"))
	app.Get("/config", RequirePage(deps.Sessions, entity.RoleAdmin), pages.File("config.html"))
	app.Get("/employee", RequirePage(deps.Sessions, entity.RoleEmployee), pages.Employee)
	app.Static("/", deps.PublicDir)
}
