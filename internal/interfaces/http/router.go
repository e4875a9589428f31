package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/smartsignal-api/internal/application/auth"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC   *auth.AuthUseCase
	AdminUC  *usecase.AdminUseCase
	Tokens   TokenVerifier
	Accounts repository.AccountRepository
	Metrics  *metrics.Metrics // opcional: sin él no se expone /metrics
	Logger   zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// RequestLogger se instala en main antes de /health y swagger para cubrir todas las rutas.
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Tokens, deps.Accounts, deps.Logger)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Logger)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Admin (Bearer Token + rol admin)
	admin := api.Group("/admin", requireAuth, RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC, deps.Logger)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:id", adminHandler.UpdateStatus)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/reports/users.pdf", adminHandler.RosterPDF)
}
