package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/smartsignal-api/internal/application/auth"
	"github.com/jhoicas/smartsignal-api/internal/application/lifecycle"
	"github.com/jhoicas/smartsignal-api/internal/application/usecase"
	"github.com/jhoicas/smartsignal-api/internal/domain/repository"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/memory"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/smartsignal-api/internal/infrastructure/pdf"
	"github.com/jhoicas/smartsignal-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/smartsignal-api/internal/interfaces/http"
	"github.com/jhoicas/smartsignal-api/pkg/config"
	"github.com/jhoicas/smartsignal-api/pkg/jwt"
	"github.com/jhoicas/smartsignal-api/pkg/logger"
	"github.com/jhoicas/smartsignal-api/pkg/password"
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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var accountRepo repository.AccountRepository
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacén en memoria: las cuentas se pierden al reiniciar")
		accountRepo = memory.NewAccountRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.Store.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		accountRepo = postgres.NewAccountRepository(pool)
	}

	hasher, err := password.New(password.Algorithm(cfg.Password.Algorithm), cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hasher de contraseñas")
	}
	tokens, err := jwt.NewService(jwt.Config{
		Secret:     cfg.JWT.Secret,
		TTL:        cfg.JWT.TTL(),
		Issuer:     cfg.JWT.Issuer,
		KeyVersion: cfg.JWT.KeyVersion,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("servicio de tokens")
	}

	appMetrics := metrics.New()
	zl := log.Zerolog()

	engine := lifecycle.NewEngine(accountRepo, appMetrics, zl)
	authUC := auth.NewAuthUseCase(accountRepo, hasher, tokens, appMetrics, zl)

	// PDF: reporte de cuentas para administradores
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	adminUC := usecase.NewAdminUseCase(accountRepo, engine, pdfGenerator)

	// Admin por defecto, solo si no existe ninguno
	created, err := authUC.BootstrapAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador por defecto")
	}
	if !created {
		log.Debug().Msg("ya existe un administrador, se omite el alta por defecto")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))
	app.Use(httpRouter.RequestLogger(zl, appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "SmartSignal API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no disponible")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   cfg.App.Name,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		AdminUC:  adminUC,
		Tokens:   tokens,
		Accounts: accountRepo,
		Metrics:  appMetrics,
		Logger:   zl,
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
