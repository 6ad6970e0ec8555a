package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/dailypage/journal-api/docs"
	"github.com/dailypage/journal-api/internal/api/handler"
	"github.com/dailypage/journal-api/internal/api/middleware"
	"github.com/dailypage/journal-api/internal/core/domain"
	"github.com/dailypage/journal-api/internal/core/service"
	"github.com/dailypage/journal-api/internal/infrastructure/config"
	mongodb "github.com/dailypage/journal-api/internal/infrastructure/db/mongo"
	redisdb "github.com/dailypage/journal-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("journal"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	promptRepo := mongodb.NewPromptRepository(db)
	entryRepo := mongodb.NewEntryRepository(db)
	promptCache := redisdb.NewPromptCache(rdb)

	userService := service.NewUserService(userRepo, entryRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, log)
	promptService := service.NewPromptService(promptRepo, promptCache, log)
	entryService := service.NewEntryService(entryRepo, userService, promptService, log)

	authHandler := handler.NewAuthHandler(userService)
	promptHandler := handler.NewPromptHandler(promptService)
	entryHandler := handler.NewEntryHandler(entryService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	v1.GET("/me", authHandler.Me)
	v1.GET("/me/stats", authHandler.MyStats)

	v1.GET("/prompts/today", promptHandler.Today)
	v1.GET("/prompts/random", promptHandler.Random)
	v1.GET("/prompts/history", promptHandler.History)
	v1.POST("/prompts", promptHandler.Create, middleware.RBAC(domain.RoleAdmin))
	v1.POST("/prompts/:id/used", promptHandler.MarkUsed, middleware.RBAC(domain.RoleAdmin))

	v1.POST("/entries", entryHandler.Create)
	v1.GET("/entries", entryHandler.List)
	v1.GET("/entries/stats", entryHandler.Stats)
	v1.GET("/entries/:id", entryHandler.Get)
	v1.PUT("/entries/:id", entryHandler.Update)
	v1.DELETE("/entries/:id", entryHandler.Delete)

	return e
}
