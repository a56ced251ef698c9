package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/targetcar/user-system/internal/api/handler"
	"github.com/targetcar/user-system/internal/api/middleware"
	"github.com/targetcar/user-system/internal/core/service"
	"github.com/targetcar/user-system/internal/infrastructure/clients"
	mongodb "github.com/targetcar/user-system/internal/infrastructure/db/mongo"
	redisdb "github.com/targetcar/user-system/internal/infrastructure/db/redis"
	"github.com/targetcar/user-system/internal/infrastructure/http/handlers"
	"github.com/targetcar/user-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("useraccounts"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	addressRepo := mongodb.NewAddressRepository(db)
	phoneRepo := mongodb.NewPhoneRepository(db)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)
	userService := service.NewUserService(userRepo, addressRepo, phoneRepo, tokens, throttle, log)

	postalClient := clients.NewViaCepClient(cfg.ViaCep.BaseURL, cfg.ViaCep.Timeout)
	postalService := service.NewPostalCodeService(postalClient, log)

	userHandler := handler.NewUserHandler(userService)
	postalHandler := handler.NewPostalHandler(postalService)
	authRequired := middleware.Auth(cfg.JWTSecret)

	// --- Account routes ---
	u := e.Group("/usuario")
	u.POST("", userHandler.Register)
	u.POST("/login", userHandler.Login)
	u.GET("", userHandler.FindByEmail)
	u.DELETE("/:email", userHandler.DeleteByEmail)
	u.PUT("", userHandler.UpdateProfile, authRequired)
	u.POST("/endereco", userHandler.RegisterAddress, authRequired)
	u.POST("/telefone", userHandler.RegisterPhone, authRequired)
	u.PUT("/endereco", userHandler.UpdateAddress)
	u.PUT("/telefone", userHandler.UpdatePhone)
	u.GET("/endereco/:cep", postalHandler.Lookup)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
