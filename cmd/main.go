package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"comanda/internal/caching"
	"comanda/internal/config"
	"comanda/internal/handlers"
	"comanda/internal/jobs/background"
	"comanda/internal/middleware"
	"comanda/internal/repositories"
	"comanda/internal/services"
	"comanda/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to the store first and fail fast; nothing below works without it.
	pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	minioSvc, err := services.NewMinioService(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), cfg.ImageBucket); err != nil {
		log.Printf("WARNING: could not ensure image bucket %q: %v", cfg.ImageBucket, err)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	menuRepo := repositories.NewMenuRepo(pool)
	tableRepo := repositories.NewTableRepo(pool)
	eventRepo := repositories.NewEventLogRepo(pool)

	// Services
	menuSvc := services.NewMenuService(menuRepo, cacheSvc, minioSvc, cfg.ImageBucket)
	eventSvc := services.NewEventLogService(eventRepo)
	tableSvc := services.NewTableService(tableRepo, menuRepo, eventSvc)

	// Handlers
	menuHandlers := handlers.NewMenuHandlers(menuSvc)
	tableHandlers := handlers.NewTableHandlers(tableSvc, eventSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc, cfg.ImageBucket)

	scheduler, err := background.NewJobScheduler(menuSvc, eventRepo)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestID())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	api := e.Group("/api")

	api.GET("/carta", menuHandlers.GetCarta)
	api.GET("/carta/:category", menuHandlers.GetCartaByCategory)
	api.GET("/imagenes/:productId", menuHandlers.GetProductImage)

	api.GET("/mesas", tableHandlers.GetMesas)
	api.GET("/mesas/:id", tableHandlers.GetMesa)
	api.GET("/mesas/:id/pedido", tableHandlers.GetPedido)
	api.POST("/mesas/:id/pedido", tableHandlers.AddProducto)
	api.PUT("/mesas/:id/ocupar", tableHandlers.Ocupar)
	api.PUT("/mesas/:id/liberar", tableHandlers.Liberar)
	api.PUT("/mesas/:id/pedido/:productId", tableHandlers.UpdateCantidad)
	api.PUT("/mesas/:id/servir", tableHandlers.Servir)
	api.DELETE("/mesas/:id/pedido/:productId", tableHandlers.DeleteProducto)
	api.DELETE("/mesas/:id/pedido", tableHandlers.Pagar)
	api.GET("/mesas/:id/eventos", tableHandlers.GetEventos)

	log.Printf("comanda server starting on port %d", cfg.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
