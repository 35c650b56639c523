package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"comanda/internal/caching"
	"comanda/internal/repositories"
	"comanda/internal/services"
)

// HealthHandlers reports connectivity of the backing services.
type HealthHandlers struct {
	db          repositories.Database
	cacheSvc    caching.CacheService
	minioSvc    services.MinioService
	imageBucket string
}

func NewHealthHandlers(db repositories.Database, cacheSvc caching.CacheService, minioSvc services.MinioService, imageBucket string) *HealthHandlers {
	return &HealthHandlers{
		db:          db,
		cacheSvc:    cacheSvc,
		minioSvc:    minioSvc,
		imageBucket: imageBucket,
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthCheck handles GET /health.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["database"] = "healthy"
	}

	if err := h.cacheSvc.Ping(ctx); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	if _, err := h.minioSvc.BucketExists(ctx, h.imageBucket); err != nil {
		health.Services["storage"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["storage"] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck handles GET /health/ready. Only the database is critical;
// the cache and the image store degrade gracefully.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if _, err := h.db.Exec(c.Request().Context(), "SELECT 1"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}
