package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/infrastructure/logger"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// HealthChecker reports whether the document store is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SystemHandler serves the liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	store     HealthChecker
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, store HealthChecker) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		store:     store,
		startTime: time.Now(),
	}
}

// HealthResponse represents the readiness probe response
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Store     string `json:"store" example:"up"`
	Name      string `json:"name" example:"rental-docs"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @ID           getHealth
// @Summary      Readiness probe
// @Description  Reports the service version and whether the document store is reachable
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Store:     "up",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.store != nil {
		if err := h.store.Health(c.Request.Context()); err != nil {
			logger.GetGinLogger(c).Warn("readiness check failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Store = "down"
			c.JSON(http.StatusServiceUnavailable, dto.Response{
				Success: false,
				Data:    resp,
				Error: &dto.ErrorInfo{
					Code:    dto.ErrCodeUnavailable,
					Message: "Document store is unavailable",
				},
			})
			return
		}
	}

	h.Success(c, resp)
}

// PingResponse represents the liveness probe response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingHealth
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /health/live [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// SystemRoutes creates the unversioned probe routes
func SystemRoutes(handler *SystemHandler) *router.DomainGroup {
	group := router.NewDomainGroup("system", "/health")
	group.GET("", handler.Health)
	group.GET("/live", handler.Ping)
	return group
}
