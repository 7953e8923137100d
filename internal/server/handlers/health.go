package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineStatus reports whether the forecast engine loaded.
type EngineStatus interface {
	Ready() bool
	EngineName() string
}

type HealthHandler struct {
	logger    *zap.Logger
	engine    EngineStatus
	service   string
	version   string
	startTime time.Time
}

func NewHealthHandler(logger *zap.Logger, engine EngineStatus, service, version string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		engine:    engine,
		service:   service,
		version:   version,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness fails while the engine is unavailable, so orchestrators keep
// traffic away from an instance that can only answer 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if !h.engine.Ready() {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
			Engine: h.engine.EngineName(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
		Engine: h.engine.EngineName(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	if !h.engine.Ready() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Engine:    h.engine.EngineName(),
	})
}

func (h *HealthHandler) Status(c *gin.Context) {
	status := "ok"
	if !h.engine.Ready() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:      status,
		Service:     h.service,
		Version:     h.version,
		Engine:      h.engine.EngineName(),
		EngineReady: h.engine.Ready(),
	})
}
