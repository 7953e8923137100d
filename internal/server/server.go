package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/internal/forecast"
	"github.com/vzahanych/forecast-gateway/internal/server/handlers"
	"github.com/vzahanych/forecast-gateway/internal/server/middlewares"
	"github.com/vzahanych/forecast-gateway/internal/server/utils"
	"github.com/vzahanych/forecast-gateway/pkg/telemetry"
	"go.uber.org/zap"
)

const PredictPath = "/api/predict"

type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	server  *http.Server
	svc     *forecast.Service
	metrics *handlers.MetricsHandler
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewServer(cfg *config.Config, svc *forecast.Service, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	utils.SetupBinding()

	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	metrics := handlers.NewMetricsHandler(logger, httpMetrics)
	svc.Gateway().SetMetricsRecorder(metrics)

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		svc:     svc,
		metrics: metrics,
		logger:  logger,
		tele:    tele,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.logger, s.svc.Gateway(), s.cfg.Telemetry.ServiceName, s.cfg.Version)

	// Business endpoints
	predict := []gin.HandlerFunc{}
	if s.cfg.Server.RateLimit.Enabled {
		predict = append(predict, middlewares.NewRateLimiter(s.cfg.Server.RateLimit).Handler(s.logger))
	}
	predict = append(predict, handlers.NewForecastHandler(s.svc, s.logger).Predict)
	s.engine.POST(PredictPath, predict...)

	s.engine.GET("/", health.Status)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{
			Status: http.StatusNotFound,
			Error:  "route not found",
			Code:   "NOT_FOUND",
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server",
		zap.String("addr", s.server.Addr),
		zap.Bool("engine_ready", s.svc.Ready()))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
