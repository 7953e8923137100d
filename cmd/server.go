package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/forecast-gateway/internal/config"
	"github.com/vzahanych/forecast-gateway/internal/engine"
	"github.com/vzahanych/forecast-gateway/internal/forecast"
	"github.com/vzahanych/forecast-gateway/internal/server"
	"go.uber.org/zap"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the forecast gateway",
	Long:  `Start the HTTP server exposing POST /api/predict plus health and metrics endpoints.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	defer func() { _ = log.Sync() }()

	log.Info("Starting forecast gateway",
		zap.String("version", cfg.Version),
		zap.String("environment", cfg.Environment),
		zap.String("config_path", configPath),
		zap.String("engine_type", cfg.Engine.Type),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	// A failed engine load leaves the gateway up but not ready; /api/predict
	// answers 503 until a restart with a working engine.
	eng, err := engine.New(cfg.Engine, log.Logger, tele)
	if err != nil {
		log.Error("Failed to load forecast engine", zap.String("engine_type", cfg.Engine.Type), zap.Error(err))
		eng = nil
	}

	gateway := forecast.NewGateway(eng, cfg.Forecast.EngineDebug, log.Logger, tele)
	svc := forecast.NewService(cfg.Forecast, gateway, time.Now)
	srv := server.NewServer(cfg, svc, log.Logger, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		if err := tele.Shutdown(ctx); err != nil {
			log.Warn("Error during telemetry shutdown", zap.Error(err))
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
