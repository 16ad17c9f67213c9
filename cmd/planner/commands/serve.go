package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/focusplan/internal/handlers"
	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/server"
	"github.com/benvon/focusplan/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner API",
		Long:  "Run the HTTP API that holds planner sessions in memory and talks to the schedule service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.ServerPort = port
			}

			zapLogger, err := logger.NewProductionLogger(cfg.ServerDebugMode)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync(zapLogger)
			}()

			zapLogger.Info("starting_server",
				zap.String("version", Version),
				zap.Bool("debug_mode", cfg.ServerDebugMode),
				zap.String("server_port", cfg.ServerPort),
				zap.Strings("allowed_origins", cfg.AllowedOrigins()),
				zap.Bool("otel_enabled", cfg.OTELEnabled),
			)

			ctx := cmd.Context()
			tracing := false
			if cfg.OTELEnabled {
				if cfg.OTELEndpoint == "" {
					zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
				} else {
					tp, err := telemetry.InitTracer(ctx, telemetry.ServiceName, Version, cfg.OTELEndpoint)
					if err != nil {
						zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
					} else {
						tracing = true
						zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
						defer func() {
							shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
							defer cancel()
							if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
								zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
							}
						}()
					}
				}
			}

			srv, err := server.New(ctx, cfg, zapLogger,
				server.WithVersion(handlers.VersionInfo{Version: Version, Commit: Commit}),
				server.WithTracing(tracing),
			)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides SERVER_PORT)")
	return cmd
}
