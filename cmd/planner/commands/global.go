package commands

import (
	"fmt"

	"github.com/benvon/focusplan/internal/config"
	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/scheduleapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagDebug  = "debug"
	flagAPIURL = "api-url"
)

// AddGlobalFlags registers flags shared by every command
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().Bool(flagDebug, false, "Enable debug logging")
	root.PersistentFlags().String(flagAPIURL, "", "Schedule service base URL (overrides SCHEDULE_API_URL)")
}

// loadConfig loads configuration and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if apiURL, _ := cmd.Flags().GetString(flagAPIURL); apiURL != "" {
		cfg.ScheduleAPIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if debug, _ := cmd.Flags().GetBool(flagDebug); debug {
		cfg.ServerDebugMode = true
	}
	return cfg, nil
}

// newCLIClient builds a schedule service client logging to stderr
func newCLIClient(cfg *config.Config) (*scheduleapi.Client, *zap.Logger, error) {
	log, err := logger.NewCLILogger(cfg.ServerDebugMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	client := scheduleapi.NewClient(cfg.ScheduleAPIURL, cfg.ScheduleAPITimeout, scheduleapi.WithLogger(log))
	return client, log, nil
}
