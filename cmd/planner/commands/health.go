package commands

import (
	"encoding/json"
	"fmt"

	"github.com/benvon/focusplan/internal/logger"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewHealthCmd creates the health command
func NewHealthCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the schedule service is reachable",
		Long:  "Call GET /health on the schedule service and print its response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "yaml" {
				return fmt.Errorf("invalid output format %q (must be 'json' or 'yaml')", output)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, log, err := newCLIClient(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync(log)
			}()

			payload, err := client.CheckHealth(cmd.Context())
			if err != nil {
				return fmt.Errorf("schedule service at %s is unhealthy: %w", client.BaseURL(), err)
			}

			out := cmd.OutOrStdout()
			if output == "yaml" {
				enc := yaml.NewEncoder(out)
				defer func() {
					_ = enc.Close()
				}()
				return enc.Encode(payload)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format: json or yaml")
	return cmd
}
