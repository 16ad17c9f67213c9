package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X github.com/benvon/focusplan/cmd/planner/commands.Version=..."
var (
	Version = "dev"
	Commit  = ""
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the planner version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if Commit != "" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "planner %s (%s)\n", Version, Commit)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "planner %s\n", Version)
			return err
		},
	}
}
