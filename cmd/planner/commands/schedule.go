package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/benvon/focusplan/internal/logger"
	"github.com/benvon/focusplan/internal/models"
	"github.com/benvon/focusplan/internal/planner"
	"github.com/benvon/focusplan/internal/render"
	"github.com/benvon/focusplan/internal/validation"
	"github.com/spf13/cobra"
)

type scheduleOptions struct {
	tasks      []string
	energy     int
	mood       string
	jsonOutput bool
}

// NewScheduleCmd creates the schedule command
func NewScheduleCmd() *cobra.Command {
	opts := &scheduleOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate a schedule for today's tasks",
		Long: `Send tasks, energy and mood to the schedule service and print the
time-blocked schedule it returns.

Example:
  planner schedule --task "Write report" --task "Exercise" --energy 7 --mood happy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.tasks, "task", "t", nil, "Task to schedule (repeatable)")
	cmd.Flags().IntVarP(&opts.energy, "energy", "e", int(models.DefaultEnergy), "Energy level from 1 to 10")
	cmd.Flags().StringVarP(&opts.mood, "mood", "m", string(models.DefaultMood), "Mood: Tired, Neutral, Happy or Stressed")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the planner view as JSON")

	return cmd
}

func runSchedule(cmd *cobra.Command, opts *scheduleOptions) error {
	if err := validation.ValidateEnergy(opts.energy); err != nil {
		return err
	}
	mood, err := models.ParseMood(opts.mood)
	if err != nil {
		return err
	}
	for _, task := range opts.tasks {
		if err := validation.ValidateTaskText(strings.TrimSpace(task), models.MaxTaskTextLength); err != nil {
			return fmt.Errorf("invalid --task %q: %w", task, err)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	policy, err := planner.ParseInvalidationPolicy(cfg.InvalidationPolicy)
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

	session := planner.NewSession(policy)
	for _, task := range opts.tasks {
		if _, err := session.Dispatch(planner.AddTask{Text: task}); err != nil {
			return err
		}
	}
	if _, err := session.Dispatch(planner.SetEnergy{Value: opts.energy}); err != nil {
		return err
	}
	if _, err := session.Dispatch(planner.SetMood{Mood: mood}); err != nil {
		return err
	}

	orchestrator := planner.NewOrchestrator(client, log)
	state, genErr := orchestrator.Generate(cmd.Context(), session)
	if errors.Is(genErr, planner.ErrEmptyTaskList) {
		return fmt.Errorf("%w (use --task)", genErr)
	}

	if err := printView(cmd.OutOrStdout(), planner.NewView(state), opts.jsonOutput); err != nil {
		return err
	}
	if genErr != nil {
		if state.Request.Status == models.RequestStatusFailed {
			return errors.New(state.Request.Message)
		}
		return genErr
	}
	return nil
}

func printView(out io.Writer, view planner.View, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	render.New(out).View(view)
	return nil
}
