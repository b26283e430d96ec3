package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-timeline/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts)
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, opts, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}

func configPath(opts *options) (string, error) {
	if opts.configFile != "" {
		return expandPath(opts.configFile), nil
	}
	return config.Path()
}

func runConfigShow(cmd *cobra.Command, opts *options) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	status := "using defaults (no config file)"
	if fileExists(path) {
		status = "loaded"
	}
	writeLines(out,
		fmt.Sprintf("  Config file: %s", path),
		fmt.Sprintf("  Status: %s", status),
		"",
		"  [General]",
	)

	claudeDir, err := cfg.ClaudeProjectsDir()
	if err != nil {
		claudeDir = "unavailable"
	}
	writeLines(out,
		fmt.Sprintf("    Claude directory:  %s", claudeDir),
		fmt.Sprintf("    Default days:      %d", cfg.General.Days),
		fmt.Sprintf("    Timezone:          %s", cfg.General.Timezone),
		"",
		"  [Display]",
	)

	width := "fit terminal"
	if cfg.Display.Width > 0 {
		width = fmt.Sprintf("%d", cfg.Display.Width)
	}
	writeLines(out,
		fmt.Sprintf("    Output:            %s", cfg.Display.Output),
		fmt.Sprintf("    Timeline width:    %s", width),
		"",
		"  [Watch]",
		fmt.Sprintf("    Refresh interval:  %s", cfg.Watch.RefreshInterval),
		"",
		"  [Activity]",
		fmt.Sprintf("    Minimum minutes:   %d", cfg.Activity.MinimumMinutes),
		fmt.Sprintf("    Idle threshold:    %dm", cfg.Activity.IdleThresholdMinutes),
	)

	if dbPath, err := cfg.MetricsDBPath(); err == nil {
		writeLines(out, "", "  [Metrics]", fmt.Sprintf("    Database:          %s", dbPath))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, opts *options, force bool) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if fileExists(path) && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
		return err
	}
	writeLines(cmd.OutOrStdout(), fmt.Sprintf("  Wrote %s", path))
	return nil
}
