package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-claude-timeline/internal/application/watch"
	"github.com/penwyp/go-claude-timeline/internal/config"
	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/core/session"
	"github.com/penwyp/go-claude-timeline/internal/data/metrics"
	"github.com/penwyp/go-claude-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

// options holds the root command flags.
type options struct {
	configFile string
	debug      bool

	days     int
	project  string
	threads  bool
	dataDir  string
	output   string
	width    int
	timezone string

	watch     bool
	interval  time.Duration
	metricsDB string
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "go-claude-timeline [flags]",
		Short: "Claude Code session timeline",
		Long: `go-claude-timeline reconstructs Claude Code sessions from the JSONL logs under
~/.claude/projects and draws one density timeline per session.

Examples:
  go-claude-timeline                          # Sessions of the last day
  go-claude-timeline --days 7                 # Last week, one tick per day
  go-claude-timeline --project api            # Only projects whose name contains "api"
  go-claude-timeline --output json            # Machine readable output
  go-claude-timeline --watch --interval 30s   # Live view, redrawn every 30 seconds`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTimeline(cmd, opts)
		},
	}

	// Configuration and debugging
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"Config file path (default ~/.config/go-claude-timeline/config.toml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false,
		"Enable debug logging to stderr")

	// Query
	cmd.Flags().IntVarP(&opts.days, "days", "d", constants.DefaultDays,
		"Number of days to look back")
	cmd.Flags().StringVarP(&opts.project, "project", "p", "",
		"Only show projects whose name contains this text")
	cmd.Flags().BoolVar(&opts.threads, "threads", false,
		"Group related conversations into threads")
	cmd.Flags().StringVar(&opts.dataDir, "dir", "",
		"Claude projects directory (default ~/.claude/projects)")

	// Output
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table",
		"Output format (table, json, csv)")
	cmd.Flags().IntVar(&opts.width, "width", 0,
		"Timeline width in characters (0 = fit the terminal)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "Local",
		"Timezone setting (e.g., Asia/Shanghai, UTC)")

	// Live mode
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false,
		"Keep the timeline on screen and refresh it")
	cmd.Flags().DurationVar(&opts.interval, "interval", constants.DefaultRefreshInterval,
		"Refresh interval in watch mode")
	cmd.Flags().StringVar(&opts.metricsDB, "metrics-db", "",
		"Process metrics database (default ~/.go-claude-timeline/data.db)")

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// loadConfig reads the config file and applies every flag set on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(expandPath(opts.configFile))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.General.Days = opts.days
	}
	if flags.Changed("dir") {
		cfg.General.ClaudeDir = expandPath(opts.dataDir)
	}
	if flags.Changed("timezone") {
		cfg.General.Timezone = opts.timezone
	}
	if flags.Changed("output") {
		cfg.Display.Output = opts.output
	}
	if flags.Changed("width") {
		cfg.Display.Width = opts.width
	}
	if flags.Changed("interval") {
		cfg.Watch.RefreshInterval = opts.interval.String()
	}
	if flags.Changed("metrics-db") {
		cfg.Metrics.DBPath = expandPath(opts.metricsDB)
	}

	return cfg, cfg.Validate()
}

func initLogging(debug bool) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	return util.InitLogger(util.LoggerConfig{
		Level:   logLevel,
		File:    filepath.Join(dir, "logs", "app.log"),
		Console: debug,
	})
}

func runTimeline(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if err := initLogging(opts.debug); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer util.CloseLogger()

	if err := util.InitializeTimeProvider(cfg.General.Timezone); err != nil {
		return err
	}
	tp := util.GetTimeProvider()

	dataDir, err := cfg.ClaudeProjectsDir()
	if err != nil {
		return err
	}
	interval, err := cfg.RefreshInterval()
	if err != nil {
		return err
	}
	metricsPath, err := cfg.MetricsDBPath()
	if err != nil {
		return err
	}

	policy := cfg.ActivityPolicy()
	loader := session.NewLoader(session.LoaderConfig{
		DataDir:     dataDir,
		Concurrency: runtime.NumCPU(),
		Location:    tp.Location(),
		Policy:      &policy,
	})

	out := cmd.OutOrStdout()
	f, err := formatter.New(cfg.Display.Output, out)
	if err != nil {
		return err
	}

	width := func() int {
		if cfg.Display.Width > 0 {
			return cfg.Display.Width
		}
		return formatter.TimelineWidth(watch.TerminalColumns(formatter.FixedColumns + constants.DefaultTimelineWidth))
	}
	processStats := func(ctx context.Context, start, end time.Time) *metrics.ProcessStats {
		return loadProcessStats(ctx, metricsPath, start, end)
	}

	util.LogInfof("Timeline started: dir=%s days=%d project=%q output=%s",
		dataDir, cfg.General.Days, opts.project, cfg.Display.Output)

	if opts.watch {
		ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		controller := watch.NewController(watch.Config{
			Days:     cfg.General.Days,
			Project:  opts.project,
			Threads:  opts.threads,
			Interval: interval,
			Location: tp.Location(),
			Clock:    tp,
			Width:    width,
			Metrics:  processStats,
		}, loader, f)
		return controller.RunTerminal(ctx, dataDir, out)
	}

	now := tp.Now()
	q := model.Query{
		Start:   now.AddDate(0, 0, -cfg.General.Days),
		End:     now,
		Project: opts.project,
		Threads: opts.threads,
	}
	timelines, _ := loader.Load(q)

	report := formatter.NewReport(q.Start, q.End, width(), tp.Location(), timelines)
	report.Metrics = processStats(contextOf(cmd), q.Start, q.End)
	return f.Format(out, report)
}

// loadProcessStats reads process statistics for a range. A missing or
// unreadable database yields nil so the timeline still renders.
func loadProcessStats(ctx context.Context, path string, start, end time.Time) *metrics.ProcessStats {
	if !metrics.Exists(path) {
		return nil
	}
	store, err := metrics.Open(path)
	if err != nil {
		util.LogWarnf("Failed to open metrics database %s: %v", path, err)
		return nil
	}
	defer store.Close()

	stats, err := store.Stats(ctx, start, end)
	if err != nil {
		util.LogWarnf("Failed to read process metrics: %v", err)
		return nil
	}
	if stats.ProcessCount == 0 {
		return nil
	}
	return &stats
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func writeLines(w io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
