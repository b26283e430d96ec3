// Package config loads the TOML configuration of go-claude-timeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/session"
)

const appName = "go-claude-timeline"

// ErrHomeDirUnavailable is returned when no home directory can be resolved.
var ErrHomeDirUnavailable = errors.New("home directory unavailable")

// OutputFormats lists the accepted display.output values.
var OutputFormats = []string{"table", "json", "csv"}

// Config holds all go-claude-timeline configuration.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Display  DisplayConfig  `toml:"display"`
	Watch    WatchConfig    `toml:"watch"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Activity ActivityConfig `toml:"activity"`
}

// GeneralConfig holds query defaults.
type GeneralConfig struct {
	ClaudeDir string `toml:"claude_dir,omitempty"`
	Days      int    `toml:"days"`
	Timezone  string `toml:"timezone"`
}

// DisplayConfig holds rendering preferences. A zero width follows the terminal.
type DisplayConfig struct {
	Width  int    `toml:"width"`
	Output string `toml:"output"`
}

// WatchConfig holds live mode settings.
type WatchConfig struct {
	RefreshInterval string `toml:"refresh_interval"`
}

// MetricsConfig points at the process metrics database.
type MetricsConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// ActivityConfig tunes the active-duration heuristic.
type ActivityConfig struct {
	MinimumMinutes       uint32 `toml:"minimum_minutes"`
	IdleThresholdMinutes int64  `toml:"idle_threshold_minutes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Days:     constants.DefaultDays,
			Timezone: "Local",
		},
		Display: DisplayConfig{
			Output: "table",
		},
		Watch: WatchConfig{
			RefreshInterval: constants.DefaultRefreshInterval.String(),
		},
		Activity: ActivityConfig{
			MinimumMinutes:       constants.MinimumActiveMinutes,
			IdleThresholdMinutes: constants.IdleGapThresholdMinutes,
		},
	}
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrHomeDirUnavailable, err)
	}
	return home, nil
}

// Dir returns the XDG-compliant config directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory for logs and the metrics database.
func DataDir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+appName), nil
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Validate rejects values no command could run with.
func (c Config) Validate() error {
	if c.General.Days <= 0 {
		return fmt.Errorf("general.days must be positive, got %d", c.General.Days)
	}
	if c.Display.Width < 0 {
		return fmt.Errorf("display.width must not be negative, got %d", c.Display.Width)
	}
	if !slices.Contains(OutputFormats, c.Display.Output) {
		return fmt.Errorf("display.output must be one of %v, got %q", OutputFormats, c.Display.Output)
	}
	if _, err := c.RefreshInterval(); err != nil {
		return err
	}
	if c.Activity.IdleThresholdMinutes < 0 {
		return fmt.Errorf("activity.idle_threshold_minutes must not be negative, got %d", c.Activity.IdleThresholdMinutes)
	}
	return nil
}

// RefreshInterval parses watch.refresh_interval.
func (c Config) RefreshInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("watch.refresh_interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.refresh_interval must be positive, got %s", d)
	}
	return d, nil
}

// ClaudeProjectsDir returns the corpus root, ~/.claude/projects unless overridden.
func (c Config) ClaudeProjectsDir() (string, error) {
	if c.General.ClaudeDir != "" {
		return c.General.ClaudeDir, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// MetricsDBPath returns the metrics database path, inside DataDir unless overridden.
func (c Config) MetricsDBPath() (string, error) {
	if c.Metrics.DBPath != "" {
		return c.Metrics.DBPath, nil
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data.db"), nil
}

// ActivityPolicy maps the activity section onto the aggregator policy.
func (c Config) ActivityPolicy() session.ActivityPolicy {
	return session.ActivityPolicy{
		MinimumMinutes:       c.Activity.MinimumMinutes,
		IdleThresholdMinutes: c.Activity.IdleThresholdMinutes,
	}
}
