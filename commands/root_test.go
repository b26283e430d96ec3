package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-timeline/internal/config"
	"github.com/penwyp/go-claude-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-claude-timeline/internal/testing/fixtures"
)

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			expected := tt.expected(home)
			assert.Equal(t, expected, result)
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test", "nested", "dir")

	err := ensureDir(testDir)
	assert.NoError(t, err)

	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	err = ensureDir(testDir)
	assert.NoError(t, err)
}

// isolate points HOME and the config directory at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T, root string) {
	t.Helper()
	gen := fixtures.NewTestDataGenerator(root)
	start := time.Now().Add(-2 * time.Hour)

	_, err := gen.GenerateSimpleSession("alpha", "/work/alpha", start)
	require.NoError(t, err)
	_, err = gen.GenerateSimpleSession("beta", "/work/beta", start.Add(30*time.Minute))
	require.NoError(t, err)

	// Only inside ranges of a month or more.
	_, err = gen.GenerateSimpleSession("ancient", "/work/ancient", start.AddDate(0, 0, -30))
	require.NoError(t, err)
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"days", "d", "1"},
		{"project", "p", ""},
		{"threads", "", "false"},
		{"dir", "", ""},
		{"output", "o", "table"},
		{"width", "", "0"},
		{"timezone", "", "Local"},
		{"watch", "w", "false"},
		{"interval", "", "10s"},
		{"metrics-db", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRunTimelineJSON(t *testing.T) {
	home := isolate(t)
	projects := filepath.Join(home, "projects")
	writeCorpus(t, projects)

	out, err := execute(t, "--dir", projects, "--output", "json", "--timezone", "UTC", "--width", "40")
	require.NoError(t, err)

	var report struct {
		Width    int    `json:"width"`
		Axis     string `json:"axis"`
		Sessions []struct {
			SessionID string `json:"session_id"`
			Project   string `json:"project"`
			Events    int    `json:"events"`
			Input     int    `json:"input_tokens"`
			Output    int    `json:"output_tokens"`
			Active    uint32 `json:"active_duration_minutes"`
			Density   string `json:"density"`
		} `json:"sessions"`
		Summary struct {
			TotalProjects int `json:"total_projects"`
			TotalEvents   int `json:"total_events"`
		} `json:"summary"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &report))

	assert.Equal(t, 40, report.Width)
	assert.Len(t, []rune(report.Axis), 40)
	require.Len(t, report.Sessions, 2)
	assert.Equal(t, "alpha", report.Sessions[0].Project)
	assert.Equal(t, "beta", report.Sessions[1].Project)
	for _, s := range report.Sessions {
		assert.Equal(t, 4, s.Events)
		assert.Equal(t, 175, s.Input)
		assert.Equal(t, 75, s.Output)
		assert.Equal(t, uint32(0), s.Active)
		assert.Len(t, []rune(s.Density), 40)
	}
	assert.Equal(t, 2, report.Summary.TotalProjects)
	assert.Equal(t, 8, report.Summary.TotalEvents)
}

func TestRunTimelineDaysWidensRange(t *testing.T) {
	home := isolate(t)
	projects := filepath.Join(home, "projects")
	writeCorpus(t, projects)

	out, err := execute(t, "--dir", projects, "--output", "csv", "--timezone", "UTC", "--days", "60")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Project,"))
	assert.True(t, strings.HasPrefix(lines[1], "ancient,"))
}

func TestRunTimelineProjectFilter(t *testing.T) {
	home := isolate(t)
	projects := filepath.Join(home, "projects")
	writeCorpus(t, projects)

	out, err := execute(t, "--dir", projects, "--output", "csv", "--timezone", "UTC", "-p", "bet")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "beta,session-beta,"))
}

func TestRunTimelineEmpty(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "--dir", filepath.Join(home, "missing"), "--timezone", "UTC", "--width", "30")
	require.NoError(t, err)
	assert.Contains(t, out, formatter.NoSessionsMessage)
}

func TestRunTimelineWritesLogFile(t *testing.T) {
	home := isolate(t)

	_, err := execute(t, "--dir", filepath.Join(home, "missing"), "--output", "json")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, ".go-claude-timeline", "logs", "app.log"))
	assert.NoError(t, err)
}

func TestRunTimelineValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown_output", []string{"--output", "xml"}},
		{"zero_days", []string{"--days", "0"}},
		{"negative_width", []string{"--width", "-1"}},
		{"bad_timezone", []string{"--timezone", "Mars/Olympus"}},
		{"zero_interval", []string{"--interval", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			args := append([]string{"--dir", filepath.Join(home, "missing")}, tt.args...)
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestConfigFileProvidesDefaults(t *testing.T) {
	home := isolate(t)
	projects := filepath.Join(home, "projects")
	writeCorpus(t, projects)

	cfg := config.DefaultConfig()
	cfg.General.ClaudeDir = projects
	cfg.General.Timezone = "UTC"
	cfg.Display.Output = "csv"
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, config.SaveTo(path, cfg))

	out, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Project,"))

	// Flags win over the file.
	out, err = execute(t, "--config", path, "--output", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestConfigCommands(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".config", "go-claude-timeline", "config.toml")

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "using defaults")
	assert.Contains(t, out, path)

	out, err = execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, "config", "init")
	assert.Error(t, err)

	_, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: loaded")
	assert.Contains(t, out, "Refresh interval:  10s")
}
