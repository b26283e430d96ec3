// Package watch keeps the timeline on screen and recomputes it as logs change.
package watch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/core/session"
	"github.com/penwyp/go-claude-timeline/internal/data/metrics"
	"github.com/penwyp/go-claude-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

const defaultDebounce = 500 * time.Millisecond

// Source runs one query over the corpus.
type Source interface {
	Load(q model.Query) ([]model.SessionTimeline, session.LoadStats)
}

// Config controls a Controller.
type Config struct {
	Days     int
	Project  string
	Threads  bool
	Interval time.Duration
	// Debounce delays a refresh after a file change so bursts of writes cost one pass.
	Debounce time.Duration
	Location *time.Location
	Clock    util.Clock
	// Width returns the timeline width for the next frame.
	Width func() int
	// Metrics returns process statistics for a range, or nil.
	Metrics func(ctx context.Context, start, end time.Time) *metrics.ProcessStats
}

// Controller re-runs the query on a ticker and on file changes.
type Controller struct {
	cfg       Config
	source    Source
	formatter formatter.Formatter
}

func NewController(cfg Config, source Source, f formatter.Formatter) *Controller {
	if cfg.Interval <= 0 {
		cfg.Interval = constants.DefaultRefreshInterval
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Clock == nil {
		cfg.Clock = util.GetTimeProvider()
	}
	return &Controller{cfg: cfg, source: source, formatter: f}
}

// Query is the range [now - days, now] for the current clock reading.
func (c *Controller) Query() model.Query {
	end := c.cfg.Clock.Now().In(c.cfg.Location)
	return model.Query{
		Start:   end.AddDate(0, 0, -c.cfg.Days),
		End:     end,
		Project: c.cfg.Project,
		Threads: c.cfg.Threads,
	}
}

// Frame recomputes the timelines and renders them.
func (c *Controller) Frame(ctx context.Context) (string, error) {
	q := c.Query()
	timelines, _ := c.source.Load(q)

	width := 0
	if c.cfg.Width != nil {
		width = c.cfg.Width()
	}
	report := formatter.NewReport(q.Start, q.End, width, c.cfg.Location, timelines)
	if c.cfg.Metrics != nil {
		report.Metrics = c.cfg.Metrics(ctx, q.Start, q.End)
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, report); err != nil {
		return "", fmt.Errorf("rendering frame: %w", err)
	}
	fmt.Fprintf(&buf, "\nUpdated %s · refresh every %s · press q to quit\n",
		q.End.Format("15:04:05"), c.cfg.Interval)
	return buf.String(), nil
}

// Run draws a frame, then redraws on every tick and after debounced file
// changes until ctx ends or a quit key arrives. Either channel may be nil.
func (c *Controller) Run(ctx context.Context, screen *Screen, keys <-chan KeyEvent, files <-chan model.FileEvent) error {
	draw := func() error {
		frame, err := c.Frame(ctx)
		if err != nil {
			return err
		}
		return screen.Draw(frame)
	}

	if err := draw(); err != nil {
		return err
	}

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Live mode stopped")
			return nil

		case <-ticker.C:
			if err := draw(); err != nil {
				return err
			}

		case event, ok := <-files:
			if !ok {
				files = nil
				continue
			}
			util.LogDebugf("File changed: %s (%s)", event.Path, event.Operation)
			if debounce == nil {
				debounce = time.After(c.cfg.Debounce)
			}

		case <-debounce:
			debounce = nil
			if err := draw(); err != nil {
				return err
			}

		case key, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if key.IsQuit() {
				return nil
			}
			if key.Key == 'r' {
				if err := draw(); err != nil {
					return err
				}
			}
		}
	}
}

// RunTerminal takes over the terminal: raw keyboard, alternate screen and a
// file watcher on dataDir. Missing keyboard or watcher support degrades to
// ticker-only refreshes.
func (c *Controller) RunTerminal(ctx context.Context, dataDir string, out io.Writer) error {
	var keys <-chan KeyEvent
	if kr, err := NewKeyboardReader(); err != nil {
		util.LogWarnf("Keyboard input unavailable: %v", err)
	} else {
		defer kr.Close()
		keys = kr.Events()
	}

	var files <-chan model.FileEvent
	if fw, err := NewFileWatcher([]string{dataDir}); err != nil {
		util.LogWarnf("File watching unavailable: %v", err)
	} else {
		defer fw.Close()
		files = fw.Events()
	}

	screen := NewScreen(out)
	screen.Enter()
	defer screen.Exit()

	util.LogInfof("Live mode started on %s, interval %s", dataDir, c.cfg.Interval)
	return c.Run(ctx, screen, keys, files)
}
