package session

import (
	"fmt"
	"runtime"
	"slices"
	"time"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/core/project"
	"github.com/penwyp/go-claude-timeline/internal/data/parser"
	"github.com/penwyp/go-claude-timeline/internal/data/scanner"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	DataDir     string
	Concurrency int
	Location    *time.Location
	// Policy is used as given, zero values included; nil uses DefaultActivityPolicy.
	Policy *ActivityPolicy
	// Lookup resolves repository names; nil uses the git configuration.
	Lookup project.NameLookup
}

// LoadStats describes what one Load pass touched.
type LoadStats struct {
	Files       int
	FailedFiles int
	Events      int
	InRange     int
	Sessions    int
	Duration    time.Duration
}

// Loader runs the full reconstruction pipeline for a query.
type Loader struct {
	scanner *scanner.FileScanner
	parser  *parser.Parser
	lookup  project.NameLookup
	policy  ActivityPolicy
}

// NewLoader creates a Loader.
func NewLoader(cfg LoaderConfig) *Loader {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	policy := DefaultActivityPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	return &Loader{
		scanner: scanner.NewFileScanner(cfg.DataDir),
		parser:  parser.NewParser(cfg.Concurrency, cfg.Location),
		lookup:  cfg.Lookup,
		policy:  policy,
	}
}

// DataDir returns the corpus root.
func (l *Loader) DataDir() string {
	return l.scanner.BaseDir()
}

// Load reconstructs the timelines of every session with events in the query
// range, ordered by start time. Files that fail to parse are skipped.
func (l *Loader) Load(q model.Query) ([]model.SessionTimeline, LoadStats) {
	start := time.Now()
	var stats LoadStats

	if q.Threads {
		util.LogDebug("Thread grouping requested; sessions are grouped by id and directory")
	}

	files := l.scanner.Scan()
	stats.Files = len(files)
	l.parser.Forget(files)

	var inRange []model.SessionEvent
	for _, result := range l.parser.ParseFiles(files) {
		if result.Error != nil {
			stats.FailedFiles++
			util.LogWarn(fmt.Sprintf("Skip file %s: %v", result.File, result.Error))
			continue
		}
		stats.Events += len(result.Events)
		for _, e := range result.Events {
			if q.Contains(e.Timestamp) {
				inRange = append(inRange, e)
			}
		}
	}
	stats.InRange = len(inRange)

	groups := GroupEvents(inRange)
	timelines := BuildTimelines(groups, project.NewResolver(l.lookup), q.Project, l.policy)
	slices.SortStableFunc(timelines, func(a, b model.SessionTimeline) int {
		return a.StartTime.Compare(b.StartTime)
	})

	stats.Sessions = len(timelines)
	stats.Duration = time.Since(start)
	util.LogInfo(fmt.Sprintf("Loaded %d sessions from %d files (%d failed), %d/%d events in range, duration %v",
		stats.Sessions, stats.Files, stats.FailedFiles, stats.InRange, stats.Events, stats.Duration))

	return timelines, stats
}
