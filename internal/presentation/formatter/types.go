package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/core/timeline"
	"github.com/penwyp/go-claude-timeline/internal/data/metrics"
)

// NoSessionsMessage is printed when a query matched nothing.
const NoSessionsMessage = "No Claude sessions found in the specified time range"

// Report is everything a formatter renders for one query.
type Report struct {
	Start     time.Time
	End       time.Time
	Width     int
	Location  *time.Location
	Timelines []model.SessionTimeline
	Summary   timeline.Summary
	// Metrics is nil when no process metrics database is available.
	Metrics *metrics.ProcessStats
}

// NewReport assembles a report and its summary.
func NewReport(start, end time.Time, width int, loc *time.Location, timelines []model.SessionTimeline) Report {
	if loc == nil {
		loc = time.Local
	}
	return Report{
		Start:     start,
		End:       end,
		Width:     width,
		Location:  loc,
		Timelines: timelines,
		Summary:   timeline.Summarize(timelines),
	}
}

// Projector returns the projector for the report's range and width.
func (r Report) Projector() timeline.Projector {
	return timeline.NewProjector(r.Start, r.End, r.Width, r.Location)
}

// Formatter renders a report.
type Formatter interface {
	Format(w io.Writer, r Report) error
}

// New returns the formatter for an output name. Tables are colored for the
// terminal term; nil disables color and other formats ignore it.
func New(output string, term io.Writer) (Formatter, error) {
	switch output {
	case "", "table":
		return NewTableFormatter(term), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", output)
	}
}

// FixedColumns is the width of every table column except the timeline.
const FixedColumns = projectWidth + eventsWidth + 2*tokensWidth + durationWidth + 5

// TimelineWidth fits the timeline column into a terminal of the given width.
func TimelineWidth(columns int) int {
	return max(columns-FixedColumns, constants.MinTimelineWidth)
}
