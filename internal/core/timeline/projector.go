// Package timeline projects session events onto a fixed-width time axis.
package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

// MaxLevel is the densest level of the glyph scale.
const MaxLevel = 4

// EmptyLevel marks a slot without events.
const EmptyLevel = -1

// Glyphs is the density scale from sparsest to densest.
var Glyphs = [MaxLevel + 1]rune{'·', '▪', '▫', '■', '█'}

// SparseGlyph renders a slot without events.
const SparseGlyph = '·'

// Projector maps times in [Start, End] onto Width character slots.
type Projector struct {
	Start    time.Time
	End      time.Time
	Width    int
	Location *time.Location
}

// NewProjector creates a Projector. A nil location means time.Local.
func NewProjector(start, end time.Time, width int, loc *time.Location) Projector {
	if loc == nil {
		loc = time.Local
	}
	return Projector{Start: start, End: end, Width: width, Location: loc}
}

func (p Projector) total() time.Duration {
	return p.End.Sub(p.Start)
}

// Hourly reports whether the axis uses hour ticks rather than day ticks.
func (p Projector) Hourly() bool {
	return p.total() <= constants.HourlyAxisMaxSpan
}

// AxisLegend renders Width columns of spaces with tick labels overlaid. A tick
// without room for its label before the right edge is dropped; later labels
// overwrite earlier ones where they collide.
func (p Projector) AxisLegend() string {
	if p.Width <= 0 {
		return ""
	}

	row := []rune(strings.Repeat(" ", p.Width))
	total := p.total()
	if total <= 0 {
		return string(row)
	}

	start := p.Start.In(p.Location)
	var tick time.Time
	var next func(time.Time) time.Time
	var label func(time.Time) string

	if p.Hourly() {
		tick = time.Date(start.Year(), start.Month(), start.Day(), start.Hour(), 0, 0, 0, p.Location)
		next = func(t time.Time) time.Time { return t.Add(constants.HourTickInterval) }
		label = func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }
	} else {
		tick = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, p.Location)
		next = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
		label = func(t time.Time) string { return t.Format("01/02") }
	}

	for ; !tick.After(p.End); tick = next(tick) {
		if tick.Before(p.Start) {
			continue
		}
		pos := int(math.Round(float64(tick.Sub(p.Start)) / float64(total) * float64(p.Width-1)))
		text := label(tick)
		if pos+len(text) > p.Width {
			continue
		}
		copy(row[pos:], []rune(text))
	}

	return string(row)
}

// Slot returns the slot of t, or false when t lies outside the range.
func (p Projector) Slot(t time.Time) (int, bool) {
	if p.Width <= 0 || t.Before(p.Start) || t.After(p.End) {
		return 0, false
	}

	total := p.total()
	if total <= 0 {
		return 0, true
	}

	slot := int(math.Floor(float64(t.Sub(p.Start)) / float64(total) * float64(p.Width)))
	if slot >= p.Width {
		slot = p.Width - 1
	}
	return slot, true
}

// DensityCounts counts events per slot.
func (p Projector) DensityCounts(events []model.SessionEvent) []int {
	if p.Width <= 0 {
		return nil
	}
	counts := make([]int, p.Width)
	for _, e := range events {
		if slot, ok := p.Slot(e.Timestamp); ok {
			counts[slot]++
		}
	}
	return counts
}

// DensityLevels normalises counts against the busiest slot. Empty slots get
// EmptyLevel, the others round(count/max*4) capped at MaxLevel.
func DensityLevels(counts []int) []int {
	peak := 1
	for _, c := range counts {
		peak = max(peak, c)
	}

	levels := make([]int, len(counts))
	for i, c := range counts {
		if c == 0 {
			levels[i] = EmptyLevel
			continue
		}
		level := int(math.Round(float64(c) / float64(peak) * MaxLevel))
		levels[i] = min(level, MaxLevel)
	}
	return levels
}

// Glyph returns the rune for a density level.
func Glyph(level int) rune {
	if level < 0 {
		return SparseGlyph
	}
	return Glyphs[min(level, MaxLevel)]
}

// DensityRow renders the glyph row of a timeline.
func (p Projector) DensityRow(tl model.SessionTimeline) string {
	if p.Width <= 0 {
		return ""
	}
	var b strings.Builder
	for _, level := range DensityLevels(p.DensityCounts(tl.Events)) {
		b.WriteRune(Glyph(level))
	}
	return b.String()
}
