package timeline

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

var dayStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func eventsAt(offsets ...time.Duration) []model.SessionEvent {
	events := make([]model.SessionEvent, len(offsets))
	for i, off := range offsets {
		events[i] = model.SessionEvent{Timestamp: dayStart.Add(off)}
	}
	return events
}

func TestDensityRowMergesCloseEvents(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(24*time.Hour), 10, time.UTC)
	tl := model.SessionTimeline{Events: eventsAt(0, 30*time.Minute, 31*time.Minute)}

	counts := p.DensityCounts(tl.Events)
	assert.Equal(t, []int{3, 0, 0, 0, 0, 0, 0, 0, 0, 0}, counts)
	assert.Equal(t, "█·········", p.DensityRow(tl))
}

func TestDensityRowEmptyTimeline(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(24*time.Hour), 8, time.UTC)
	assert.Equal(t, "········", p.DensityRow(model.SessionTimeline{}))
}

func TestDensityLevels(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   []int
	}{
		{"all_empty", []int{0, 0, 0}, []int{EmptyLevel, EmptyLevel, EmptyLevel}},
		{"single_peak", []int{1, 0}, []int{4, EmptyLevel}},
		{"quarters", []int{8, 6, 4, 2}, []int{4, 3, 2, 1}},
		{"rounds_half_up", []int{8, 5, 3}, []int{4, 3, 2}},
		{"small_rounds_to_zero", []int{10, 1}, []int{4, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DensityLevels(tt.counts))
		})
	}
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '·', Glyph(EmptyLevel))
	assert.Equal(t, '·', Glyph(0))
	assert.Equal(t, '▪', Glyph(1))
	assert.Equal(t, '▫', Glyph(2))
	assert.Equal(t, '■', Glyph(3))
	assert.Equal(t, '█', Glyph(4))
	assert.Equal(t, '█', Glyph(9))
}

func TestDensityRowMixedLevels(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(4*time.Hour), 4, time.UTC)
	tl := model.SessionTimeline{Events: eventsAt(
		0, time.Minute, 2*time.Minute, 3*time.Minute,
		time.Hour+time.Minute, time.Hour+2*time.Minute,
		3*time.Hour,
	)}

	assert.Equal(t, []int{4, 2, 0, 1}, p.DensityCounts(tl.Events))
	assert.Equal(t, "█▫·▪", p.DensityRow(tl))
}

func TestSlot(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(10*time.Hour), 10, time.UTC)

	tests := []struct {
		name   string
		at     time.Time
		slot   int
		inside bool
	}{
		{"start", dayStart, 0, true},
		{"middle", dayStart.Add(5*time.Hour + 30*time.Minute), 5, true},
		{"just_before_boundary", dayStart.Add(time.Hour - time.Nanosecond), 0, true},
		{"boundary", dayStart.Add(time.Hour), 1, true},
		{"end_clamps", dayStart.Add(10 * time.Hour), 9, true},
		{"before", dayStart.Add(-time.Second), 0, false},
		{"after", dayStart.Add(10*time.Hour + time.Second), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := p.Slot(tt.at)
			assert.Equal(t, tt.inside, ok)
			assert.Equal(t, tt.slot, slot)
		})
	}
}

func TestSlotZeroLengthRange(t *testing.T) {
	p := NewProjector(dayStart, dayStart, 10, time.UTC)

	slot, ok := p.Slot(dayStart)
	assert.True(t, ok)
	assert.Equal(t, 0, slot)

	_, ok = p.Slot(dayStart.Add(time.Second))
	assert.False(t, ok)

	tl := model.SessionTimeline{Events: eventsAt(0, 0)}
	assert.Equal(t, "█·········", p.DensityRow(tl))
	assert.Equal(t, "          ", p.AxisLegend())
}

func TestNonPositiveWidth(t *testing.T) {
	for _, w := range []int{0, -3} {
		p := NewProjector(dayStart, dayStart.Add(time.Hour), w, time.UTC)
		assert.Empty(t, p.AxisLegend())
		assert.Empty(t, p.DensityRow(model.SessionTimeline{Events: eventsAt(0)}))
		assert.Nil(t, p.DensityCounts(eventsAt(0)))
		_, ok := p.Slot(dayStart)
		assert.False(t, ok)
	}
}

func TestAxisLegendHourly(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(24*time.Hour), 25, time.UTC)
	require.True(t, p.Hourly())

	// ticks at 00,03,...,21 land on positions 0,3,...,21; 24:00 (pos 24) has no room
	legend := p.AxisLegend()
	assert.Equal(t, "00 03 06 09 12 15 18 21  ", legend)
	assert.Equal(t, 25, utf8.RuneCountInString(legend))
}

func TestAxisLegendStartsAtTopOfHour(t *testing.T) {
	start := dayStart.Add(9*time.Hour + 20*time.Minute)
	p := NewProjector(start, start.Add(12*time.Hour), 60, time.UTC)

	legend := p.AxisLegend()
	require.Equal(t, 60, utf8.RuneCountInString(legend))
	// 09:00 precedes the range and is skipped; 12:00 is 160/720 of the way in
	assert.Equal(t, "12", legend[13:15])
	assert.Equal(t, byte(' '), legend[0])
	assert.NotContains(t, legend, "09")
	assert.Contains(t, legend, "15")
	assert.Contains(t, legend, "18")
}

func TestAxisLegendDaily(t *testing.T) {
	start := dayStart.Add(6 * time.Hour)
	p := NewProjector(start, start.Add(7*24*time.Hour), 50, time.UTC)
	require.False(t, p.Hourly())

	legend := p.AxisLegend()
	require.Equal(t, 50, utf8.RuneCountInString(legend))
	assert.NotContains(t, legend, "03/01")
	assert.Contains(t, legend, "03/02")
	assert.Contains(t, legend, "03/07")
	// 03/08 00:00 sits at round(162/168*49)=47 and needs five columns
	assert.NotContains(t, legend, "03/08")
}

func TestAxisLegendUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	p := NewProjector(dayStart, dayStart.Add(24*time.Hour), 25, loc)

	// 00:00 UTC is 05:00 local
	assert.Equal(t, "05", p.AxisLegend()[0:2])
}

func TestAxisLegendExactly24HoursIsHourly(t *testing.T) {
	assert.True(t, NewProjector(dayStart, dayStart.Add(24*time.Hour), 10, time.UTC).Hourly())
	assert.False(t, NewProjector(dayStart, dayStart.Add(24*time.Hour+time.Second), 10, time.UTC).Hourly())
}

func TestProjectionWidthInvariant(t *testing.T) {
	events := eventsAt(0, time.Hour, 5*time.Hour, 23*time.Hour, 47*time.Hour)
	for _, span := range []time.Duration{time.Hour, 12 * time.Hour, 24 * time.Hour, 48 * time.Hour, 30 * 24 * time.Hour} {
		for _, w := range []int{1, 2, 7, 20, 60, 133} {
			p := NewProjector(dayStart, dayStart.Add(span), w, time.UTC)
			assert.Equal(t, w, utf8.RuneCountInString(p.AxisLegend()), "legend span=%v w=%d", span, w)
			assert.Equal(t, w, utf8.RuneCountInString(p.DensityRow(model.SessionTimeline{Events: events})), "row span=%v w=%d", span, w)
			for _, e := range events {
				if slot, ok := p.Slot(e.Timestamp); ok {
					assert.GreaterOrEqual(t, slot, 0)
					assert.Less(t, slot, w)
				}
			}
		}
	}
}

func TestAxisLegendOverlaysCrowdedTicks(t *testing.T) {
	p := NewProjector(dayStart, dayStart.Add(24*time.Hour), 10, time.UTC)

	// 00..21 land on 0,1,2,3,5,6,7,8 and each overwrites the tail of the one
	// before; 24:00 at position 9 has no room
	assert.Equal(t, "0000911121", p.AxisLegend())
}
