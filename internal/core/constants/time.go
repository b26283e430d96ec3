package constants

import "time"

const (
	// Active duration policy
	MinimumActiveMinutes    = 5
	IdleGapThresholdMinutes = 1

	// Axis tick spacing
	HourTickInterval = 3 * time.Hour
	DayTickInterval  = 24 * time.Hour

	// Ranges up to this span get hour ticks, longer ones get day ticks
	HourlyAxisMaxSpan = 24 * time.Hour

	// Query defaults
	DefaultDays            = 1
	DefaultRefreshInterval = 10 * time.Second
	DefaultTimelineWidth   = 60
	MinTimelineWidth       = 20
)
