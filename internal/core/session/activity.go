package session

import (
	"time"

	"github.com/penwyp/go-claude-timeline/internal/core/constants"
	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

// ActivityPolicy holds the constants of the active-duration heuristic.
type ActivityPolicy struct {
	// MinimumMinutes is reported for a session with a single event.
	MinimumMinutes uint32
	// IdleThresholdMinutes is the longest gap, in whole minutes, still counted as activity.
	IdleThresholdMinutes int64
}

// DefaultActivityPolicy returns the 5 minute floor / 1 minute threshold policy.
func DefaultActivityPolicy() ActivityPolicy {
	return ActivityPolicy{
		MinimumMinutes:       constants.MinimumActiveMinutes,
		IdleThresholdMinutes: constants.IdleGapThresholdMinutes,
	}
}

// CalculateActiveDuration estimates engaged minutes for chronologically sorted
// events. Consecutive gaps are truncated to whole minutes; gaps above the idle
// threshold count as time away and add nothing.
func CalculateActiveDuration(events []model.SessionEvent, policy ActivityPolicy) uint32 {
	switch len(events) {
	case 0:
		return 0
	case 1:
		return policy.MinimumMinutes
	}

	var total int64
	for i := 1; i < len(events); i++ {
		gap := int64(events[i].Timestamp.Sub(events[i-1].Timestamp) / time.Minute)
		if gap <= policy.IdleThresholdMinutes {
			total += gap
		}
	}

	if total < 0 {
		return 0
	}
	return uint32(total)
}

// CalculateTokenTotals sums token usage over events.
func CalculateTokenTotals(events []model.SessionEvent) (input, output int) {
	for _, e := range events {
		input += e.InputTokens
		output += e.OutputTokens
	}
	return input, output
}
