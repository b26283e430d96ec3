package session

import (
	"strings"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

// LabelResolver maps a working directory to a project label.
type LabelResolver interface {
	Resolve(directory string) string
}

// BuildTimeline derives the metrics of one non-empty, sorted group.
func BuildTimeline(group EventGroup, projectName string, policy ActivityPolicy) model.SessionTimeline {
	events := group.Events
	input, output := CalculateTokenTotals(events)

	return model.SessionTimeline{
		SessionID:             group.Key.SessionID,
		Directory:             group.Key.Directory,
		ProjectName:           projectName,
		Events:                events,
		StartTime:             events[0].Timestamp,
		EndTime:               events[len(events)-1].Timestamp,
		ActiveDurationMinutes: CalculateActiveDuration(events, policy),
		TotalInputTokens:      input,
		TotalOutputTokens:     output,
	}
}

// MatchesProject reports whether a label passes the project filter. The match
// is a case-sensitive substring test; an empty filter accepts everything.
func MatchesProject(label, filter string) bool {
	return filter == "" || strings.Contains(label, filter)
}

// BuildTimelines labels, filters and aggregates groups, keeping their order.
func BuildTimelines(groups []EventGroup, resolver LabelResolver, filter string, policy ActivityPolicy) []model.SessionTimeline {
	timelines := make([]model.SessionTimeline, 0, len(groups))
	for _, g := range groups {
		if len(g.Events) == 0 {
			continue
		}
		label := resolver.Resolve(g.Key.Directory)
		if !MatchesProject(label, filter) {
			continue
		}
		timelines = append(timelines, BuildTimeline(g, label, policy))
	}
	return timelines
}
