package session

import (
	"slices"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
)

// GroupKey identifies a session: the same id in two directories is two sessions.
type GroupKey struct {
	SessionID string
	Directory string
}

// EventGroup is the chronologically sorted events of one session.
type EventGroup struct {
	Key    GroupKey
	Events []model.SessionEvent
}

// GroupEvents partitions events by (session id, directory). Events keep their
// input order when timestamps tie, and groups are ordered by first event,
// again falling back to input order.
func GroupEvents(events []model.SessionEvent) []EventGroup {
	index := make(map[GroupKey]int)
	var groups []EventGroup

	for _, e := range events {
		key := GroupKey{SessionID: e.SessionID, Directory: e.Directory}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, EventGroup{Key: key})
		}
		groups[i].Events = append(groups[i].Events, e)
	}

	result := groups[:0]
	for _, g := range groups {
		if len(g.Events) == 0 {
			continue
		}
		slices.SortStableFunc(g.Events, compareEvents)
		result = append(result, g)
	}

	slices.SortStableFunc(result, func(a, b EventGroup) int {
		return a.Events[0].Timestamp.Compare(b.Events[0].Timestamp)
	})

	return result
}

func compareEvents(a, b model.SessionEvent) int {
	return a.Timestamp.Compare(b.Timestamp)
}
