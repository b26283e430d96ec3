package timeline

import "github.com/penwyp/go-claude-timeline/internal/core/model"

// Summary aggregates a result set for the footer of the report.
type Summary struct {
	TotalProjects        int     `json:"total_projects"`
	TotalEvents          int     `json:"total_events"`
	AverageActiveMinutes float64 `json:"average_active_minutes"`
	MostActiveProject    string  `json:"most_active_project"`
	MostActiveEvents     int     `json:"most_active_events"`
	TotalInputTokens     int     `json:"total_input_tokens"`
	TotalOutputTokens    int     `json:"total_output_tokens"`
}

// Summarize computes the footer statistics. Every timeline counts as one
// project entry; ties for most active keep the earliest timeline.
func Summarize(timelines []model.SessionTimeline) Summary {
	var s Summary
	if len(timelines) == 0 {
		return s
	}

	var minutes uint64
	for i, tl := range timelines {
		n := tl.EventCount()
		s.TotalEvents += n
		s.TotalInputTokens += tl.TotalInputTokens
		s.TotalOutputTokens += tl.TotalOutputTokens
		minutes += uint64(tl.ActiveDurationMinutes)
		if i == 0 || n > s.MostActiveEvents {
			s.MostActiveProject = tl.ProjectName
			s.MostActiveEvents = n
		}
	}

	s.TotalProjects = len(timelines)
	s.AverageActiveMinutes = float64(minutes) / float64(len(timelines))
	return s
}
