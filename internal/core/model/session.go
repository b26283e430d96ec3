package model

import "time"

// SessionEvent is a single normalized log record.
type SessionEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	SessionID      string    `json:"session_id"`
	Directory      string    `json:"directory"`
	MessageType    string    `json:"message_type"`
	ContentPreview string    `json:"content_preview"`
	UUID           string    `json:"uuid"`
	InputTokens    int       `json:"input_tokens"`
	OutputTokens   int       `json:"output_tokens"`
}

// SessionTimeline is the reconstructed activity of one (session, directory)
// pair within a query. Events are chronological and never empty.
type SessionTimeline struct {
	SessionID             string         `json:"session_id"`
	Directory             string         `json:"directory"`
	ProjectName           string         `json:"project_name"`
	ParentProject         *string        `json:"parent_project,omitempty"`
	Events                []SessionEvent `json:"events"`
	StartTime             time.Time      `json:"start_time"`
	EndTime               time.Time      `json:"end_time"`
	ActiveDurationMinutes uint32         `json:"active_duration_minutes"`
	TotalInputTokens      int            `json:"total_input_tokens"`
	TotalOutputTokens     int            `json:"total_output_tokens"`
}

// EventCount returns the number of events in the timeline.
func (t *SessionTimeline) EventCount() int {
	return len(t.Events)
}

// Query describes one reconstruction request. Start and End are inclusive.
type Query struct {
	Start   time.Time
	End     time.Time
	Project string
	// Threads is accepted for compatibility; grouping ignores it.
	Threads bool
}

// Contains reports whether t falls inside the query range.
func (q Query) Contains(t time.Time) bool {
	return !t.Before(q.Start) && !t.After(q.End)
}

// FileEvent is a change notification for a watched log file.
type FileEvent struct {
	Path      string
	Operation string
}
