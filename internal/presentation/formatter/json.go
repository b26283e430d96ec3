package formatter

import (
	"io"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-claude-timeline/internal/core/timeline"
	"github.com/penwyp/go-claude-timeline/internal/data/metrics"
)

type jsonSession struct {
	SessionID             string    `json:"session_id"`
	Project               string    `json:"project"`
	ParentProject         *string   `json:"parent_project"`
	Directory             string    `json:"directory"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	Events                int       `json:"events"`
	ActiveDurationMinutes uint32    `json:"active_duration_minutes"`
	InputTokens           int       `json:"input_tokens"`
	OutputTokens          int       `json:"output_tokens"`
	Density               string    `json:"density"`
}

type jsonReport struct {
	Start    time.Time             `json:"start_time"`
	End      time.Time             `json:"end_time"`
	Width    int                   `json:"width"`
	Axis     string                `json:"axis"`
	Sessions []jsonSession         `json:"sessions"`
	Summary  timeline.Summary      `json:"summary"`
	Metrics  *metrics.ProcessStats `json:"process_metrics,omitempty"`
}

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, r Report) error {
	proj := r.Projector()
	out := jsonReport{
		Start:    r.Start.In(r.Location),
		End:      r.End.In(r.Location),
		Width:    r.Width,
		Axis:     proj.AxisLegend(),
		Sessions: make([]jsonSession, 0, len(r.Timelines)),
		Summary:  r.Summary,
		Metrics:  r.Metrics,
	}

	for _, tl := range r.Timelines {
		out.Sessions = append(out.Sessions, jsonSession{
			SessionID:             tl.SessionID,
			Project:               tl.ProjectName,
			ParentProject:         tl.ParentProject,
			Directory:             tl.Directory,
			StartTime:             tl.StartTime,
			EndTime:               tl.EndTime,
			Events:                tl.EventCount(),
			ActiveDurationMinutes: tl.ActiveDurationMinutes,
			InputTokens:           tl.TotalInputTokens,
			OutputTokens:          tl.TotalOutputTokens,
			Density:               proj.DensityRow(tl),
		})
	}

	data, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
