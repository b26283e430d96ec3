package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeaders = []string{
	"Project", "Session ID", "Directory", "Start", "End",
	"Events", "Input Tokens", "Output Tokens", "Active Minutes", "Density",
}

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeaders); err != nil {
		return err
	}

	proj := r.Projector()
	for _, tl := range r.Timelines {
		record := []string{
			projectLabel(tl),
			tl.SessionID,
			tl.Directory,
			tl.StartTime.In(r.Location).Format(time.RFC3339),
			tl.EndTime.In(r.Location).Format(time.RFC3339),
			strconv.Itoa(tl.EventCount()),
			strconv.Itoa(tl.TotalInputTokens),
			strconv.Itoa(tl.TotalOutputTokens),
			strconv.FormatUint(uint64(tl.ActiveDurationMinutes), 10),
			proj.DensityRow(tl),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
