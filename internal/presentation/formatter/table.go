package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/penwyp/go-claude-timeline/internal/core/model"
	"github.com/penwyp/go-claude-timeline/internal/core/timeline"
	"github.com/penwyp/go-claude-timeline/internal/data/metrics"
	"github.com/penwyp/go-claude-timeline/internal/util"
)

const (
	projectWidth  = 30
	eventsWidth   = 6
	tokensWidth   = 10
	durationWidth = 8
	childPrefix   = "  └─ "
)

var levelColors = [timeline.MaxLevel + 1]lipgloss.Color{"8", "2", "2", "3", "1"}

type render func(string) string

func plain(s string) string { return s }

func styled(style lipgloss.Style) render {
	return func(s string) string { return style.Render(s) }
}

// palette styles the table; every entry is the identity without color.
type palette struct {
	title  render
	accent render
	border render
	bold   render
	sparse render
	levels [timeline.MaxLevel + 1]render
}

func plainPalette() palette {
	p := palette{title: plain, accent: plain, border: plain, bold: plain, sparse: plain}
	for i := range p.levels {
		p.levels[i] = plain
	}
	return p
}

func colorPalette(r *lipgloss.Renderer) palette {
	p := palette{
		title:  styled(r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)),
		accent: styled(r.NewStyle().Foreground(lipgloss.Color("3"))),
		border: styled(r.NewStyle().Foreground(lipgloss.Color("4"))),
		bold:   styled(r.NewStyle().Bold(true)),
		sparse: styled(r.NewStyle().Foreground(levelColors[0]).Faint(true)),
	}
	for i, c := range levelColors {
		p.levels[i] = styled(r.NewStyle().Foreground(c))
	}
	return p
}

// TableFormatter renders the human readable timeline.
type TableFormatter struct {
	renderer *lipgloss.Renderer
}

// NewTableFormatter colors the table for the terminal term. The color
// profile comes from term even when Format writes somewhere else, such as a
// frame buffer. A nil term renders plain text.
func NewTableFormatter(term io.Writer) *TableFormatter {
	if term == nil {
		return &TableFormatter{}
	}
	return NewTableFormatterWithRenderer(lipgloss.NewRenderer(term))
}

func NewTableFormatterWithRenderer(r *lipgloss.Renderer) *TableFormatter {
	return &TableFormatter{renderer: r}
}

func (f *TableFormatter) Format(w io.Writer, r Report) error {
	p := plainPalette()
	if f.renderer != nil {
		p = colorPalette(f.renderer)
	}

	var b strings.Builder
	hours := int(r.End.Sub(r.Start).Hours())
	fmt.Fprintf(&b, "%s | %s - %s %s | %s\n",
		p.title("📊 Claude Project Timeline"),
		r.Start.In(r.Location).Format("01/02/2006 15:04"),
		r.End.In(r.Location).Format("01/02/2006 15:04"),
		p.bold(fmt.Sprintf("(%d hours)", hours)),
		p.accent(fmt.Sprintf("%d projects", len(r.Timelines))),
	)

	if len(r.Timelines) == 0 {
		fmt.Fprintf(&b, "\n%s\n", p.accent("🔍 "+NoSessionsMessage))
		writeMetrics(&b, r.Metrics, p)
		_, err := io.WriteString(w, b.String())
		return err
	}

	proj := r.Projector()
	lineWidth := FixedColumns + r.Width
	separator := p.border(util.Separator(lineWidth))

	header := strings.Join([]string{
		util.FitWidth("Project", projectWidth),
		util.FitWidth("Timeline", r.Width),
		util.PadLeft("Events", eventsWidth),
		util.PadLeft("Input", tokensWidth),
		util.PadLeft("Output", tokensWidth),
		util.PadLeft("Duration", durationWidth),
	}, " ")
	b.WriteString(separator + "\n")
	b.WriteString(p.bold(header) + "\n")
	b.WriteString(strings.Repeat(" ", projectWidth+1) + proj.AxisLegend() + "\n")
	b.WriteString(separator + "\n")

	for _, tl := range r.Timelines {
		row := strings.Join([]string{
			util.FitWidth(projectLabel(tl), projectWidth),
			densityRow(proj, tl, p),
			util.PadLeft(util.FormatNumber(tl.EventCount()), eventsWidth),
			util.PadLeft(util.FormatTokens(tl.TotalInputTokens), tokensWidth),
			util.PadLeft(util.FormatTokens(tl.TotalOutputTokens), tokensWidth),
			util.PadLeft(util.FormatMinutes(tl.ActiveDurationMinutes), durationWidth),
		}, " ")
		b.WriteString(row + "\n")
	}
	b.WriteString(separator + "\n")

	s := r.Summary
	fmt.Fprintf(&b, "\n%s\n", p.title("Summary Statistics:"))
	fmt.Fprintf(&b, "  • Total Projects: %s\n", p.accent(util.FormatNumber(s.TotalProjects)))
	fmt.Fprintf(&b, "  • Total Events: %s\n", p.accent(util.FormatNumber(s.TotalEvents)))
	fmt.Fprintf(&b, "  • Average Duration: %s\n", p.accent(fmt.Sprintf("%.1f minutes", s.AverageActiveMinutes)))
	fmt.Fprintf(&b, "  • Most Active Project: %s (%d events)\n", p.accent(s.MostActiveProject), s.MostActiveEvents)
	fmt.Fprintf(&b, "  • Tokens: %s in / %s out\n",
		p.accent(util.FormatTokens(s.TotalInputTokens)), p.accent(util.FormatTokens(s.TotalOutputTokens)))
	writeMetrics(&b, r.Metrics, p)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMetrics(b *strings.Builder, m *metrics.ProcessStats, p palette) {
	if m == nil || m.ProcessCount == 0 {
		return
	}
	fmt.Fprintf(b, "  • Claude Processes: %s (CPU avg %.1f%% / max %.1f%%, memory avg %.1f MB / max %.1f MB)\n",
		p.accent(util.FormatNumber(m.ProcessCount)), m.AvgCPU, m.MaxCPU, m.AvgMemoryMB, m.MaxMemoryMB)
}

func densityRow(proj timeline.Projector, tl model.SessionTimeline, p palette) string {
	var b strings.Builder
	for _, level := range timeline.DensityLevels(proj.DensityCounts(tl.Events)) {
		glyph := string(timeline.Glyph(level))
		if level < 0 {
			b.WriteString(p.sparse(glyph))
			continue
		}
		b.WriteString(p.levels[min(level, timeline.MaxLevel)](glyph))
	}
	return b.String()
}

func projectLabel(tl model.SessionTimeline) string {
	if tl.ParentProject != nil {
		return childPrefix + tl.ProjectName
	}
	return tl.ProjectName
}
