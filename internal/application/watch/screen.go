package watch

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/penwyp/go-claude-timeline/internal/util"
)

// Screen draws whole frames on the alternate screen buffer.
type Screen struct {
	out   io.Writer
	inAlt bool
}

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

// Enter switches to the alternate screen and hides the cursor.
func (s *Screen) Enter() {
	if s.inAlt {
		return
	}
	io.WriteString(s.out, util.EnterAltScreen+util.ClearScreen+util.MoveCursorHome+util.HideCursor)
	s.inAlt = true
}

// Exit restores the cursor and the primary screen.
func (s *Screen) Exit() {
	if !s.inAlt {
		return
	}
	io.WriteString(s.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	s.inAlt = false
}

// Draw repaints the screen with frame. Raw mode disables output
// post-processing, so line feeds are sent as CRLF.
func (s *Screen) Draw(frame string) error {
	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	b.WriteString(util.ClearScreen)
	for _, line := range strings.SplitAfter(frame, "\n") {
		if strings.HasSuffix(line, "\n") {
			line = strings.TrimSuffix(line, "\n") + util.ClearToEndOfLine + "\r\n"
		}
		b.WriteString(line)
	}
	_, err := io.WriteString(s.out, b.String())
	return err
}

// TerminalColumns returns the width of stdout, or fallback when it is not a terminal.
func TerminalColumns(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}
