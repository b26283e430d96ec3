package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ClearScreen      = "\033[2J"
	MoveCursorHome   = "\033[H"
	HideCursor       = "\033[?25l"
	ShowCursor       = "\033[?25h"
	EnterAltScreen   = "\033[?1049h"
	ExitAltScreen    = "\033[?1049l"
	ClearToEndOfLine = "\033[0K"
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// FitWidth truncates text to width display columns, marking the cut with "…",
// then pads it with spaces to exactly width columns.
func FitWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if GetDisplayWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text in width display columns.
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}

// Separator returns a horizontal rule of width columns.
func Separator(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}
