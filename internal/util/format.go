package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber groups digits in threes: 1234567 becomes "1,234,567".
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	digits := strconv.Itoa(n)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatTokens renders a token total, showing "-" when there were none.
func FormatTokens(n int) string {
	if n == 0 {
		return "-"
	}
	return FormatNumber(n)
}

// FormatMinutes renders an active duration as "Nm".
func FormatMinutes(minutes uint32) string {
	return fmt.Sprintf("%dm", minutes)
}
