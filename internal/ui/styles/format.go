package styles

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

// TruncateTitle shortens plain text to maxWidth cells, ending in an ellipsis
// when cut. Wide runes count as two cells.
func TruncateTitle(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// FitWidth cuts a possibly styled line to width cells, keeping ANSI
// sequences intact.
func FitWidth(line string, width int) string {
	if width < 1 {
		return ""
	}
	return truncate.String(line, uint(width))
}

// PadTitle truncates s and pads it with spaces to exactly width cells.
func PadTitle(s string, width int) string {
	s = TruncateTitle(s, width)
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
