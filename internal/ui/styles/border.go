package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPane draws content inside a rounded border with the title embedded
// in the top edge, like ╭─ Work ─────╮. The border takes the accent color.
// Content lines are clipped or padded to fit width x height.
func RenderPane(content, title string, width, height int, accent lipgloss.TerminalColor) string {
	borderStyle := lipgloss.NewStyle().Foreground(accent)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	lines := strings.Split(content, "\n")
	var b strings.Builder
	b.WriteString(buildTopBorder(title, innerWidth, borderStyle, titleStyle))
	b.WriteString("\n")
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(lines) {
			line = FitWidth(lines[i], innerWidth)
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString(line)
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString("\n")
	}
	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight))
	return b.String()
}

// buildTopBorder creates the top border with embedded title.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	// "─ " before and " ─" after the title at minimum
	if title == "" || innerWidth < 5 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	displayTitle := TruncateTitle(title, innerWidth-4)
	remaining := max(innerWidth-3-lipgloss.Width(displayTitle), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remaining)+borderTopRight)
}
