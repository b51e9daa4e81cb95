package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/flowbrowser/flowbar/internal/keys"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/ui/styles"
)

const indicatorWidth = 2

// View renders the sidebar pane.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	innerWidth := max(m.width-2, 1)
	innerHeight := max(m.height-2, 1)

	title := "flowbar"
	if sp := m.Space(); sp.Name != "" {
		title = sp.Name
		if len(m.spaces) > 1 {
			title = fmt.Sprintf("%s %d/%d", sp.Name, m.spaceIdx+1, len(m.spaces))
		}
	}

	footer := m.footer(innerWidth)
	bodyHeight := max(innerHeight-len(footer), 1)
	body, cursorLine := m.body(innerWidth)

	if offset := cursorLine - bodyHeight + 1; offset > 0 {
		body = body[offset:]
	}
	if len(body) > bodyHeight {
		body = body[:bodyHeight]
	}
	for len(body) < bodyHeight {
		body = append(body, "")
	}

	content := strings.Join(append(body, footer...), "\n")
	return styles.RenderPane(content, title, m.width, m.height, styles.SpaceAccent(m.Space().BgStartColor))
}

func (m Model) footer(width int) []string {
	if m.Renaming() {
		return []string{m.input.View()}
	}
	if m.Dragging() {
		return []string{m.help.View(keys.DragKeyMap{KeyMap: m.keys})}
	}
	if m.help.ShowAll {
		return strings.Split(m.help.View(m.keys), "\n")
	}
	return []string{styles.FitWidth(m.help.View(m.keys), width)}
}

// body renders every row and returns the lines plus the line of the cursor.
func (m Model) body(width int) ([]string, int) {
	if !m.loaded {
		if m.err != nil {
			return []string{styles.ErrorStyle.Render(styles.TruncateTitle(m.err.Error(), width))}, 0
		}
		return []string{styles.HintStyle.Render("Loading…")}, 0
	}

	var lines []string
	cursorLine := 0
	dropTarget, dropEdge := m.gesture.Target(), m.gesture.Edge()
	dragging := m.Dragging()

	for i, row := range m.rows {
		if m.cfg.ShowCounts {
			switch row.Kind {
			case RowPinned:
				if row.Index == 0 {
					lines = append(lines, m.sectionHeader("Pinned", len(m.pinned)))
				}
			case RowGroup:
				if row.Index == 0 {
					lines = append(lines, m.sectionHeader("Tabs", len(m.groups)))
				}
			}
		}

		hovered := dragging && !dropTarget.IsZero() && dropTarget.SameRow(row.Target(m.Space()))

		if hovered && row.Target(m.Space()).IsRow() && dropEdge == reorder.EdgeTop {
			lines = append(lines, dropLine(width, true))
		}

		if i == m.cursor {
			cursorLine = len(lines)
		}
		if rendered := m.renderRow(row, i == m.cursor, hovered, width); rendered != "" {
			lines = append(lines, strings.Split(zone.Mark(row.zoneID(m.zoneID), rendered), "\n")...)
		}

		if hovered && row.Target(m.Space()).IsRow() {
			switch dropEdge {
			case reorder.EdgeBottom:
				lines = append(lines, dropLine(width, true))
			case reorder.EdgeNone:
				if m.gesture.Source().PrimaryTabID() != row.Tab.ID {
					lines = append(lines, dropLine(width, false))
				}
			}
		}
	}
	return lines, cursorLine
}

func (m Model) sectionHeader(label string, n int) string {
	return styles.SectionHeaderStyle.Render(fmt.Sprintf("%s (%d)", label, n))
}

func dropLine(width int, ok bool) string {
	if ok {
		return styles.DropLineStyle.Render(strings.Repeat("━", width))
	}
	return styles.DropRejectedStyle.Render(strings.Repeat("╌", width))
}

func (m Model) renderRow(row Row, selected, hovered bool, width int) string {
	switch row.Kind {
	case RowPinnedTail:
		label := " clear "
		rule := strings.Repeat("─", max(width-lipgloss.Width(label)-1, 1))
		if hovered {
			return styles.DropLineStyle.Render(rule + label)
		}
		return styles.HintStyle.Render(rule + label)
	case RowGroupTail:
		if !m.Dragging() {
			return ""
		}
		label := styles.TruncateTitle("  drop at end", width)
		if hovered {
			return styles.DropLineStyle.Render(label)
		}
		return styles.HintStyle.Render(label)
	}

	indicator := strings.Repeat(" ", indicatorWidth)
	if selected {
		indicator = styles.SelectionIndicatorStyle.Render(">") + " "
	}

	titleWidth := width - indicatorWidth
	if m.cfg.TitleWidth > 0 {
		titleWidth = min(titleWidth, m.cfg.TitleWidth)
	}

	style := m.rowStyle(row, selected)
	if row.Kind == RowPinned {
		return indicator + style.Render(tabLabel(row.Tab, "", titleWidth))
	}

	g := row.Group
	badge := ""
	if m.cfg.ShowModes && g.Mode != domain.TabGroupModeNormal && g.Mode != "" {
		badge = styles.ModeBadgeStyle.Render("[" + g.Mode.String() + "] ")
	}
	titleWidth = max(titleWidth-lipgloss.Width(badge), 1)

	switch g.Mode {
	case domain.TabGroupModeSplit:
		lines := make([]string, 0, len(g.Tabs))
		for j, t := range g.Tabs {
			if j == 0 {
				lines = append(lines, indicator+badge+style.Render(tabLabel(t, "", titleWidth)))
				continue
			}
			pad := strings.Repeat(" ", indicatorWidth+lipgloss.Width(badge))
			lines = append(lines, pad+style.Render(tabLabel(t, "", titleWidth)))
		}
		return strings.Join(lines, "\n")
	case domain.TabGroupModeGlance:
		front := row.Tab
		for _, t := range g.Tabs {
			if t.ID == g.GlanceFrontTabID {
				front = t
			}
		}
		suffix := ""
		if n := len(g.Tabs) - 1; n > 0 {
			suffix = fmt.Sprintf(" +%d", n)
		}
		return indicator + badge + style.Render(tabLabel(front, suffix, titleWidth))
	default:
		return indicator + badge + style.Render(tabLabel(row.Tab, "", titleWidth))
	}
}

func (m Model) rowStyle(row Row, selected bool) lipgloss.Style {
	src := m.gesture.Source()
	switch {
	case m.Dragging() && src.PrimaryTabID() == row.Tab.ID:
		return styles.DraggedStyle
	case selected:
		return styles.SelectedStyle
	case row.Kind == RowGroup && row.Group.ID == m.activeGroupID:
		return styles.ActiveStyle
	case row.Tab.Asleep:
		return styles.AsleepStyle
	default:
		return styles.RowStyle
	}
}

// tabLabel is the title of t with its state markers, cut to width.
func tabLabel(t domain.Tab, suffix string, width int) string {
	name := t.DisplayName()
	if name == "" {
		name = t.URL
	}
	if t.HasDriftedFromPinnedURL() {
		suffix = " ↗" + suffix
	}
	if t.Audible && !t.Muted {
		suffix += " ♪"
	}
	if t.Asleep {
		suffix += " z"
	}
	room := width - lipgloss.Width(suffix)
	if room < 1 {
		return styles.TruncateTitle(name, width)
	}
	return styles.TruncateTitle(name, room) + suffix
}
