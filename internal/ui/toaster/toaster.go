// Package toaster shows short status messages in the sidebar footer.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowbrowser/flowbar/internal/ui/styles"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
)

// ShowMsg asks the owner of the toaster to display a message.
type ShowMsg struct {
	Message string
	Style   Style
}

// Show returns a command that emits a ShowMsg.
func Show(message string, style Style) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Message: message, Style: style}
	}
}

// DismissMsg hides the toast it was scheduled for. A newer toast survives it.
type DismissMsg struct {
	id int
}

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	id      int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.id++
	m.message = message
	m.style = style
	m.visible = message != ""
	id := m.id
	return m, tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{id: id}
	})
}

// Dismiss hides the toast if msg belongs to the current one.
func (m Model) Dismiss(msg DismissMsg) Model {
	if msg.id != m.id {
		return m
	}
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// View renders the toast on one line of at most width cells.
func (m Model) View(width int) string {
	if !m.visible {
		return ""
	}

	var style lipgloss.Style
	var icon string
	switch m.style {
	case StyleError:
		style, icon = styles.ErrorStyle, "✗ "
	case StyleInfo:
		style, icon = styles.HintStyle, "i "
	default:
		style, icon = styles.SuccessStyle, "✓ "
	}
	return style.Render(styles.TruncateTitle(icon+m.message, width))
}
