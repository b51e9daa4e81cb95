// Package styles contains Lip Gloss style definitions for the sidebar.
package styles

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"}

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	SelectionBgColor        = lipgloss.AdaptiveColor{Light: "#E4E4E4", Dark: "#303030"}

	// DropIndicatorColor draws the line between rows where a drop would land.
	DropIndicatorColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"}
	DropRejectedColor  = StatusErrorColor

	// DefaultAccentColor is used for spaces without a valid color.
	DefaultAccentColor = lipgloss.Color("#54A0FF")
)

var (
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	RowStyle      = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	SelectedStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Background(SelectionBgColor)
	ActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	AsleepStyle   = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
	DraggedStyle  = lipgloss.NewStyle().Foreground(TextMutedColor).Strikethrough(true)

	SectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(TextSecondaryColor)
	HintStyle          = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle         = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle       = lipgloss.NewStyle().Foreground(StatusSuccessColor)

	DropLineStyle     = lipgloss.NewStyle().Foreground(DropIndicatorColor)
	DropRejectedStyle = lipgloss.NewStyle().Foreground(DropRejectedColor)

	ModeBadgeStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// SpaceAccent returns the color of a space, or DefaultAccentColor when hex is
// not a #RRGGBB value.
func SpaceAccent(hex string) lipgloss.TerminalColor {
	if !hexColorPattern.MatchString(hex) {
		return DefaultAccentColor
	}
	return lipgloss.Color(hex)
}
