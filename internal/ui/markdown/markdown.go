// Package markdown renders tab lists as styled markdown for the CLI.
package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// noMarginStyle removes document margins on top of the chosen style.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with flowbar's configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer for style ("dark", "light", "ascii", "notty"; empty
// picks from the terminal) wrapping at width.
func New(style string, width int) (*Renderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}

// Space writes the pinned tabs and tab groups of space as a markdown
// document. activeGroupID marks the active group; 0 marks none.
func Space(space domain.Space, pinned []domain.Tab, groups []domain.TabGroup, activeGroupID int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(space.Name))
	fmt.Fprintf(&b, "Space `%s` of profile `%s`.\n\n", space.ID, space.ProfileID)

	fmt.Fprintf(&b, "## Pinned (%d)\n\n", len(pinned))
	if len(pinned) == 0 {
		b.WriteString("_none_\n\n")
	}
	for i, t := range pinned {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tabLine(t))
	}
	if len(pinned) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Tabs (%d)\n\n", len(groups))
	if len(groups) == 0 {
		b.WriteString("_none_\n")
	}
	for i, g := range groups {
		line := tabLine(g.PrimaryTab())
		if g.ID == activeGroupID {
			line = "**" + line + "**"
		}
		if g.Mode != domain.TabGroupModeNormal && g.Mode != "" {
			line += fmt.Sprintf(" _(%s)_", g.Mode)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
		for _, t := range g.Tabs[min(1, len(g.Tabs)):] {
			fmt.Fprintf(&b, "   - %s\n", tabLine(t))
		}
	}
	return b.String()
}

func tabLine(t domain.Tab) string {
	line := fmt.Sprintf("%s `#%d`", escape(t.DisplayName()), t.ID)
	var flags []string
	if t.HasDriftedFromPinnedURL() {
		flags = append(flags, "away from pinned URL")
	}
	if t.Asleep {
		flags = append(flags, "asleep")
	}
	if t.Audible && !t.Muted {
		flags = append(flags, "playing audio")
	}
	if len(flags) > 0 {
		line += " (" + strings.Join(flags, ", ") + ")"
	}
	return line
}

var escaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`, `[`, `\[`, `]`, `\]`)

func escape(s string) string {
	return escaper.Replace(s)
}
