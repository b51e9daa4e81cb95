// Package sidebar is the vertical tab sidebar of one space: pinned tabs, a
// divider, then tab groups. Rows can be reordered by dragging with the mouse
// or with the keyboard, and dragged into other spaces of the same profile.
package sidebar

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowbrowser/flowbar/internal/keys"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// zonePrefix namespaces the mouse zones of sidebar rows.
const zonePrefix = "sidebar-"

// Tabs is what the sidebar needs from the tabs service.
type Tabs interface {
	domain.Store
	PutPinnedTabToSleep(ctx context.Context, tabID int) error
	RenamePinnedTab(ctx context.Context, tabID int, name string) error
	ResetPinnedTab(ctx context.Context, tabID int) error
	ClearSpace(ctx context.Context, spaceID string) (int, error)
}

// Config holds display options.
type Config struct {
	// Profile limits space switching to one profile. Empty allows all.
	Profile string
	// Space is shown first. Empty or unknown shows the first space.
	Space string

	ShowModes  bool
	ShowCounts bool
	// TitleWidth caps row titles. 0 uses the full width.
	TitleWidth int
}

// SpaceChangedMsg reports that the sidebar now shows another space.
type SpaceChangedMsg struct {
	SpaceID string
}

type loadedMsg struct {
	spaces        []domain.Space
	spaceIdx      int
	pinned        []domain.Tab
	groups        []domain.TabGroup
	activeGroupID int
	err           error
}

type actionDoneMsg struct {
	status string
	err    error
}

// Model is the sidebar state.
type Model struct {
	tabs    Tabs
	gesture *reorder.Gesture
	cfg     Config
	keys    keys.KeyMap
	help    help.Model
	input   textinput.Model
	zoneID  string

	spaces        []domain.Space
	spaceIdx      int
	pinned        []domain.Tab
	groups        []domain.TabGroup
	activeGroupID int
	rows          []Row
	cursor        int
	loaded        bool
	err           error

	renameTabID int

	mouseDown  bool
	mouseMoved bool
	mouseY     int
	mouseTabID int // tab under the press

	width  int
	height int
}

// New creates a sidebar. Drops go through dropper, which should be built on
// the same tabs service.
func New(tabs Tabs, dropper *reorder.Dropper, cfg Config) Model {
	input := textinput.New()
	input.Prompt = "name: "
	input.CharLimit = 120

	return Model{
		tabs:    tabs,
		gesture: reorder.NewGesture(dropper),
		cfg:     cfg,
		keys:    keys.DefaultKeyMap(),
		help:    help.New(),
		input:   input,
		zoneID:  zonePrefix,
		rows:    buildRows(nil, nil),
	}
}

// Init loads the configured space.
func (m Model) Init() tea.Cmd {
	return m.load(m.cfg.Space)
}

// SetSize updates the pane dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = max(width-2, 0)
	m.input.Width = max(width-10, 1)
	return m
}

// Reload re-reads the current space.
func (m Model) Reload() tea.Cmd {
	return m.load(m.SpaceID())
}

// Space returns the space shown, or the zero Space before the first load.
func (m Model) Space() domain.Space {
	if m.spaceIdx < 0 || m.spaceIdx >= len(m.spaces) {
		return domain.Space{}
	}
	return m.spaces[m.spaceIdx]
}

// SpaceID returns the id of the space shown, or the configured one before
// the first load.
func (m Model) SpaceID() string {
	if sp := m.Space(); sp.ID != "" {
		return sp.ID
	}
	return m.cfg.Space
}

// Dragging reports whether a row is picked up.
func (m Model) Dragging() bool {
	return m.gesture.Active()
}

// Renaming reports whether the rename input has focus. Keys go to the input
// while it does.
func (m Model) Renaming() bool {
	return m.renameTabID != 0
}

// Rows returns the current rows.
func (m Model) Rows() []Row {
	return m.rows
}

// Cursor returns the index of the selected row.
func (m Model) Cursor() int {
	return m.cursor
}

// Err returns the last load error.
func (m Model) Err() error {
	return m.err
}

func (m Model) load(spaceID string) tea.Cmd {
	tabs, profile := m.tabs, m.cfg.Profile
	return func() tea.Msg {
		ctx := context.Background()

		spaces, err := tabs.Spaces(ctx, profile)
		if err != nil {
			return loadedMsg{err: err}
		}
		if len(spaces) == 0 {
			return loadedMsg{}
		}

		idx := 0
		for i, sp := range spaces {
			if sp.ID == spaceID {
				idx = i
				break
			}
		}
		space := spaces[idx]

		pinned, err := tabs.PinnedTabs(ctx, space.ID)
		if err != nil {
			return loadedMsg{err: err}
		}
		groups, err := tabs.TabGroups(ctx, space.ID)
		if err != nil {
			return loadedMsg{err: err}
		}
		active, ok, err := tabs.ActiveTabGroup(ctx, space.ID)
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{spaces: spaces, spaceIdx: idx, pinned: pinned, groups: groups}
		if ok {
			msg.activeGroupID = active.ID
		}
		return msg
	}
}
