package testutil

import (
	"fmt"
	"time"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// DefaultProfile is the profile of spaces built without InProfile.
const DefaultProfile = "default"

// spaceData holds a space to be built.
type spaceData struct {
	id      string
	profile string
	name    string
	color   string
}

// tabData holds a tab to be built.
type tabData struct {
	id         int
	title      string
	url        string
	pinnedURL  string
	pinnedName string
	asleep     bool
	audible    bool
	muted      bool
	active     bool
	createdAt  time.Time
}

func defaultTab(id int) tabData {
	return tabData{
		id:        id,
		title:     fmt.Sprintf("Tab %d", id),
		url:       fmt.Sprintf("https://example.com/%d", id),
		createdAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

// SpaceOption configures a space during builder setup.
type SpaceOption func(*spaceData)

// InProfile places the space in profile.
func InProfile(profile string) SpaceOption {
	return func(s *spaceData) { s.profile = profile }
}

// SpaceName sets the display name.
func SpaceName(name string) SpaceOption {
	return func(s *spaceData) { s.name = name }
}

// SpaceColor sets the background color.
func SpaceColor(color string) SpaceOption {
	return func(s *spaceData) { s.color = color }
}

// TabOption configures a tab during builder setup.
type TabOption func(*tabData)

// Title sets the tab title.
func Title(title string) TabOption {
	return func(t *tabData) { t.title = title }
}

// URL sets the current URL.
func URL(url string) TabOption {
	return func(t *tabData) { t.url = url }
}

// PinnedURL sets the URL a pinned tab resets to.
func PinnedURL(url string) TabOption {
	return func(t *tabData) { t.pinnedURL = url }
}

// PinnedName sets the custom name of a pinned tab.
func PinnedName(name string) TabOption {
	return func(t *tabData) { t.pinnedName = name }
}

// Asleep marks the tab as sleeping.
func Asleep() TabOption {
	return func(t *tabData) { t.asleep = true }
}

// Audible marks the tab as playing audio.
func Audible() TabOption {
	return func(t *tabData) { t.audible = true }
}

// Muted marks the tab as muted.
func Muted() TabOption {
	return func(t *tabData) { t.muted = true }
}

// Active focuses the tab in its space.
func Active() TabOption {
	return func(t *tabData) { t.active = true }
}

// GroupOption configures a tab group during builder setup.
type GroupOption func(*groupData)

type groupData struct {
	mode       domain.TabGroupMode
	glanceTab  int
	tabOptions map[int][]TabOption
}

// Mode sets the group mode.
func Mode(mode domain.TabGroupMode) GroupOption {
	return func(g *groupData) { g.mode = mode }
}

// GlanceFront sets the glance front tab and switches the group to glance mode.
func GlanceFront(tabID int) GroupOption {
	return func(g *groupData) {
		g.mode = domain.TabGroupModeGlance
		g.glanceTab = tabID
	}
}

// GroupTab configures one member tab of the group.
func GroupTab(tabID int, opts ...TabOption) GroupOption {
	return func(g *groupData) {
		g.tabOptions[tabID] = append(g.tabOptions[tabID], opts...)
	}
}
