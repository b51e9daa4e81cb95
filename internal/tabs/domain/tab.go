// Package domain provides the pure domain layer for tabs, tab groups and spaces.
//
// The types here are plain values read from a tabs store snapshot. Nothing in this
// package talks to a database or a UI; the store contract lives in store.go.
package domain

import "time"

// TabGroupMode describes how the tabs of a group are presented.
type TabGroupMode string

const (
	// TabGroupModeNormal shows a single tab per row.
	TabGroupModeNormal TabGroupMode = "normal"

	// TabGroupModeGlance shows a front tab with peeking tabs behind it.
	TabGroupModeGlance TabGroupMode = "glance"

	// TabGroupModeSplit shows the tabs side by side.
	TabGroupModeSplit TabGroupMode = "split"
)

// String returns the string representation of the mode.
func (m TabGroupMode) String() string {
	return string(m)
}

// IsValid returns true if the mode is a recognized tab group mode.
func (m TabGroupMode) IsValid() bool {
	switch m {
	case TabGroupModeNormal, TabGroupModeGlance, TabGroupModeSplit:
		return true
	default:
		return false
	}
}

// Tab is a single browser tab as seen by the sidebar.
type Tab struct {
	ID       int
	UniqueID string

	ProfileID string
	SpaceID   string
	WindowID  int

	// Position is dense within the owning list: the pinned tabs of a space for
	// pinned tabs, the tabs of the group otherwise.
	Position int

	Title string
	URL   string

	IsPinned bool
	// PinnedURL is the URL the tab resets to. Empty when unset.
	PinnedURL string
	// PinnedName is a custom display name for the pinned URL. Empty when unset.
	PinnedName string

	Asleep  bool
	Audible bool
	Muted   bool

	CreatedAt    time.Time
	LastActiveAt time.Time
}

// DisplayName returns the label shown for the tab in the sidebar.
//
// A pinned tab showing its pinned URL uses the custom name; once it navigates
// away the live title wins. A tab with no URL yet falls back to the pinned name.
func (t Tab) DisplayName() string {
	switch {
	case t.PinnedURL != "" && t.URL != "" && t.PinnedURL == t.URL:
		return firstNonEmpty(t.PinnedName, t.Title)
	case t.URL != "":
		return t.Title
	default:
		return firstNonEmpty(t.PinnedName, t.Title)
	}
}

// HasDriftedFromPinnedURL reports whether a pinned tab navigated away from its pinned URL.
func (t Tab) HasDriftedFromPinnedURL() bool {
	return t.PinnedURL != "" && t.URL != t.PinnedURL
}

// TabGroup is one sidebar row of one or more unpinned tabs.
type TabGroup struct {
	ID        int
	Mode      TabGroupMode
	ProfileID string
	SpaceID   string
	Tabs      []Tab
	// GlanceFrontTabID is the tab shown in front for glance groups, 0 otherwise.
	GlanceFrontTabID int
	// Position is dense among the groups of the same space.
	Position int
}

// PrimaryTab returns the first tab of the group. Groups are never empty in a
// consistent snapshot; an empty group yields the zero Tab.
func (g TabGroup) PrimaryTab() Tab {
	if len(g.Tabs) == 0 {
		return Tab{}
	}
	return g.Tabs[0]
}

// HasTab reports whether the tab belongs to the group.
func (g TabGroup) HasTab(tabID int) bool {
	for _, t := range g.Tabs {
		if t.ID == tabID {
			return true
		}
	}
	return false
}

// Space is a named workspace of tabs under one profile.
type Space struct {
	ID           string
	ProfileID    string
	Name         string
	BgStartColor string
	Position     int
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
