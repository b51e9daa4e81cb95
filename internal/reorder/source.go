package reorder

import (
	"fmt"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// SourceKind discriminates drag sources.
type SourceKind string

const (
	SourcePinnedTab SourceKind = "pinned-tab"
	SourceTabGroup  SourceKind = "tab-group"
)

// Source describes the row being dragged. It is built once when the drag
// starts and never modified; read it through its accessors.
type Source struct {
	kind         SourceKind
	tabID        int
	tabGroupID   int
	primaryTabID int
	profileID    string
	spaceID      string
	position     int
}

// NewPinnedTabSource classifies a pinned tab row at index within the pinned list.
func NewPinnedTabSource(tab domain.Tab, index int) Source {
	return Source{
		kind:         SourcePinnedTab,
		tabID:        tab.ID,
		primaryTabID: tab.ID,
		profileID:    tab.ProfileID,
		spaceID:      tab.SpaceID,
		position:     index,
	}
}

// NewTabGroupSource classifies a group row at index within the group list.
// The group's primary tab is the drag identity.
func NewTabGroupSource(group domain.TabGroup, index int) Source {
	primary := group.PrimaryTab()
	return Source{
		kind:         SourceTabGroup,
		tabID:        primary.ID,
		tabGroupID:   group.ID,
		primaryTabID: primary.ID,
		profileID:    group.ProfileID,
		spaceID:      group.SpaceID,
		position:     index,
	}
}

// NewTabSource classifies a bare tab row. Unpinned tabs do not know their
// group, so the group id stays zero and tabID stands in for the primary tab
// until the surrounding list resolves it with WithGroup.
func NewTabSource(tab domain.Tab, index int) Source {
	if tab.IsPinned {
		return NewPinnedTabSource(tab, index)
	}
	return Source{
		kind:         SourceTabGroup,
		tabID:        tab.ID,
		primaryTabID: tab.ID,
		profileID:    tab.ProfileID,
		spaceID:      tab.SpaceID,
		position:     index,
	}
}

// WithGroup returns a copy of a tab-group source with its group identity
// resolved from the list that owns the row.
func (s Source) WithGroup(group domain.TabGroup) Source {
	if s.kind != SourceTabGroup {
		return s
	}
	s.tabGroupID = group.ID
	s.primaryTabID = group.PrimaryTab().ID
	return s
}

func (s Source) Kind() SourceKind  { return s.kind }
func (s Source) TabGroupID() int   { return s.tabGroupID }
func (s Source) PrimaryTabID() int { return s.primaryTabID }
func (s Source) ProfileID() string { return s.profileID }
func (s Source) SpaceID() string   { return s.spaceID }
func (s Source) Position() int     { return s.position }

// TabID is the tab a command should address: the pinned tab itself, or the
// primary tab of a group.
func (s Source) TabID() int {
	if s.kind == SourceTabGroup {
		return s.primaryTabID
	}
	return s.tabID
}

// IsZero reports whether the source was never classified.
func (s Source) IsZero() bool {
	return s.kind == ""
}

func (s Source) String() string {
	if s.kind == SourceTabGroup {
		return fmt.Sprintf("%s(group=%d primary=%d space=%s pos=%d)", s.kind, s.tabGroupID, s.primaryTabID, s.spaceID, s.position)
	}
	return fmt.Sprintf("%s(tab=%d space=%s pos=%d)", s.kind, s.tabID, s.spaceID, s.position)
}
