package reorder

import (
	"errors"
	"fmt"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// TargetKind discriminates drop targets.
type TargetKind string

const (
	// TargetPinnedTab is a pinned tab row.
	TargetPinnedTab TargetKind = "pinned-tab"
	// TargetTabGroup is a tab group row.
	TargetTabGroup TargetKind = "tab-group"
	// TargetPinnedList is the zone after the last pinned tab.
	TargetPinnedList TargetKind = "pinned-list"
	// TargetGroupList is the zone after the last tab group.
	TargetGroupList TargetKind = "group-list"
)

// Admissibility errors. A rejected drop emits no command.
var (
	ErrNoSource     = errors.New("no drag source")
	ErrCrossProfile = errors.New("cross-profile moves are not supported")
	ErrSelfDrop     = errors.New("cannot drop a tab onto itself")
	ErrSameGroup    = errors.New("cannot drop a group onto itself")
)

// Target is a droppable element of a space's sidebar.
type Target struct {
	kind      TargetKind
	tabID     int
	groupID   int
	profileID string
	spaceID   string
	index     int
}

// PinnedTabTarget is the pinned tab row at index.
func PinnedTabTarget(tab domain.Tab, index int) Target {
	return Target{
		kind:      TargetPinnedTab,
		tabID:     tab.ID,
		profileID: tab.ProfileID,
		spaceID:   tab.SpaceID,
		index:     index,
	}
}

// TabGroupTarget is the group row at index. Its primary tab identifies it.
func TabGroupTarget(group domain.TabGroup, index int) Target {
	return Target{
		kind:      TargetTabGroup,
		tabID:     group.PrimaryTab().ID,
		groupID:   group.ID,
		profileID: group.ProfileID,
		spaceID:   group.SpaceID,
		index:     index,
	}
}

// PinnedListTarget is the tail zone of a space's pinned list holding length tabs.
func PinnedListTarget(space domain.Space, length int) Target {
	return Target{
		kind:      TargetPinnedList,
		profileID: space.ProfileID,
		spaceID:   space.ID,
		index:     length,
	}
}

// GroupListTarget is the tail zone of a space's group list holding length groups.
func GroupListTarget(space domain.Space, length int) Target {
	return Target{
		kind:      TargetGroupList,
		profileID: space.ProfileID,
		spaceID:   space.ID,
		index:     length,
	}
}

func (t Target) Kind() TargetKind  { return t.kind }
func (t Target) TabID() int        { return t.tabID }
func (t Target) GroupID() int      { return t.groupID }
func (t Target) ProfileID() string { return t.profileID }
func (t Target) SpaceID() string   { return t.spaceID }
func (t Target) Index() int        { return t.index }

// IsZero reports whether the target is unset.
func (t Target) IsZero() bool {
	return t.kind == ""
}

// PinnedList reports whether the target belongs to the pinned list.
func (t Target) PinnedList() bool {
	return t.kind == TargetPinnedTab || t.kind == TargetPinnedList
}

// IsRow reports whether the target is a row with top and bottom edges, as
// opposed to a tail zone.
func (t Target) IsRow() bool {
	return t.kind == TargetPinnedTab || t.kind == TargetTabGroup
}

// DropPosition is the fractional position a drop with edge requests. Tail
// zones always append.
func (t Target) DropPosition(edge Edge) float64 {
	if !t.IsRow() {
		return float64(t.index)
	}
	return FractionalPosition(t.index, edge)
}

// SameRow reports whether two targets address the same row, ignoring index.
func (t Target) SameRow(other Target) bool {
	return t.kind == other.kind && t.tabID == other.tabID && t.groupID == other.groupID && t.spaceID == other.spaceID
}

func (t Target) String() string {
	switch t.kind {
	case TargetPinnedTab:
		return fmt.Sprintf("%s(tab=%d space=%s idx=%d)", t.kind, t.tabID, t.spaceID, t.index)
	case TargetTabGroup:
		return fmt.Sprintf("%s(group=%d primary=%d space=%s idx=%d)", t.kind, t.groupID, t.tabID, t.spaceID, t.index)
	default:
		return fmt.Sprintf("%s(space=%s len=%d)", t.kind, t.spaceID, t.index)
	}
}

// Check applies the admissibility rules in precedence order and returns the
// reason a drop is refused, or nil.
func Check(src Source, t Target) error {
	if src.IsZero() || t.IsZero() {
		return ErrNoSource
	}
	if src.ProfileID() != t.ProfileID() {
		return ErrCrossProfile
	}

	switch {
	case src.Kind() == SourcePinnedTab && t.Kind() == TargetPinnedTab:
		if src.TabID() == t.TabID() {
			return ErrSelfDrop
		}
	case src.Kind() == SourceTabGroup && t.Kind() == TargetTabGroup:
		if sameGroup(src, t) {
			return ErrSameGroup
		}
	}
	// Group onto pinned row pins the primary tab, pinned onto group row
	// unpins it, and tail zones accept either kind.
	return nil
}

// CanDrop reports whether src may be dropped on t.
func CanDrop(src Source, t Target) bool {
	return Check(src, t) == nil
}

// sameGroup compares by group id when the source resolved it, and always by
// primary tab so an unresolved source cannot drop on its own row.
func sameGroup(src Source, t Target) bool {
	if src.PrimaryTabID() == t.TabID() {
		return true
	}
	return src.TabGroupID() != 0 && src.TabGroupID() == t.GroupID()
}
