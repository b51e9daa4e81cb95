package sidebar

import (
	"fmt"

	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// RowKind identifies what a sidebar row shows.
type RowKind int

const (
	RowPinned RowKind = iota
	RowPinnedTail
	RowGroup
	RowGroupTail
)

// Row is one line of the sidebar. Index is the position within its list; for
// tail rows it is the list length.
type Row struct {
	Kind  RowKind
	Index int
	Tab   domain.Tab
	Group domain.TabGroup
}

// buildRows lays out the pinned list, its tail zone, the group list and its
// tail zone, in that order.
func buildRows(pinned []domain.Tab, groups []domain.TabGroup) []Row {
	rows := make([]Row, 0, len(pinned)+len(groups)+2)
	for i, t := range pinned {
		rows = append(rows, Row{Kind: RowPinned, Index: i, Tab: t})
	}
	rows = append(rows, Row{Kind: RowPinnedTail, Index: len(pinned)})
	for i, g := range groups {
		rows = append(rows, Row{Kind: RowGroup, Index: i, Tab: g.PrimaryTab(), Group: g})
	}
	rows = append(rows, Row{Kind: RowGroupTail, Index: len(groups)})
	return rows
}

// Draggable reports whether the row can be picked up.
func (r Row) Draggable() bool {
	return r.Kind == RowPinned || r.Kind == RowGroup
}

// Source classifies the row as a drag source.
func (r Row) Source() reorder.Source {
	switch r.Kind {
	case RowPinned:
		return reorder.NewPinnedTabSource(r.Tab, r.Index)
	case RowGroup:
		return reorder.NewTabGroupSource(r.Group, r.Index)
	default:
		return reorder.Source{}
	}
}

// Target resolves the row as a drop target in space.
func (r Row) Target(space domain.Space) reorder.Target {
	switch r.Kind {
	case RowPinned:
		return reorder.PinnedTabTarget(r.Tab, r.Index)
	case RowGroup:
		return reorder.TabGroupTarget(r.Group, r.Index)
	case RowPinnedTail:
		return reorder.PinnedListTarget(space, r.Index)
	default:
		return reorder.GroupListTarget(space, r.Index)
	}
}

func (r Row) zoneID(prefix string) string {
	return fmt.Sprintf("%srow-%d-%d", prefix, r.Kind, r.Index)
}
