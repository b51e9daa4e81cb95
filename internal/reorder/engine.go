package reorder

import (
	"context"
	"fmt"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// Engine turns a same-space drop into position commands. Every call reads a
// fresh snapshot of the destination list from the store.
type Engine struct {
	store domain.TabStore
}

// NewEngine creates an engine bound to store.
func NewEngine(store domain.TabStore) *Engine {
	return &Engine{store: store}
}

// PinnedItems converts pinned tabs to reorderable items.
func PinnedItems(tabs []domain.Tab) []Item {
	items := make([]Item, len(tabs))
	for i, t := range tabs {
		items[i] = Item{ID: t.ID, Position: t.Position}
	}
	return items
}

// GroupItems converts groups to reorderable items keyed by primary tab.
func GroupItems(groups []domain.TabGroup) []Item {
	items := make([]Item, 0, len(groups))
	for _, g := range groups {
		if len(g.Tabs) == 0 {
			continue
		}
		items = append(items, Item{ID: g.PrimaryTab().ID, Position: g.Position})
	}
	return items
}

// groupItemID maps any tab of a group to the group's primary tab. A tab that
// is in no group keeps its own id and becomes a placeholder.
func groupItemID(groups []domain.TabGroup, tabID int) int {
	for _, g := range groups {
		if g.HasTab(tabID) {
			return g.PrimaryTab().ID
		}
	}
	return tabID
}

// MovePinnedTab reorders the pinned list of spaceID so tabID lands at pos.
func (e *Engine) MovePinnedTab(ctx context.Context, spaceID string, tabID int, pos float64) ([]Command, error) {
	pinned, err := e.store.PinnedTabs(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("load pinned tabs: %w", err)
	}
	iss := &issuer{store: e.store}
	err = e.apply(ctx, iss, "pinned", spaceID, PinnedItems(pinned), tabID, pos)
	return iss.sent, err
}

// MoveTabGroup reorders the group list of spaceID so the group holding tabID
// lands at pos.
func (e *Engine) MoveTabGroup(ctx context.Context, spaceID string, tabID int, pos float64) ([]Command, error) {
	groups, err := e.store.TabGroups(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("load tab groups: %w", err)
	}
	iss := &issuer{store: e.store}
	err = e.apply(ctx, iss, "groups", spaceID, GroupItems(groups), groupItemID(groups, tabID), pos)
	return iss.sent, err
}

// PinAndMove pins tabID, then places it in the pinned list of spaceID at pos
// as if it had always been a member.
func (e *Engine) PinAndMove(ctx context.Context, spaceID string, tabID int, pos float64) ([]Command, error) {
	pinned, err := e.store.PinnedTabs(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("load pinned tabs: %w", err)
	}
	iss := &issuer{store: e.store}
	if err := iss.setPinned(ctx, tabID, true); err != nil {
		return iss.sent, err
	}
	err = e.apply(ctx, iss, "pinned", spaceID, withoutID(PinnedItems(pinned), tabID), tabID, pos)
	return iss.sent, err
}

// UnpinAndMove unpins tabID, then places its new group in the group list of
// spaceID at pos.
func (e *Engine) UnpinAndMove(ctx context.Context, spaceID string, tabID int, pos float64) ([]Command, error) {
	groups, err := e.store.TabGroups(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("load tab groups: %w", err)
	}
	iss := &issuer{store: e.store}
	if err := iss.setPinned(ctx, tabID, false); err != nil {
		return iss.sent, err
	}
	err = e.apply(ctx, iss, "groups", spaceID, withoutID(GroupItems(groups), tabID), tabID, pos)
	return iss.sent, err
}

func (e *Engine) apply(ctx context.Context, iss *issuer, list, spaceID string, items []Item, movedID int, pos float64) error {
	changes := Reorder(items, movedID, pos)
	log.Debug(log.CatReorder, "reorder planned",
		"list", list, "space", spaceID, "moved", movedID, "pos", pos,
		"items", len(items), "changes", len(changes))

	for _, c := range changes {
		if err := iss.moveTab(ctx, c.ID, c.To); err != nil {
			log.ErrorErr(log.CatReorder, "reorder interrupted", err, "list", list, "space", spaceID, "sent", len(iss.sent))
			return err
		}
	}
	return nil
}

// withoutID drops id from items. A tab that changes list keeps its id, so a
// stale entry for it in the destination snapshot must not count as a member.
func withoutID(items []Item, id int) []Item {
	out := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
