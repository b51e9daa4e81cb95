package reorder

import (
	"context"
	"fmt"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// Coordinator moves a dragged tab or group into another space. Cross-space
// drops always append to the destination list; the edge is ignored.
type Coordinator struct {
	store domain.TabStore
}

// NewCoordinator creates a coordinator bound to store.
func NewCoordinator(store domain.TabStore) *Coordinator {
	return &Coordinator{store: store}
}

// Move sends src to the end of the list t belongs to. A profile mismatch
// returns ErrCrossProfile without touching the store.
func (c *Coordinator) Move(ctx context.Context, src Source, t Target) ([]Command, error) {
	if src.ProfileID() != t.ProfileID() {
		log.Warn(log.CatReorder, "cross-profile move ignored",
			"source", src.String(), "target", t.String())
		return nil, ErrCrossProfile
	}

	n, err := c.destinationLength(ctx, t)
	if err != nil {
		return nil, err
	}

	iss := &issuer{store: c.store}
	tabID := src.TabID()
	// The tab changes list before it changes space, so the store appends it
	// to the list n was measured on.
	switch {
	case src.Kind() == SourceTabGroup && t.PinnedList():
		if err := iss.setPinned(ctx, tabID, true); err != nil {
			return iss.sent, err
		}
	case src.Kind() == SourcePinnedTab && !t.PinnedList():
		if err := iss.setPinned(ctx, tabID, false); err != nil {
			return iss.sent, err
		}
	}
	if err := iss.moveToSpace(ctx, tabID, t.SpaceID(), n); err != nil {
		return iss.sent, err
	}

	log.Debug(log.CatReorder, "moved to space",
		"tab", tabID, "from", src.SpaceID(), "to", t.SpaceID(), "position", n)
	return iss.sent, nil
}

// destinationLength reads the current length of the destination list.
func (c *Coordinator) destinationLength(ctx context.Context, t Target) (int, error) {
	if t.PinnedList() {
		pinned, err := c.store.PinnedTabs(ctx, t.SpaceID())
		if err != nil {
			return 0, fmt.Errorf("load pinned tabs of %s: %w", t.SpaceID(), err)
		}
		return len(pinned), nil
	}
	groups, err := c.store.TabGroups(ctx, t.SpaceID())
	if err != nil {
		return 0, fmt.Errorf("load tab groups of %s: %w", t.SpaceID(), err)
	}
	return len(groups), nil
}
