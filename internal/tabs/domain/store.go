package domain

import "context"

// TabQuerier reads list snapshots from the tabs store.
type TabQuerier interface {
	// TabGroups returns the groups of a space ordered by position.
	TabGroups(ctx context.Context, spaceID string) ([]TabGroup, error)

	// PinnedTabs returns the pinned tabs of a space ordered by position.
	PinnedTabs(ctx context.Context, spaceID string) ([]Tab, error)
}

// TabCommander applies position and pin changes to the tabs store.
// Commands are applied in the order they are issued.
type TabCommander interface {
	// MoveTab reassigns the position of a pinned tab, or of the group whose
	// primary tab is tabID, within its current list.
	MoveTab(ctx context.Context, tabID int, newPosition int) error

	// SetTabPinned moves a tab between the pinned list and the group list of
	// its space. Re-pinning an already pinned tab only updates the options.
	SetTabPinned(ctx context.Context, tabID int, pinned bool, opts ...PinOption) error

	// MoveTabToWindowSpace relocates a tab (and for unpinned tabs its group) to
	// another space of the same profile at newPosition.
	MoveTabToWindowSpace(ctx context.Context, tabID int, spaceID string, newPosition int) error
}

// TabStore is the narrow command/query surface the reordering core needs.
type TabStore interface {
	TabQuerier
	TabCommander
}

// SpaceRepository lists spaces.
type SpaceRepository interface {
	// Spaces returns the spaces of a profile ordered by position.
	// An empty profile returns the spaces of every profile.
	Spaces(ctx context.Context, profileID string) ([]Space, error)

	// Space returns one space. Returns SpaceNotFoundError if missing.
	Space(ctx context.Context, spaceID string) (Space, error)
}

// TabActions covers the tab operations of the sidebar that are not reordering.
type TabActions interface {
	// Tab returns one tab. Returns TabNotFoundError if missing.
	Tab(ctx context.Context, tabID int) (Tab, error)

	// ActiveTabGroup returns the group holding the focused tab of a space.
	// The boolean is false when nothing is focused.
	ActiveTabGroup(ctx context.Context, spaceID string) (TabGroup, bool, error)

	Navigate(ctx context.Context, tabID int, url string) error
	Reload(ctx context.Context, tabID int) error
	PutToSleep(ctx context.Context, tabID int) error
	SwitchToTab(ctx context.Context, tabID int) error
	CloseTab(ctx context.Context, tabID int) error
}

// Store is everything the sidebar needs from the tabs store.
type Store interface {
	TabStore
	SpaceRepository
	TabActions
}

// PinSettings holds the optional values of a SetTabPinned call.
// Nil fields leave the stored value untouched; a non-nil empty Name clears it.
type PinSettings struct {
	URL  *string
	Name *string
}

// PinOption configures a SetTabPinned call.
type PinOption func(*PinSettings)

// WithPinnedURL sets the URL a pinned tab resets to.
func WithPinnedURL(url string) PinOption {
	return func(s *PinSettings) {
		s.URL = &url
	}
}

// WithPinnedName sets the custom display name. An empty name clears it.
func WithPinnedName(name string) PinOption {
	return func(s *PinSettings) {
		s.Name = &name
	}
}

// ApplyPinOptions folds options into PinSettings.
func ApplyPinOptions(opts ...PinOption) PinSettings {
	var s PinSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
