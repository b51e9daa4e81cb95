package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// StoreFactory creates a store seeded with snap.
type StoreFactory func(t *testing.T, snap domain.Snapshot) domain.Store

// RunStoreContract checks the list semantics every domain.Store must share.
func RunStoreContract(t *testing.T, newStore StoreFactory) {
	t.Helper()
	ctx := context.Background()

	seed := func(t *testing.T) domain.Store {
		return newStore(t, NewBuilder(t).WithStandardTestData().Build())
	}

	t.Run("ListsOrderedByPosition", func(t *testing.T) {
		store := seed(t)

		pinned, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, TabIDs(pinned))
		require.True(t, pinned[0].IsPinned)
		require.Equal(t, "Mail", pinned[0].PinnedName)

		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{10, 11, 13}, PrimaryIDs(groups))
		require.Equal(t, domain.TabGroupModeSplit, groups[1].Mode)
		require.Equal(t, []int{11, 12}, TabIDs(groups[1].Tabs))
		RequireDense(t, store, "work-a")
	})

	t.Run("UnknownSpaceHasEmptyLists", func(t *testing.T) {
		store := seed(t)
		pinned, err := store.PinnedTabs(ctx, "nope")
		require.NoError(t, err)
		require.Empty(t, pinned)
		groups, err := store.TabGroups(ctx, "nope")
		require.NoError(t, err)
		require.Empty(t, groups)
	})

	t.Run("Spaces", func(t *testing.T) {
		store := seed(t)
		spaces, err := store.Spaces(ctx, "work")
		require.NoError(t, err)
		require.Len(t, spaces, 2)
		require.Equal(t, "work-a", spaces[0].ID)
		require.Equal(t, "Research", spaces[1].Name)

		all, err := store.Spaces(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)

		_, err = store.Space(ctx, "missing")
		var notFound *domain.SpaceNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("TabNotFound", func(t *testing.T) {
		store := seed(t)
		_, err := store.Tab(ctx, 999)
		var notFound *domain.TabNotFoundError
		require.ErrorAs(t, err, &notFound)
		require.Equal(t, 999, notFound.TabID)

		require.ErrorAs(t, store.MoveTab(ctx, 999, 0), &notFound)
	})

	t.Run("MoveTabSetsPinnedPosition", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.MoveTab(ctx, 2, 0))
		require.NoError(t, store.MoveTab(ctx, 1, 1))
		pinned, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{2, 1, 3}, TabIDs(pinned))
		RequireDense(t, store, "work-a")
	})

	t.Run("MoveTabMovesWholeGroup", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.MoveTab(ctx, 10, 2))
		require.NoError(t, store.MoveTab(ctx, 11, 0))
		require.NoError(t, store.MoveTab(ctx, 13, 1))
		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{11, 13, 10}, PrimaryIDs(groups))
	})

	t.Run("PinAppendsAndKeepsListsDense", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.SetTabPinned(ctx, 12, true))

		pinned, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3, 12}, TabIDs(pinned))
		require.Equal(t, "https://example.com/12", pinned[3].PinnedURL)

		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{10, 11, 13}, PrimaryIDs(groups))
		require.Equal(t, []int{11}, TabIDs(groups[1].Tabs))
		RequireDense(t, store, "work-a")
	})

	t.Run("PinLastTabDropsGroup", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.SetTabPinned(ctx, 10, true, domain.WithPinnedName("PR")))

		tab, err := store.Tab(ctx, 10)
		require.NoError(t, err)
		require.True(t, tab.IsPinned)
		require.Equal(t, "PR", tab.PinnedName)

		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{11, 13}, PrimaryIDs(groups))
		RequireDense(t, store, "work-a")
	})

	t.Run("RepinOnlyUpdatesOptions", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.SetTabPinned(ctx, 2, true,
			domain.WithPinnedURL("https://cal.example.com/day"), domain.WithPinnedName("Cal")))
		tab, err := store.Tab(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, 1, tab.Position)
		require.Equal(t, "https://cal.example.com/day", tab.PinnedURL)
		require.Equal(t, "Cal", tab.PinnedName)

		require.NoError(t, store.SetTabPinned(ctx, 2, true, domain.WithPinnedName("")))
		tab, err = store.Tab(ctx, 2)
		require.NoError(t, err)
		require.Empty(t, tab.PinnedName)
		require.Equal(t, "https://cal.example.com/day", tab.PinnedURL)
	})

	t.Run("UnpinCreatesTrailingGroup", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.SetTabPinned(ctx, 1, false))

		tab, err := store.Tab(ctx, 1)
		require.NoError(t, err)
		require.False(t, tab.IsPinned)
		require.Empty(t, tab.PinnedURL)
		require.Empty(t, tab.PinnedName)

		pinned, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{2, 3}, TabIDs(pinned))

		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{10, 11, 13, 1}, PrimaryIDs(groups))
		require.Equal(t, domain.TabGroupModeNormal, groups[3].Mode)
		RequireDense(t, store, "work-a")
	})

	t.Run("MovePinnedToSpace", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.MoveTabToWindowSpace(ctx, 2, "work-b", 0))

		src, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{1, 3}, TabIDs(src))

		dst, err := store.PinnedTabs(ctx, "work-b")
		require.NoError(t, err)
		require.Equal(t, []int{2, 4}, TabIDs(dst))
		require.Equal(t, "work-b", dst[0].SpaceID)
		RequireDense(t, store, "work-a")
		RequireDense(t, store, "work-b")
	})

	t.Run("MoveGroupToSpaceClampsPosition", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.MoveTabToWindowSpace(ctx, 11, "work-b", 99))

		dst, err := store.TabGroups(ctx, "work-b")
		require.NoError(t, err)
		require.Equal(t, []int{20, 21, 11}, PrimaryIDs(dst))
		require.Equal(t, []int{11, 12}, TabIDs(dst[2].Tabs))
		for _, tab := range dst[2].Tabs {
			require.Equal(t, "work-b", tab.SpaceID)
		}

		src, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{10, 13}, PrimaryIDs(src))
		RequireDense(t, store, "work-a")
		RequireDense(t, store, "work-b")
	})

	t.Run("MoveToSpaceRefusesOtherProfile", func(t *testing.T) {
		store := seed(t)
		err := store.MoveTabToWindowSpace(ctx, 1, "home", 0)
		var cross *domain.CrossProfileMoveError
		require.ErrorAs(t, err, &cross)
		require.Equal(t, "work", cross.FromProfileID)
		require.Equal(t, "home", cross.ToProfileID)

		var notFound *domain.SpaceNotFoundError
		require.ErrorAs(t, store.MoveTabToWindowSpace(ctx, 1, "gone", 0), &notFound)
	})

	t.Run("ActiveTabGroup", func(t *testing.T) {
		store := seed(t)
		g, ok, err := store.ActiveTabGroup(ctx, "work-a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 10, g.PrimaryTab().ID)

		require.NoError(t, store.SwitchToTab(ctx, 12))
		g, ok, err = store.ActiveTabGroup(ctx, "work-a")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 11, g.PrimaryTab().ID)

		require.NoError(t, store.SwitchToTab(ctx, 1))
		_, ok, err = store.ActiveTabGroup(ctx, "work-a")
		require.NoError(t, err)
		require.False(t, ok, "a focused pinned tab has no group")
	})

	t.Run("TabActions", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.Navigate(ctx, 2, "https://cal.example.com"))
		require.NoError(t, store.PutToSleep(ctx, 2))
		tab, err := store.Tab(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, "https://cal.example.com", tab.URL)
		require.True(t, tab.Asleep)

		require.NoError(t, store.Reload(ctx, 2))
		tab, err = store.Tab(ctx, 2)
		require.NoError(t, err)
		require.False(t, tab.Asleep)
	})

	t.Run("CloseTabCompacts", func(t *testing.T) {
		store := seed(t)
		require.NoError(t, store.CloseTab(ctx, 1))
		require.NoError(t, store.CloseTab(ctx, 10))
		require.NoError(t, store.CloseTab(ctx, 11))

		pinned, err := store.PinnedTabs(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{2, 3}, TabIDs(pinned))

		groups, err := store.TabGroups(ctx, "work-a")
		require.NoError(t, err)
		require.Equal(t, []int{12, 13}, PrimaryIDs(groups))
		RequireDense(t, store, "work-a")

		_, err = store.Tab(ctx, 10)
		var notFound *domain.TabNotFoundError
		require.True(t, errors.As(err, &notFound))
	})
}

// TabIDs returns the ids of tabs in order.
func TabIDs(tabs []domain.Tab) []int {
	ids := make([]int, len(tabs))
	for i, t := range tabs {
		ids[i] = t.ID
	}
	return ids
}

// PrimaryIDs returns the primary tab id of each group in order.
func PrimaryIDs(groups []domain.TabGroup) []int {
	ids := make([]int, len(groups))
	for i, g := range groups {
		ids[i] = g.PrimaryTab().ID
	}
	return ids
}

// TestingT is satisfied by *testing.T and *rapid.T.
type TestingT interface {
	require.TestingT
	Helper()
}

// RequireDense fails unless both lists of a space are positioned 0..n-1.
func RequireDense(t TestingT, store domain.TabQuerier, spaceID string) {
	t.Helper()
	ctx := context.Background()

	pinned, err := store.PinnedTabs(ctx, spaceID)
	require.NoError(t, err)
	for i, tab := range pinned {
		require.Equal(t, i, tab.Position, "pinned tab %d of %s", tab.ID, spaceID)
	}

	groups, err := store.TabGroups(ctx, spaceID)
	require.NoError(t, err)
	for i, g := range groups {
		require.Equal(t, i, g.Position, "group %d of %s", g.ID, spaceID)
		for j, tab := range g.Tabs {
			require.Equal(t, j, tab.Position, "tab %d in group %d", tab.ID, g.ID)
		}
	}
}
