package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

func TestBuilder_DensePositions(t *testing.T) {
	snap := NewBuilder(t).
		WithSpace("s1").
		WithPinned("s1", 1).
		WithPinned("s1", 2).
		WithTab("s1", 10).
		WithGroup("s1", []int{11, 12, 13}).
		Build()

	require.Len(t, snap.Spaces, 1)
	require.Equal(t, DefaultProfile, snap.Spaces[0].ProfileID)

	pinned := snap.PinnedIn("s1")
	require.Equal(t, []int{1, 2}, TabIDs(pinned))
	require.Equal(t, 0, pinned[0].Position)
	require.Equal(t, 1, pinned[1].Position)

	groups := snap.GroupsIn("s1")
	require.Equal(t, []int{10, 11}, PrimaryIDs(groups))
	require.Equal(t, 1, groups[1].Position)
	require.Equal(t, []int{11, 12, 13}, TabIDs(groups[1].Tabs))
	require.Equal(t, 2, groups[1].Tabs[2].Position)
}

func TestBuilder_Options(t *testing.T) {
	snap := NewBuilder(t).
		WithSpace("s1", InProfile("p"), SpaceName("Work"), SpaceColor("#fff")).
		WithPinned("s1", 1, Title("Mail"), URL("https://m"), PinnedURL("https://m"), PinnedName("Inbox"), Active()).
		WithGroup("s1", []int{2, 3}, GlanceFront(3), GroupTab(3, Asleep(), Muted())).
		Build()

	require.Equal(t, "Work", snap.Spaces[0].Name)
	require.Equal(t, "#fff", snap.Spaces[0].BgStartColor)

	tab := snap.Pinned[0]
	require.Equal(t, "p", tab.ProfileID)
	require.True(t, tab.IsPinned)
	require.Equal(t, "Inbox", tab.DisplayName())
	require.NotEmpty(t, tab.UniqueID)
	require.Equal(t, 1, snap.Active["s1"])

	g := snap.Groups[0]
	require.Equal(t, domain.TabGroupModeGlance, g.Mode)
	require.Equal(t, 3, g.GlanceFrontTabID)
	require.True(t, g.Tabs[1].Asleep)
	require.True(t, g.Tabs[1].Muted)
	require.False(t, g.Tabs[0].Asleep)
}

func TestBuilder_GroupIDsFollowSpaceOrder(t *testing.T) {
	snap := NewBuilder(t).
		WithSpace("a").
		WithSpace("b").
		WithTab("b", 20).
		WithTab("a", 10).
		WithTab("a", 11).
		Build()

	require.Equal(t, []int{1, 2, 3}, []int{snap.Groups[0].ID, snap.Groups[1].ID, snap.Groups[2].ID})
	require.Equal(t, "a", snap.Groups[0].SpaceID)
	require.Equal(t, "b", snap.Groups[2].SpaceID)
}

func TestBuilder_StableUniqueIDs(t *testing.T) {
	a := NewBuilder(t).WithSpace("s").WithPinned("s", 7).Build()
	b := NewBuilder(t).WithSpace("s").WithPinned("s", 7).Build()
	require.Equal(t, a.Pinned[0].UniqueID, b.Pinned[0].UniqueID)
}
