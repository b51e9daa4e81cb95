package reorder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

func pinnedTab(id int, space, profile string) domain.Tab {
	return domain.Tab{ID: id, SpaceID: space, ProfileID: profile, IsPinned: true}
}

func group(id int, space, profile string, tabIDs ...int) domain.TabGroup {
	g := domain.TabGroup{ID: id, SpaceID: space, ProfileID: profile, Mode: domain.TabGroupModeNormal}
	for _, tid := range tabIDs {
		g.Tabs = append(g.Tabs, domain.Tab{ID: tid, SpaceID: space, ProfileID: profile})
	}
	return g
}

func TestCheck_Precedence(t *testing.T) {
	space := domain.Space{ID: "s1", ProfileID: "p1"}
	otherProfile := domain.Space{ID: "s9", ProfileID: "p2"}

	pinA := NewPinnedTabSource(pinnedTab(1, "s1", "p1"), 0)
	grpA := NewTabGroupSource(group(5, "s1", "p1", 10, 11), 0)

	tests := []struct {
		name   string
		src    Source
		target Target
		want   error
	}{
		{"no source", Source{}, PinnedListTarget(space, 1), ErrNoSource},
		{"pinned onto other profile", pinA, PinnedTabTarget(pinnedTab(2, "s9", "p2"), 0), ErrCrossProfile},
		{"group onto other profile tail", grpA, GroupListTarget(otherProfile, 0), ErrCrossProfile},
		{"pinned onto itself", pinA, PinnedTabTarget(pinnedTab(1, "s1", "p1"), 0), ErrSelfDrop},
		{"pinned onto other pinned", pinA, PinnedTabTarget(pinnedTab(2, "s1", "p1"), 1), nil},
		{"group onto pinned", grpA, PinnedTabTarget(pinnedTab(2, "s1", "p1"), 1), nil},
		{"pinned onto group", pinA, TabGroupTarget(group(6, "s1", "p1", 12), 1), nil},
		{"group onto itself", grpA, TabGroupTarget(group(5, "s1", "p1", 10, 11), 0), ErrSameGroup},
		{"group onto other group", grpA, TabGroupTarget(group(6, "s1", "p1", 12), 1), nil},
		{"group onto group in other space", grpA, TabGroupTarget(group(7, "s2", "p1", 20), 0), nil},
		{"pinned onto pinned tail", pinA, PinnedListTarget(space, 3), nil},
		{"pinned onto group tail", pinA, GroupListTarget(space, 3), nil},
		{"group onto pinned tail", grpA, PinnedListTarget(space, 3), nil},
		{"group onto group tail", grpA, GroupListTarget(space, 3), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.src, tt.target)
			if tt.want == nil {
				require.NoError(t, err)
				require.True(t, CanDrop(tt.src, tt.target))
				return
			}
			require.ErrorIs(t, err, tt.want)
			require.False(t, CanDrop(tt.src, tt.target))
		})
	}
}

func TestCheck_UnresolvedGroupComparesPrimary(t *testing.T) {
	// A bare tab does not know its group id.
	src := NewTabSource(domain.Tab{ID: 10, SpaceID: "s1", ProfileID: "p1"}, 0)
	require.Equal(t, SourceTabGroup, src.Kind())
	require.Zero(t, src.TabGroupID())

	own := TabGroupTarget(group(5, "s1", "p1", 10, 11), 0)
	require.ErrorIs(t, Check(src, own), ErrSameGroup)

	other := TabGroupTarget(group(6, "s1", "p1", 12), 1)
	require.NoError(t, Check(src, other))

	resolved := src.WithGroup(group(5, "s1", "p1", 10, 11))
	require.Equal(t, 5, resolved.TabGroupID())
	require.ErrorIs(t, Check(resolved, own), ErrSameGroup)
}

func TestCheck_NonPrimaryTabResolvesToPrimary(t *testing.T) {
	g := group(5, "s1", "p1", 10, 11)
	src := NewTabSource(g.Tabs[1], 0).WithGroup(g)
	require.Equal(t, 10, src.PrimaryTabID())
	require.Equal(t, 10, src.TabID())
	require.ErrorIs(t, Check(src, TabGroupTarget(g, 0)), ErrSameGroup)
}

func TestTarget_DropPosition(t *testing.T) {
	space := domain.Space{ID: "s1", ProfileID: "p1"}
	row := PinnedTabTarget(pinnedTab(2, "s1", "p1"), 3)
	require.Equal(t, 2.5, row.DropPosition(EdgeTop))
	require.Equal(t, 3.5, row.DropPosition(EdgeBottom))

	tail := GroupListTarget(space, 4)
	require.Equal(t, 4.0, tail.DropPosition(EdgeTop), "tail zones append regardless of edge")
	require.Equal(t, 4.0, tail.DropPosition(EdgeNone))
	require.False(t, tail.IsRow())
	require.False(t, tail.PinnedList())
	require.True(t, PinnedListTarget(space, 0).PinnedList())
}

func TestTarget_SameRow(t *testing.T) {
	a := TabGroupTarget(group(5, "s1", "p1", 10), 0)
	b := TabGroupTarget(group(5, "s1", "p1", 10), 3)
	c := TabGroupTarget(group(6, "s1", "p1", 11), 0)
	require.True(t, a.SameRow(b))
	require.False(t, a.SameRow(c))
}

func TestSource_Immutable(t *testing.T) {
	g := group(5, "s1", "p1", 10)
	src := NewTabSource(g.Tabs[0], 2)
	resolved := src.WithGroup(g)
	require.Zero(t, src.TabGroupID(), "WithGroup returns a copy")
	require.Equal(t, 5, resolved.TabGroupID())

	pinned := NewPinnedTabSource(pinnedTab(1, "s1", "p1"), 0)
	require.Equal(t, pinned, pinned.WithGroup(g), "pinned sources ignore group resolution")
	require.Contains(t, pinned.String(), "pinned-tab")
}
