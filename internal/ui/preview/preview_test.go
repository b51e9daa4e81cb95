package preview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/testutil"
)

func TestLines(t *testing.T) {
	snap := testutil.NewBuilder(t).WithStandardTestData().Build()
	space := snap.Spaces[1]

	require.Equal(t, []string{
		"[work-b] pinned #4 Docs",
		"[work-b] ----",
		"[work-b] group  #20 Paper",
		"[work-b] group  #21 Notes",
	}, Lines(space, snap.PinnedIn(space.ID), snap.GroupsIn(space.ID)))
}

func TestDiff(t *testing.T) {
	before := []string{"a", "b", "c"}
	after := []string{"b", "c", "a"}

	require.Equal(t, "- a\n  b\n  c\n+ a\n", Diff(before, after))
	require.True(t, Changed(before, after))
}

func TestDiff_Unchanged(t *testing.T) {
	lines := []string{"a", "b"}
	require.Equal(t, "  a\n  b\n", Diff(lines, lines))
	require.False(t, Changed(lines, lines))
}
