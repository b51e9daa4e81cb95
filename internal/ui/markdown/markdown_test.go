package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/testutil"
)

func TestSpace(t *testing.T) {
	snap := testutil.NewBuilder(t).WithStandardTestData().Build()
	space := snap.Spaces[0]
	groups := snap.GroupsIn(space.ID)

	doc := Space(space, snap.PinnedIn(space.ID), groups, groups[0].ID)

	require.Contains(t, doc, "# Work\n")
	require.Contains(t, doc, "## Pinned (3)")
	require.Contains(t, doc, "1. Mail `#1`\n")
	require.Contains(t, doc, "2. Calendar `#2` (away from pinned URL)\n")
	require.Contains(t, doc, "## Tabs (3)")
	require.Contains(t, doc, "1. **Pull request \\#42 `#10`**\n")
	require.Contains(t, doc, "2. Design doc `#11` _(split)_\n   - Mockups `#12`\n")
	require.Contains(t, doc, "3. CI run `#13` (asleep)\n")
}

func TestSpace_Empty(t *testing.T) {
	doc := Space(domain.Space{ID: "s", ProfileID: "p", Name: "Empty"}, nil, nil, 0)
	require.Equal(t, 2, strings.Count(doc, "_none_"))
}

func TestRenderer(t *testing.T) {
	r, err := New("notty", 60)
	require.NoError(t, err)
	require.Equal(t, 60, r.Width())

	out, err := r.Render("# Title\n\n1. first\n")
	require.NoError(t, err)
	require.Contains(t, out, "Title")
	require.Contains(t, out, "first")
}
