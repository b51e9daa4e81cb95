package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/config"
	"github.com/flowbrowser/flowbar/internal/testutil"
)

func newBackend(t *testing.T) *backend {
	t.Helper()
	c := config.Defaults()
	c.DBPath = filepath.Join(t.TempDir(), "tabs.db")

	rt, err := openBackend(c)
	require.NoError(t, err)
	t.Cleanup(rt.shutdown)
	return rt
}

func seededBackend(t *testing.T) *backend {
	t.Helper()
	rt := newBackend(t)
	require.NoError(t, seedDemo(context.Background(), &bytes.Buffer{}, rt, false))
	return rt
}

func pinned(t *testing.T, rt *backend, spaceID string) []int {
	t.Helper()
	tabs, err := rt.service.PinnedTabs(context.Background(), spaceID)
	require.NoError(t, err)
	return testutil.TabIDs(tabs)
}

func TestOpenBackend_RejectsInvalidConfig(t *testing.T) {
	c := config.Defaults()
	c.DBPath = filepath.Join(t.TempDir(), "tabs.db")
	c.Tracing.Enabled = true
	c.Tracing.Exporter = "carrier-pigeon"

	_, err := openBackend(c)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestSeedDemo(t *testing.T) {
	rt := newBackend(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seedDemo(ctx, &out, rt, false))
	require.Contains(t, out.String(), "3 spaces, 5 pinned tabs, 7 tab groups")
	require.Equal(t, []int{1, 2, 3}, pinned(t, rt, "work"))

	err := seedDemo(ctx, &out, rt, false)
	require.ErrorContains(t, err, "use --force")

	require.NoError(t, seedDemo(ctx, &out, rt, true))
}

func TestListTabs_Plain(t *testing.T) {
	rt := seededBackend(t)

	var out bytes.Buffer
	require.NoError(t, listTabs(context.Background(), &out, rt, listOptions{plain: true, profile: "personal"}))

	doc := out.String()
	require.Contains(t, doc, "# Work\n")
	require.Contains(t, doc, "# Reading\n")
	require.NotContains(t, doc, "# Side project")
	require.Contains(t, doc, "1. Mail `#1`")
	require.Contains(t, doc, "\n---\n")
}

func TestListTabs_OneSpaceRendered(t *testing.T) {
	rt := seededBackend(t)

	var out bytes.Buffer
	require.NoError(t, listTabs(context.Background(), &out, rt, listOptions{space: "reading", style: "notty", width: 60}))

	doc := out.String()
	require.Contains(t, doc, "Reading")
	require.Contains(t, doc, "Feeds")
	require.NotContains(t, doc, "Mail")
}

func TestListTabs_Empty(t *testing.T) {
	rt := newBackend(t)

	var out bytes.Buffer
	require.NoError(t, listTabs(context.Background(), &out, rt, listOptions{}))
	require.Contains(t, out.String(), "flowbar seed")
}

func TestDropTab(t *testing.T) {
	tests := []struct {
		name       string
		opts       dropOptions
		wantOutput []string
		wantPinned map[string][]int
	}{
		{
			name:       "pinned below pinned",
			opts:       dropOptions{tab: 1, ontoTab: 3, edge: "bottom"},
			wantOutput: []string{"reordered", "moveTab(2, 0)", "moveTab(3, 1)", "moveTab(1, 2)"},
			wantPinned: map[string][]int{"work": {2, 3, 1}},
		},
		{
			name:       "pinned above pinned",
			opts:       dropOptions{tab: 3, ontoTab: 1, edge: "top"},
			wantOutput: []string{"reordered"},
			wantPinned: map[string][]int{"work": {3, 1, 2}},
		},
		{
			name:       "group onto the end of the pinned list",
			opts:       dropOptions{tab: 12, ontoEnd: "pinned", edge: "bottom"},
			wantOutput: []string{"reordered", "setTabPinned(11, true)"},
			wantPinned: map[string][]int{"work": {1, 2, 3, 11}},
		},
		{
			name:       "pinned into another space",
			opts:       dropOptions{tab: 1, ontoEnd: "groups", space: "reading", edge: "bottom"},
			wantOutput: []string{"moved-to-space", "setTabPinned(1, false)", "moveTabToWindowSpace(1, reading, 2)"},
			wantPinned: map[string][]int{"work": {2, 3}, "reading": {4}},
		},
		{
			name:       "other profile",
			opts:       dropOptions{tab: 1, ontoTab: 5, edge: "top"},
			wantOutput: []string{"unsupported"},
			wantPinned: map[string][]int{"work": {1, 2, 3}, "side": {5}},
		},
		{
			name:       "onto itself",
			opts:       dropOptions{tab: 2, ontoTab: 2, edge: "top"},
			wantOutput: []string{"rejected"},
			wantPinned: map[string][]int{"work": {1, 2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := seededBackend(t)

			var out bytes.Buffer
			require.NoError(t, dropTab(context.Background(), &out, rt, tt.opts))
			for _, want := range tt.wantOutput {
				require.Contains(t, out.String(), want)
			}
			for space, ids := range tt.wantPinned {
				require.Equal(t, ids, pinned(t, rt, space), space)
			}
		})
	}
}

func TestDropTab_DryRunLeavesDatabaseAlone(t *testing.T) {
	rt := seededBackend(t)

	var out bytes.Buffer
	require.NoError(t, dropTab(context.Background(), &out, rt,
		dropOptions{tab: 1, ontoTab: 3, edge: "bottom", dryRun: true}))

	require.Contains(t, out.String(), "moveTab(1, 2)")
	require.Contains(t, out.String(), "- [work] pinned #1 Mail\n")
	require.Contains(t, out.String(), "+ [work] pinned #1 Mail\n")
	require.Equal(t, []int{1, 2, 3}, pinned(t, rt, "work"))
}

func TestDropTab_DryRunAcrossSpaces(t *testing.T) {
	rt := seededBackend(t)

	var out bytes.Buffer
	require.NoError(t, dropTab(context.Background(), &out, rt,
		dropOptions{tab: 10, ontoTab: 4, edge: "top", dryRun: true}))

	require.Contains(t, out.String(), "moved-to-space")
	require.Contains(t, out.String(), "- [work] group  #10")
	require.Contains(t, out.String(), "+ [reading] pinned #10")
	require.Equal(t, []int{4}, pinned(t, rt, "reading"))
}

func TestDropTab_Errors(t *testing.T) {
	rt := seededBackend(t)
	ctx := context.Background()

	require.Error(t, dropTab(ctx, &bytes.Buffer{}, rt, dropOptions{tab: 999, ontoTab: 1, edge: "top"}))
	require.ErrorContains(t, dropTab(ctx, &bytes.Buffer{}, rt, dropOptions{tab: 1, ontoTab: 3, edge: "middle"}), "invalid --edge")
	require.ErrorContains(t, dropTab(ctx, &bytes.Buffer{}, rt, dropOptions{tab: 1, ontoEnd: "sideways", edge: "top"}), "invalid --onto-end")
}

func TestConfigPath_FallsBackToUserConfig(t *testing.T) {
	require.Equal(t, "config.yaml", filepath.Base(configPath()))
}
