package reorder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/testutil"
)

func commandStrings(cmds []Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.String()
	}
	return out
}

func TestEngine_MovePinnedTab(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	engine := NewEngine(store)

	cmds, err := engine.MovePinnedTab(context.Background(), "work-a", 1, FractionalPosition(2, EdgeBottom))
	require.NoError(t, err)
	require.Equal(t, []string{"moveTab(2, 0)", "moveTab(3, 1)", "moveTab(1, 2)"}, commandStrings(cmds))
	require.Equal(t, []string{"MoveTab(2, 0)", "MoveTab(3, 1)", "MoveTab(1, 2)"}, store.Calls())

	pinned, err := store.PinnedTabs(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 1}, testutil.TabIDs(pinned))
	testutil.RequireDense(t, store, "work-a")
}

func TestEngine_MovePinnedTab_Idempotent(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	engine := NewEngine(store)
	ctx := context.Background()
	key := FractionalPosition(0, EdgeTop)

	_, err := engine.MovePinnedTab(ctx, "work-a", 3, key)
	require.NoError(t, err)
	store.ResetCalls()

	cmds, err := engine.MovePinnedTab(ctx, "work-a", 3, key)
	require.NoError(t, err)
	require.Empty(t, cmds)
	require.Empty(t, store.Calls())
}

func TestEngine_MoveTabGroup_ByAnyMemberTab(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	engine := NewEngine(store)

	// 12 is the second tab of the split group led by 11.
	cmds, err := engine.MoveTabGroup(context.Background(), "work-a", 12, FractionalPosition(0, EdgeTop))
	require.NoError(t, err)
	require.Equal(t, []string{"moveTab(11, 0)", "moveTab(10, 1)"}, commandStrings(cmds))

	groups, err := store.TabGroups(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{11, 10, 13}, testutil.PrimaryIDs(groups))
}

func TestEngine_PinAndMove_PinsBeforePositioning(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	engine := NewEngine(store)

	cmds, err := engine.PinAndMove(context.Background(), "work-a", 13, FractionalPosition(1, EdgeTop))
	require.NoError(t, err)
	require.Equal(t, []string{
		"setTabPinned(13, true)",
		"moveTab(13, 1)",
		"moveTab(2, 2)",
		"moveTab(3, 3)",
	}, commandStrings(cmds))

	pinned, err := store.PinnedTabs(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 13, 2, 3}, testutil.TabIDs(pinned))

	groups, err := store.TabGroups(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{10, 11}, testutil.PrimaryIDs(groups))
	testutil.RequireDense(t, store, "work-a")
}

func TestEngine_UnpinAndMove(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	engine := NewEngine(store)

	cmds, err := engine.UnpinAndMove(context.Background(), "work-a", 2, FractionalPosition(0, EdgeTop))
	require.NoError(t, err)
	require.Equal(t, []string{
		"setTabPinned(2, false)",
		"moveTab(2, 0)",
		"moveTab(10, 1)",
		"moveTab(11, 2)",
		"moveTab(13, 3)",
	}, commandStrings(cmds))

	groups, err := store.TabGroups(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{2, 10, 11, 13}, testutil.PrimaryIDs(groups))

	pinned, err := store.PinnedTabs(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, testutil.TabIDs(pinned))
	testutil.RequireDense(t, store, "work-a")
}

func TestEngine_StopsAtFirstFailure(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	boom := errors.New("disk full")
	store.FailOn("MoveTab", boom)

	cmds, err := NewEngine(store).PinAndMove(context.Background(), "work-a", 10, FractionalPosition(0, EdgeTop))
	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"setTabPinned(10, true)"}, commandStrings(cmds), "only accepted commands are reported")
	require.Equal(t, []string{"SetTabPinned(10, true)", "MoveTab(10, 0)"}, store.Calls())
}

func TestEngine_QueryFailure(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	boom := errors.New("locked")
	store.FailOn("TabGroups", boom)

	cmds, err := NewEngine(store).MoveTabGroup(context.Background(), "work-a", 10, 2.5)
	require.ErrorIs(t, err, boom)
	require.Empty(t, cmds)
	require.Empty(t, store.Calls())
}

func TestRecorder_DryRun(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	rec := NewRecorder(store)

	cmds, err := NewEngine(rec).MovePinnedTab(context.Background(), "work-a", 3, FractionalPosition(0, EdgeTop))
	require.NoError(t, err)
	require.Equal(t, cmds, rec.Commands)
	require.Empty(t, store.Calls(), "recorder never writes")

	require.NoError(t, Replay(context.Background(), store, rec.Commands))
	pinned, err := store.PinnedTabs(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{3, 1, 2}, testutil.TabIDs(pinned))
}

func TestReplay_StopsAtFailure(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	store.FailOn("SetTabPinned", errors.New("locked"))

	err := Replay(context.Background(), store, []Command{
		{Kind: CmdSetTabPinned, TabID: 10, Pinned: true},
		{Kind: CmdMoveTab, TabID: 10, Position: 0},
	})
	require.Error(t, err)
	require.Equal(t, []string{"SetTabPinned(10, true)"}, store.Calls())

	require.Error(t, Replay(context.Background(), store, []Command{{Kind: "bogus"}}))
}
