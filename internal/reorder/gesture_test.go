package reorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/testutil"
)

func TestGesture_Lifecycle(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))
	g.newID = func() string { return "gesture-1" }

	require.Equal(t, PhaseIdle, g.Phase())
	require.NoError(t, g.Start(loadSource(t, store, "work-a", 3)))
	require.Equal(t, PhaseDragging, g.Phase())
	require.True(t, g.Active())
	require.Equal(t, "gesture-1", g.ID())

	require.NoError(t, g.Hover(pinnedTarget(t, store, "work-a", 0), EdgeTop))
	require.Equal(t, PhaseHovering, g.Phase())
	require.Equal(t, EdgeTop, g.Edge())

	res, err := g.Drop(context.Background())
	require.NoError(t, err)
	require.Equal(t, ActionReordered, res.Action)
	require.Equal(t, "gesture-1", res.GestureID)
	require.Equal(t, PhaseIdle, g.Phase())
	require.Equal(t, PhaseDropped, g.LastPhase())
	require.True(t, g.Source().IsZero())

	pinned, err := store.PinnedTabs(context.Background(), "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{3, 1, 2}, testutil.TabIDs(pinned))
}

func TestGesture_AssignsFreshIDs(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 1)))
	first := g.ID()
	_, err := g.Cancel()
	require.NoError(t, err)

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 1)))
	require.NotEmpty(t, first)
	require.NotEqual(t, first, g.ID())
}

func TestGesture_RejectsOverlappingDrags(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 1)))
	require.ErrorIs(t, g.Start(loadSource(t, store, "work-a", 2)), ErrGestureInProgress)
	require.ErrorIs(t, g.Start(Source{}), ErrGestureInProgress)
}

func TestGesture_RequiresActiveDrag(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.ErrorIs(t, g.Start(Source{}), ErrNoSource)
	require.ErrorIs(t, g.Hover(pinnedTarget(t, store, "work-a", 0), EdgeTop), ErrNoGesture)
	require.ErrorIs(t, g.Leave(), ErrNoGesture)
	_, err := g.Drop(context.Background())
	require.ErrorIs(t, err, ErrNoGesture)
	_, err = g.Cancel()
	require.ErrorIs(t, err, ErrNoGesture)
}

func TestGesture_InadmissibleHoverShowsNoEdge(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 1)))
	require.NoError(t, g.Hover(pinnedTarget(t, store, "work-a", 0), EdgeBottom))
	require.Equal(t, PhaseHovering, g.Phase())
	require.Equal(t, EdgeNone, g.Edge())

	res, err := g.Drop(context.Background())
	require.NoError(t, err)
	require.Equal(t, ActionCancelled, res.Action)
	require.Equal(t, PhaseCancelled, g.LastPhase())
	require.Empty(t, store.Calls())
}

func TestGesture_LeaveThenDropCancels(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 10)))
	require.NoError(t, g.Hover(groupTarget(t, store, "work-a", 2), EdgeBottom))
	require.NoError(t, g.Leave())
	require.Equal(t, PhaseHovering, g.Phase())
	require.True(t, g.Target().IsZero())

	res, err := g.Drop(context.Background())
	require.NoError(t, err)
	require.Equal(t, ActionCancelled, res.Action)
	require.Empty(t, store.Calls())
}

func TestGesture_TailZoneAlwaysHasEdge(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))
	space, err := store.Space(context.Background(), "work-a")
	require.NoError(t, err)

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 10)))
	require.NoError(t, g.Hover(PinnedListTarget(space, 3), EdgeNone))
	require.Equal(t, EdgeBottom, g.Edge())

	res, err := g.Drop(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"setTabPinned(10, true)", "moveTab(10, 3)"}, commandStrings(res.Commands))
}

func TestGesture_CancelNeverReachesStore(t *testing.T) {
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	g := NewGesture(NewDropper(store))

	require.NoError(t, g.Start(loadSource(t, store, "work-a", 10)))
	require.NoError(t, g.Hover(groupTarget(t, store, "work-a", 2), EdgeBottom))
	res, err := g.Cancel()
	require.NoError(t, err)
	require.Equal(t, ActionCancelled, res.Action)
	require.Equal(t, PhaseIdle, g.Phase())
	require.Empty(t, store.Calls())
}
