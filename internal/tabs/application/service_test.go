package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/flowbrowser/flowbar/internal/pubsub"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/testutil"
	"github.com/flowbrowser/flowbar/internal/tracing"
)

// deferred captures delayed work so tests can run it when they choose.
type deferred struct {
	delays []time.Duration
	funcs  []func()
}

func (d *deferred) afterFunc(delay time.Duration, f func()) {
	d.delays = append(d.delays, delay)
	d.funcs = append(d.funcs, f)
}

func (d *deferred) runAll() {
	for _, f := range d.funcs {
		f()
	}
	d.funcs = nil
}

func newService(t *testing.T, opts ...Option) (*Service, *testutil.MemoryStore) {
	t.Helper()
	store := testutil.NewBuilder(t).WithStandardTestData().Memory()
	svc := NewService(store, opts...)
	t.Cleanup(svc.Close)
	return svc, store
}

func nextEvent(t *testing.T, ch <-chan pubsub.Event[StoreEvent]) pubsub.Event[StoreEvent] {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for store event")
		return pubsub.Event[StoreEvent]{}
	}
}

func TestService_QueriesPassThrough(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pinned, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, testutil.TabIDs(pinned))

	groups, err := svc.TabGroups(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{10, 11, 13}, testutil.PrimaryIDs(groups))

	spaces, err := svc.Spaces(ctx, "work")
	require.NoError(t, err)
	require.Len(t, spaces, 2)

	_, err = svc.Space(ctx, "missing")
	var notFound *domain.SpaceNotFoundError
	require.ErrorAs(t, err, &notFound)

	active, ok, err := svc.ActiveTabGroup(ctx, "work-a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 10, active.PrimaryTab().ID)
}

func TestService_CacheServesStaleUntilRefresh(t *testing.T) {
	svc, store := newService(t, WithCache(true, time.Minute))
	ctx := context.Background()

	pinned, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, testutil.TabIDs(pinned))

	// A write that bypasses the service is invisible until a refresh.
	require.NoError(t, store.MoveTab(ctx, 1, 2))
	require.NoError(t, store.MoveTab(ctx, 3, 0))
	pinned, err = svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, testutil.TabIDs(pinned))

	svc.Refresh(ctx)
	pinned, err = svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{3, 2, 1}, testutil.TabIDs(pinned))
}

func TestService_CommandsInvalidateCache(t *testing.T) {
	svc, _ := newService(t, WithCache(true, time.Minute))
	ctx := context.Background()

	_, err := svc.TabGroups(ctx, "work-a")
	require.NoError(t, err)

	require.NoError(t, svc.SetTabPinned(ctx, 13, true))

	groups, err := svc.TabGroups(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{10, 11}, testutil.PrimaryIDs(groups))
	pinned, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3, 13}, testutil.TabIDs(pinned))
}

func TestService_CachedListsAreCopies(t *testing.T) {
	svc, _ := newService(t, WithCache(true, time.Minute))
	ctx := context.Background()

	pinned, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	pinned[0].ID = 999

	again, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, 1, again[0].ID)
}

func TestService_PublishesStoreEvents(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := svc.Broker().Subscribe(ctx)

	require.NoError(t, svc.MoveTabToWindowSpace(ctx, 2, "work-b", 1))
	ev := nextEvent(t, ch)
	require.Equal(t, pubsub.UpdatedEvent, ev.Type)
	require.Equal(t, StoreEvent{Op: OpMoveToSpace, TabID: 2, SpaceID: "work-b"}, ev.Payload)

	require.NoError(t, svc.CloseTab(ctx, 21))
	ev = nextEvent(t, ch)
	require.Equal(t, pubsub.DeletedEvent, ev.Type)
	require.Equal(t, StoreEvent{Op: OpClose, TabID: 21, SpaceID: "work-b"}, ev.Payload)

	svc.Refresh(ctx)
	ev = nextEvent(t, ch)
	require.Equal(t, pubsub.RefreshEvent, ev.Type)
	require.Equal(t, OpRefresh, ev.Payload.Op)
}

func TestService_FailedCommandPublishesNothing(t *testing.T) {
	svc, store := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := svc.Broker().Subscribe(ctx)

	boom := errors.New("database is locked")
	store.FailOn("MoveTab", boom)

	require.ErrorIs(t, svc.MoveTab(ctx, 1, 2), boom)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestService_DropperRunsThroughService(t *testing.T) {
	svc, store := newService(t, WithCache(true, time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := svc.Broker().Subscribe(ctx)

	pinned, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)

	res, err := reorder.NewDropper(svc).Drop(ctx, reorder.Request{
		Source: reorder.NewPinnedTabSource(pinned[0], 0),
		Target: reorder.PinnedTabTarget(pinned[2], 2),
		Edge:   reorder.EdgeBottom,
	})
	require.NoError(t, err)
	require.Equal(t, reorder.ActionReordered, res.Action)
	require.Len(t, store.Calls(), len(res.Commands))

	for range res.Commands {
		require.Equal(t, OpMoveTab, nextEvent(t, ch).Payload.Op)
	}

	after, err := svc.PinnedTabs(ctx, "work-a")
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 1}, testutil.TabIDs(after))
}

func TestService_PutPinnedTabToSleep_OnPinnedURL(t *testing.T) {
	later := &deferred{}
	svc, store := newService(t, WithAfterFunc(later.afterFunc))

	require.NoError(t, svc.PutPinnedTabToSleep(context.Background(), 1))
	require.Equal(t, []string{"PutToSleep(1)", "SwitchToTab(10)"}, store.Calls())
	require.Empty(t, later.funcs)
}

func TestService_PutPinnedTabToSleep_NavigatesBackFirst(t *testing.T) {
	later := &deferred{}
	svc, store := newService(t, WithAfterFunc(later.afterFunc), WithSleepDelay(75*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, svc.PutPinnedTabToSleep(ctx, 2))
	require.Equal(t, []string{"Navigate(2, https://cal.example.com)"}, store.Calls(),
		"focus stays until the tab sleeps")
	require.Equal(t, []time.Duration{75 * time.Millisecond}, later.delays)

	later.runAll()
	require.Equal(t, []string{
		"Navigate(2, https://cal.example.com)",
		"PutToSleep(2)",
		"SwitchToTab(10)",
	}, store.Calls())

	tab, err := store.Tab(ctx, 2)
	require.NoError(t, err)
	require.True(t, tab.Asleep)
	require.Equal(t, "https://cal.example.com", tab.URL)
}

func TestService_PutPinnedTabToSleep_KeepsFocusWhenDelayedSleepFails(t *testing.T) {
	later := &deferred{}
	svc, store := newService(t, WithAfterFunc(later.afterFunc))
	store.FailOn("PutToSleep", errors.New("tab crashed"))

	require.NoError(t, svc.PutPinnedTabToSleep(context.Background(), 2))
	later.runAll()
	require.NotContains(t, store.Calls(), "SwitchToTab(10)")
}

func TestService_PutPinnedTabToSleep_DefaultTimer(t *testing.T) {
	svc, store := newService(t, WithSleepDelay(time.Millisecond))

	require.NoError(t, svc.PutPinnedTabToSleep(context.Background(), 2))
	require.Eventually(t, func() bool {
		tab, err := store.Tab(context.Background(), 2)
		return err == nil && tab.Asleep
	}, time.Second, 5*time.Millisecond)
}

func TestService_PutPinnedTabToSleep_NoGroups(t *testing.T) {
	store := testutil.NewBuilder(t).
		WithSpace("solo").
		WithPinned("solo", 1).
		Memory()
	svc := NewService(store)
	t.Cleanup(svc.Close)

	require.NoError(t, svc.PutPinnedTabToSleep(context.Background(), 1))
	require.Equal(t, []string{"PutToSleep(1)"}, store.Calls())
}

func TestService_PutPinnedTabToSleep_Traced(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	svc, _ := newService(t, WithTracer(tp.Tracer("test")))

	require.NoError(t, svc.PutPinnedTabToSleep(context.Background(), 1))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanPutToSleep, spans[0].Name())
	require.Equal(t, tracing.AttrTabID, string(spans[0].Attributes()[0].Key))
	require.EqualValues(t, 1, spans[0].Attributes()[0].Value.AsInt64())
}

func TestService_PinnedActionsRejectUnpinnedTabs(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.PutPinnedTabToSleep(ctx, 10), ErrNotPinned)
	require.ErrorIs(t, svc.RenamePinnedTab(ctx, 10, "x"), ErrNotPinned)
	require.ErrorIs(t, svc.ResetPinnedTab(ctx, 10), ErrNotPinned)
	require.Empty(t, store.Calls())

	var notFound *domain.TabNotFoundError
	require.ErrorAs(t, svc.ResetPinnedTab(ctx, 404), &notFound)
}

func TestService_RenamePinnedTab(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RenamePinnedTab(ctx, 3, "  Team chat  "))
	tab, err := store.Tab(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Team chat", tab.PinnedName)
	require.Equal(t, "https://chat.example.com", tab.PinnedURL)
	require.Equal(t, "Team chat", tab.DisplayName())

	require.NoError(t, svc.RenamePinnedTab(ctx, 1, "   "))
	tab, err = store.Tab(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, tab.PinnedName)
	require.Equal(t, "https://mail.example.com", tab.PinnedURL)
	require.Equal(t, "Inbox", tab.DisplayName())

	require.Equal(t, []string{"SetTabPinned(3, true)", "SetTabPinned(1, true)"}, store.Calls())
}

func TestService_ResetPinnedTab(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.ResetPinnedTab(ctx, 2))
	require.NoError(t, svc.ResetPinnedTab(ctx, 4))
	require.Equal(t, []string{"Navigate(2, https://cal.example.com)", "Reload(4)"}, store.Calls())
}

func TestService_ClearSpace(t *testing.T) {
	tests := []struct {
		name   string
		space  string
		closed []string
	}{
		{
			name:   "keeps active group",
			space:  "work-a",
			closed: []string{"CloseTab(11)", "CloseTab(12)", "CloseTab(13)"},
		},
		{
			name:   "no active group closes everything",
			space:  "work-b",
			closed: []string{"CloseTab(20)", "CloseTab(21)"},
		},
		{
			name:   "single group is closed even when active",
			space:  "home",
			closed: []string{"CloseTab(30)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService(t)
			ctx := context.Background()

			n, err := svc.ClearSpace(ctx, tt.space)
			require.NoError(t, err)
			require.Equal(t, len(tt.closed), n)
			require.Equal(t, tt.closed, store.Calls())

			pinned, err := svc.PinnedTabs(ctx, tt.space)
			require.NoError(t, err)
			require.NotEmpty(t, pinned)
			testutil.RequireDense(t, svc, tt.space)
		})
	}
}

func TestService_ClearSpace_StopsOnError(t *testing.T) {
	svc, store := newService(t)
	boom := errors.New("gone")
	store.FailOn("CloseTab", boom)

	n, err := svc.ClearSpace(context.Background(), "work-b")
	require.ErrorIs(t, err, boom)
	require.Zero(t, n)
}
