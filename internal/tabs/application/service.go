package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowbrowser/flowbar/internal/cachemanager"
	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/pubsub"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/tracing"
)

// DefaultSleepDelay is how long a pinned tab gets to load its pinned URL
// before it is put to sleep.
const DefaultSleepDelay = 150 * time.Millisecond

// ErrNotPinned is returned by pinned-tab actions called on an unpinned tab.
var ErrNotPinned = errors.New("tab is not pinned")

type listKey string

func pinnedKey(spaceID string) listKey { return listKey("pinned:" + spaceID) }
func groupsKey(spaceID string) listKey { return listKey("groups:" + spaceID) }

// Service is a domain.Store with caching, change events and composite actions.
type Service struct {
	store  domain.Store
	pinned *cachemanager.ReadThroughCache[listKey, []domain.Tab, string]
	groups *cachemanager.ReadThroughCache[listKey, []domain.TabGroup, string]
	broker *pubsub.Broker[StoreEvent]
	tracer trace.Tracer

	sleepDelay time.Duration
	afterFunc  func(d time.Duration, f func())

	cacheEnabled bool
	cacheTTL     time.Duration
}

var _ domain.Store = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithCache turns the list cache on with the given entry lifetime.
func WithCache(enabled bool, ttl time.Duration) Option {
	return func(s *Service) {
		s.cacheEnabled = enabled
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithSleepDelay sets the navigate-then-sleep delay.
func WithSleepDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.sleepDelay = d
		}
	}
}

// WithTracer records a span for each composite action.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithAfterFunc replaces time.AfterFunc for the delayed sleep.
func WithAfterFunc(fn func(d time.Duration, f func())) Option {
	return func(s *Service) {
		s.afterFunc = fn
	}
}

// NewService wraps store. The cache is off unless WithCache enables it.
func NewService(store domain.Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		broker:     pubsub.NewBroker[StoreEvent](),
		tracer:     tracing.NoopTracer(),
		sleepDelay: DefaultSleepDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		cacheTTL: cachemanager.DefaultExpiration,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.pinned = cachemanager.NewReadThroughCache(
		cachemanager.NewInMemoryCacheManager[listKey, []domain.Tab]("pinned-tabs", s.cacheTTL, cachemanager.DefaultCleanupInterval),
		store.PinnedTabs,
		s.cacheTTL,
		!s.cacheEnabled,
	)
	s.groups = cachemanager.NewReadThroughCache(
		cachemanager.NewInMemoryCacheManager[listKey, []domain.TabGroup]("tab-groups", s.cacheTTL, cachemanager.DefaultCleanupInterval),
		store.TabGroups,
		s.cacheTTL,
		!s.cacheEnabled,
	)
	return s
}

// Broker returns the broker StoreEvents are published on.
func (s *Service) Broker() *pubsub.Broker[StoreEvent] {
	return s.broker
}

// Close shuts the broker down.
func (s *Service) Close() {
	s.broker.Close()
}

// Refresh drops cached lists and tells listeners to reload. Called when the
// database changed outside this process.
func (s *Service) Refresh(ctx context.Context) {
	s.invalidate(ctx)
	s.broker.Publish(pubsub.RefreshEvent, StoreEvent{Op: OpRefresh})
}

// Queries

func (s *Service) PinnedTabs(ctx context.Context, spaceID string) ([]domain.Tab, error) {
	tabs, err := s.pinned.Get(ctx, pinnedKey(spaceID), spaceID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(tabs), nil
}

func (s *Service) TabGroups(ctx context.Context, spaceID string) ([]domain.TabGroup, error) {
	groups, err := s.groups.Get(ctx, groupsKey(spaceID), spaceID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(groups), nil
}

func (s *Service) Spaces(ctx context.Context, profileID string) ([]domain.Space, error) {
	return s.store.Spaces(ctx, profileID)
}

func (s *Service) Space(ctx context.Context, spaceID string) (domain.Space, error) {
	return s.store.Space(ctx, spaceID)
}

func (s *Service) Tab(ctx context.Context, tabID int) (domain.Tab, error) {
	return s.store.Tab(ctx, tabID)
}

func (s *Service) ActiveTabGroup(ctx context.Context, spaceID string) (domain.TabGroup, bool, error) {
	return s.store.ActiveTabGroup(ctx, spaceID)
}

// Commands

func (s *Service) MoveTab(ctx context.Context, tabID int, newPosition int) error {
	return s.command(ctx, OpMoveTab, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.MoveTab(ctx, tabID, newPosition)
	})
}

func (s *Service) SetTabPinned(ctx context.Context, tabID int, pinned bool, opts ...domain.PinOption) error {
	return s.command(ctx, OpSetPinned, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.SetTabPinned(ctx, tabID, pinned, opts...)
	})
}

func (s *Service) MoveTabToWindowSpace(ctx context.Context, tabID int, spaceID string, newPosition int) error {
	return s.command(ctx, OpMoveToSpace, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.MoveTabToWindowSpace(ctx, tabID, spaceID, newPosition)
	})
}

func (s *Service) Navigate(ctx context.Context, tabID int, url string) error {
	return s.command(ctx, OpNavigate, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.Navigate(ctx, tabID, url)
	})
}

func (s *Service) Reload(ctx context.Context, tabID int) error {
	return s.command(ctx, OpReload, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.Reload(ctx, tabID)
	})
}

func (s *Service) PutToSleep(ctx context.Context, tabID int) error {
	return s.command(ctx, OpSleep, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.PutToSleep(ctx, tabID)
	})
}

func (s *Service) SwitchToTab(ctx context.Context, tabID int) error {
	return s.command(ctx, OpSwitch, pubsub.UpdatedEvent, tabID, func() error {
		return s.store.SwitchToTab(ctx, tabID)
	})
}

func (s *Service) CloseTab(ctx context.Context, tabID int) error {
	return s.command(ctx, OpClose, pubsub.DeletedEvent, tabID, func() error {
		return s.store.CloseTab(ctx, tabID)
	})
}

// command runs fn, then invalidates the cache and publishes an event. The
// cache is flushed even when fn fails since a transaction may have partially
// applied in a store without one.
func (s *Service) command(ctx context.Context, op Op, eventType pubsub.EventType, tabID int, fn func() error) error {
	var spaceID string
	if t, err := s.store.Tab(ctx, tabID); err == nil {
		spaceID = t.SpaceID
	}

	err := fn()
	s.invalidate(ctx)
	if err != nil {
		log.ErrorErr(log.CatStore, "store command failed", err, "op", string(op), "tab", tabID)
		return err
	}

	// Space moves report the destination.
	if t, lookupErr := s.store.Tab(ctx, tabID); lookupErr == nil {
		spaceID = t.SpaceID
	}
	log.Debug(log.CatStore, "applied", "op", string(op), "tab", tabID, "space", spaceID)
	s.broker.Publish(eventType, StoreEvent{Op: op, TabID: tabID, SpaceID: spaceID})
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.pinned.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "flush pinned cache", err)
	}
	if err := s.groups.Invalidate(ctx); err != nil {
		log.ErrorErr(log.CatCache, "flush group cache", err)
	}
}

// Composite actions

// PutPinnedTabToSleep returns a pinned tab to its pinned URL and sleeps it,
// then focuses the first unpinned tab of its space.
//
// A tab that navigated away from its pinned URL is sent back first. Sleep and
// focus then follow after the sleep delay, in the background, and their
// errors are logged.
func (s *Service) PutPinnedTabToSleep(ctx context.Context, tabID int) (err error) {
	ctx, span := s.startSpan(ctx, tracing.SpanPutToSleep, tabID)
	defer func() { endSpan(span, err) }()

	tab, err := s.pinnedTab(ctx, tabID)
	if err != nil {
		return err
	}

	if !tab.HasDriftedFromPinnedURL() {
		if err := s.PutToSleep(ctx, tabID); err != nil {
			return err
		}
		return s.focusFirstUnpinned(ctx, tab.SpaceID)
	}

	if err := s.Navigate(ctx, tabID, tab.PinnedURL); err != nil {
		return fmt.Errorf("navigate to pinned url: %w", err)
	}
	bg := context.WithoutCancel(ctx)
	s.afterFunc(s.sleepDelay, func() {
		if err := s.PutToSleep(bg, tabID); err != nil {
			log.ErrorErr(log.CatStore, "delayed sleep failed", err, "tab", tabID)
			return
		}
		if err := s.focusFirstUnpinned(bg, tab.SpaceID); err != nil {
			log.ErrorErr(log.CatStore, "focus after sleep failed", err, "tab", tabID)
		}
	})
	return nil
}

// focusFirstUnpinned switches to the first tab group of spaceID, if any.
func (s *Service) focusFirstUnpinned(ctx context.Context, spaceID string) error {
	groups, err := s.TabGroups(ctx, spaceID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}
	return s.SwitchToTab(ctx, groups[0].PrimaryTab().ID)
}

// RenamePinnedTab sets the custom name of a pinned tab. The name is trimmed;
// an empty name clears it. The pinned URL is kept, or taken from the current
// URL when the tab has none.
func (s *Service) RenamePinnedTab(ctx context.Context, tabID int, name string) error {
	tab, err := s.pinnedTab(ctx, tabID)
	if err != nil {
		return err
	}
	url := tab.PinnedURL
	if url == "" {
		url = tab.URL
	}
	return s.SetTabPinned(ctx, tabID, true,
		domain.WithPinnedURL(url),
		domain.WithPinnedName(strings.TrimSpace(name)),
	)
}

// ResetPinnedTab navigates a pinned tab back to its pinned URL, or reloads it
// when it has none.
func (s *Service) ResetPinnedTab(ctx context.Context, tabID int) error {
	tab, err := s.pinnedTab(ctx, tabID)
	if err != nil {
		return err
	}
	if tab.PinnedURL == "" {
		return s.Reload(ctx, tabID)
	}
	return s.Navigate(ctx, tabID, tab.PinnedURL)
}

// ClearSpace closes the tabs of every group of a space except the active
// group. When the space has a single group it is closed too. Pinned tabs are
// never touched. Returns the number of closed tabs.
func (s *Service) ClearSpace(ctx context.Context, spaceID string) (int, error) {
	groups, err := s.TabGroups(ctx, spaceID)
	if err != nil {
		return 0, err
	}
	active, hasActive, err := s.ActiveTabGroup(ctx, spaceID)
	if err != nil {
		return 0, err
	}
	closeActive := len(groups) <= 1

	closed := 0
	for _, g := range groups {
		if !closeActive && hasActive && g.ID == active.ID {
			continue
		}
		for _, t := range g.Tabs {
			if err := s.CloseTab(ctx, t.ID); err != nil {
				return closed, fmt.Errorf("clear space %s: %w", spaceID, err)
			}
			closed++
		}
	}
	log.Info(log.CatStore, "cleared space", "space", spaceID, "closed", closed)
	return closed, nil
}

func (s *Service) pinnedTab(ctx context.Context, tabID int) (domain.Tab, error) {
	tab, err := s.store.Tab(ctx, tabID)
	if err != nil {
		return domain.Tab{}, err
	}
	if !tab.IsPinned {
		return domain.Tab{}, fmt.Errorf("tab %d: %w", tabID, ErrNotPinned)
	}
	return tab, nil
}

func (s *Service) startSpan(ctx context.Context, name string, tabID int) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.Int(tracing.AttrTabID, tabID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
