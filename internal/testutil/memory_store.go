package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// MemoryStore is an in-memory domain.Store with the same list semantics as
// the SQLite store. It records every mutating call and can be told to fail.
type MemoryStore struct {
	mu          sync.Mutex
	spaces      map[string]domain.Space
	tabs        map[int]*domain.Tab
	groups      map[int]*memGroup
	active      map[string]int
	nextGroupID int

	calls    []string
	failures map[string]error
	now      func() time.Time
}

type memGroup struct {
	id          int
	mode        domain.TabGroupMode
	profileID   string
	spaceID     string
	tabIDs      []int
	glanceFront int
	position    int
}

var _ domain.Store = (*MemoryStore)(nil)

// NewMemoryStore loads snap into a new store.
func NewMemoryStore(snap domain.Snapshot) *MemoryStore {
	s := &MemoryStore{
		spaces:   make(map[string]domain.Space),
		tabs:     make(map[int]*domain.Tab),
		groups:   make(map[int]*memGroup),
		active:   make(map[string]int),
		failures: make(map[string]error),
		now:      time.Now,
	}
	for _, sp := range snap.Spaces {
		s.spaces[sp.ID] = sp
	}
	for _, t := range snap.Pinned {
		tab := t
		s.tabs[t.ID] = &tab
	}
	for _, g := range snap.Groups {
		mg := &memGroup{
			id:          g.ID,
			mode:        g.Mode,
			profileID:   g.ProfileID,
			spaceID:     g.SpaceID,
			glanceFront: g.GlanceFrontTabID,
			position:    g.Position,
		}
		for _, t := range g.Tabs {
			tab := t
			s.tabs[t.ID] = &tab
			mg.tabIDs = append(mg.tabIDs, t.ID)
		}
		s.groups[g.ID] = mg
		if g.ID > s.nextGroupID {
			s.nextGroupID = g.ID
		}
	}
	for space, tabID := range snap.Active {
		s.active[space] = tabID
	}
	return s
}

// FailOn makes every later call of op (e.g. "MoveTab") return err.
// A nil err clears the failure.
func (s *MemoryStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns the mutating calls made so far, formatted like "MoveTab(1, 2)".
func (s *MemoryStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// ResetCalls forgets recorded calls.
func (s *MemoryStore) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Snapshot returns the current state, lists ordered by position.
func (s *MemoryStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{Active: make(map[string]int)}
	for _, sp := range s.spaceList("") {
		snap.Spaces = append(snap.Spaces, sp)
		snap.Pinned = append(snap.Pinned, s.pinnedList(sp.ID)...)
		snap.Groups = append(snap.Groups, s.groupList(sp.ID)...)
	}
	for k, v := range s.active {
		snap.Active[k] = v
	}
	return snap
}

func (s *MemoryStore) record(op string, format string, args ...any) error {
	s.calls = append(s.calls, op+"("+fmt.Sprintf(format, args...)+")")
	return s.failures[op]
}

// Queries

func (s *MemoryStore) TabGroups(_ context.Context, spaceID string) ([]domain.TabGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["TabGroups"]; err != nil {
		return nil, err
	}
	return s.groupList(spaceID), nil
}

func (s *MemoryStore) PinnedTabs(_ context.Context, spaceID string) ([]domain.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["PinnedTabs"]; err != nil {
		return nil, err
	}
	return s.pinnedList(spaceID), nil
}

func (s *MemoryStore) Spaces(_ context.Context, profileID string) ([]domain.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spaceList(profileID), nil
}

func (s *MemoryStore) Space(_ context.Context, spaceID string) (domain.Space, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[spaceID]
	if !ok {
		return domain.Space{}, &domain.SpaceNotFoundError{SpaceID: spaceID}
	}
	return sp, nil
}

func (s *MemoryStore) Tab(_ context.Context, tabID int) (domain.Tab, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tabs[tabID]
	if !ok {
		return domain.Tab{}, &domain.TabNotFoundError{TabID: tabID}
	}
	return *t, nil
}

func (s *MemoryStore) ActiveTabGroup(_ context.Context, spaceID string) (domain.TabGroup, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tabID, ok := s.active[spaceID]
	if !ok {
		return domain.TabGroup{}, false, nil
	}
	g := s.groupOf(tabID)
	if g == nil {
		return domain.TabGroup{}, false, nil
	}
	return s.toGroup(g), true, nil
}

// Commands

func (s *MemoryStore) MoveTab(_ context.Context, tabID int, newPosition int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("MoveTab", "%d, %d", tabID, newPosition); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	if t.IsPinned {
		t.Position = newPosition
		return nil
	}
	if g := s.groupOf(tabID); g != nil {
		g.position = newPosition
	}
	return nil
}

func (s *MemoryStore) SetTabPinned(_ context.Context, tabID int, pinned bool, opts ...domain.PinOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SetTabPinned", "%d, %t", tabID, pinned); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	settings := domain.ApplyPinOptions(opts...)

	switch {
	case pinned && t.IsPinned:
		applyPinSettings(t, settings)
	case pinned:
		s.detachFromGroup(tabID)
		t.IsPinned = true
		t.Position = s.countPinned(t.SpaceID, tabID)
		t.PinnedURL = t.URL
		applyPinSettings(t, settings)
	case t.IsPinned:
		t.IsPinned = false
		t.PinnedURL = ""
		t.PinnedName = ""
		s.compactPinned(t.SpaceID)
		s.nextGroupID++
		s.groups[s.nextGroupID] = &memGroup{
			id:        s.nextGroupID,
			mode:      domain.TabGroupModeNormal,
			profileID: t.ProfileID,
			spaceID:   t.SpaceID,
			tabIDs:    []int{tabID},
			position:  len(s.groupList(t.SpaceID)),
		}
		t.Position = 0
	}
	return nil
}

func (s *MemoryStore) MoveTabToWindowSpace(_ context.Context, tabID int, spaceID string, newPosition int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("MoveTabToWindowSpace", "%d, %s, %d", tabID, spaceID, newPosition); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	dest, ok := s.spaces[spaceID]
	if !ok {
		return &domain.SpaceNotFoundError{SpaceID: spaceID}
	}
	if dest.ProfileID != t.ProfileID {
		return &domain.CrossProfileMoveError{TabID: tabID, FromProfileID: t.ProfileID, ToProfileID: dest.ProfileID}
	}

	if t.IsPinned {
		from := t.SpaceID
		t.SpaceID = spaceID
		t.Position = -1
		s.compactPinned(from)
		pos := clampInsert(newPosition, len(s.pinnedList(spaceID)))
		for _, other := range s.tabs {
			if other.IsPinned && other.SpaceID == spaceID && other.ID != tabID && other.Position >= pos {
				other.Position++
			}
		}
		t.Position = pos
		if s.active[from] == tabID {
			delete(s.active, from)
		}
		return nil
	}

	g := s.groupOf(tabID)
	if g == nil {
		return fmt.Errorf("tab %d has no group", tabID)
	}
	from := g.spaceID
	g.spaceID = spaceID
	g.position = -1
	for _, id := range g.tabIDs {
		s.tabs[id].SpaceID = spaceID
	}
	s.compactGroups(from)
	pos := clampInsert(newPosition, len(s.groupList(spaceID)))
	for _, other := range s.groups {
		if other.spaceID == spaceID && other.id != g.id && other.position >= pos {
			other.position++
		}
	}
	g.position = pos
	if s.active[from] == tabID {
		delete(s.active, from)
	}
	return nil
}

func (s *MemoryStore) Navigate(_ context.Context, tabID int, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Navigate", "%d, %s", tabID, url); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	t.URL = url
	t.Asleep = false
	return nil
}

func (s *MemoryStore) Reload(_ context.Context, tabID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Reload", "%d", tabID); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	t.Asleep = false
	return nil
}

func (s *MemoryStore) PutToSleep(_ context.Context, tabID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("PutToSleep", "%d", tabID); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	t.Asleep = true
	if s.active[t.SpaceID] == tabID {
		delete(s.active, t.SpaceID)
	}
	return nil
}

func (s *MemoryStore) SwitchToTab(_ context.Context, tabID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SwitchToTab", "%d", tabID); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	t.Asleep = false
	t.LastActiveAt = s.now()
	s.active[t.SpaceID] = tabID
	return nil
}

func (s *MemoryStore) CloseTab(_ context.Context, tabID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CloseTab", "%d", tabID); err != nil {
		return err
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	if t.IsPinned {
		delete(s.tabs, tabID)
		s.compactPinned(t.SpaceID)
	} else {
		s.detachFromGroup(tabID)
		delete(s.tabs, tabID)
	}
	if s.active[t.SpaceID] == tabID {
		delete(s.active, t.SpaceID)
	}
	return nil
}

// helpers; callers hold mu

func applyPinSettings(t *domain.Tab, settings domain.PinSettings) {
	if settings.URL != nil {
		t.PinnedURL = *settings.URL
	}
	if settings.Name != nil {
		t.PinnedName = *settings.Name
	}
}

func clampInsert(pos, count int) int {
	if pos < 0 {
		return 0
	}
	if pos > count {
		return count
	}
	return pos
}

// countPinned counts the other pinned tabs of a space.
func (s *MemoryStore) countPinned(spaceID string, except int) int {
	n := 0
	for _, t := range s.tabs {
		if t.IsPinned && t.SpaceID == spaceID && t.ID != except {
			n++
		}
	}
	return n
}

func (s *MemoryStore) groupOf(tabID int) *memGroup {
	for _, g := range s.groups {
		for _, id := range g.tabIDs {
			if id == tabID {
				return g
			}
		}
	}
	return nil
}

// detachFromGroup removes a tab from its group, dropping the group when it
// becomes empty.
func (s *MemoryStore) detachFromGroup(tabID int) {
	g := s.groupOf(tabID)
	if g == nil {
		return
	}
	kept := g.tabIDs[:0]
	for _, id := range g.tabIDs {
		if id != tabID {
			kept = append(kept, id)
		}
	}
	g.tabIDs = kept
	if len(g.tabIDs) == 0 {
		delete(s.groups, g.id)
		s.compactGroups(g.spaceID)
		return
	}
	for i, id := range g.tabIDs {
		s.tabs[id].Position = i
	}
	if g.glanceFront == tabID {
		g.glanceFront = g.tabIDs[0]
	}
	if len(g.tabIDs) == 1 {
		g.mode = domain.TabGroupModeNormal
		g.glanceFront = 0
	}
}

func (s *MemoryStore) compactPinned(spaceID string) {
	for i, t := range s.pinnedList(spaceID) {
		s.tabs[t.ID].Position = i
	}
}

func (s *MemoryStore) compactGroups(spaceID string) {
	for i, g := range s.groupList(spaceID) {
		s.groups[g.ID].position = i
	}
}

func (s *MemoryStore) pinnedList(spaceID string) []domain.Tab {
	var out []domain.Tab
	for _, t := range s.tabs {
		if t.IsPinned && t.SpaceID == spaceID && t.Position >= 0 {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) groupList(spaceID string) []domain.TabGroup {
	var out []domain.TabGroup
	for _, g := range s.groups {
		if g.spaceID == spaceID && g.position >= 0 {
			out = append(out, s.toGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) spaceList(profileID string) []domain.Space {
	var out []domain.Space
	for _, sp := range s.spaces {
		if profileID == "" || sp.ProfileID == profileID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *MemoryStore) toGroup(g *memGroup) domain.TabGroup {
	out := domain.TabGroup{
		ID:               g.id,
		Mode:             g.mode,
		ProfileID:        g.profileID,
		SpaceID:          g.spaceID,
		GlanceFrontTabID: g.glanceFront,
		Position:         g.position,
	}
	for _, id := range g.tabIDs {
		out.Tabs = append(out.Tabs, *s.tabs[id])
	}
	return out
}
