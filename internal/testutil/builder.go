package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// Builder accumulates spaces, pinned tabs and groups and produces a
// consistent snapshot with dense positions.
type Builder struct {
	t      *testing.T
	spaces []spaceData
	pinned map[string][]tabData
	groups map[string][]builtGroup
	seen   map[int]bool
}

type builtGroup struct {
	data groupData
	tabs []tabData
}

// NewBuilder creates an empty builder.
func NewBuilder(t *testing.T) *Builder {
	t.Helper()
	return &Builder{
		t:      t,
		pinned: make(map[string][]tabData),
		groups: make(map[string][]builtGroup),
		seen:   make(map[int]bool),
	}
}

// WithSpace adds a space. Spaces are positioned in insertion order.
func (b *Builder) WithSpace(id string, opts ...SpaceOption) *Builder {
	s := spaceData{id: id, profile: DefaultProfile, name: id}
	for _, opt := range opts {
		opt(&s)
	}
	b.spaces = append(b.spaces, s)
	return b
}

// WithPinned appends a pinned tab to the pinned list of spaceID.
func (b *Builder) WithPinned(spaceID string, id int, opts ...TabOption) *Builder {
	b.t.Helper()
	b.claim(id)
	tab := defaultTab(id)
	for _, opt := range opts {
		opt(&tab)
	}
	b.pinned[spaceID] = append(b.pinned[spaceID], tab)
	return b
}

// WithGroup appends a group holding tabIDs, in order, to the group list of
// spaceID. The first id is the primary tab.
func (b *Builder) WithGroup(spaceID string, tabIDs []int, opts ...GroupOption) *Builder {
	b.t.Helper()
	require.NotEmpty(b.t, tabIDs, "group needs at least one tab")

	g := groupData{mode: domain.TabGroupModeNormal, tabOptions: make(map[int][]TabOption)}
	for _, opt := range opts {
		opt(&g)
	}
	bg := builtGroup{data: g}
	for _, id := range tabIDs {
		b.claim(id)
		tab := defaultTab(id)
		for _, opt := range g.tabOptions[id] {
			opt(&tab)
		}
		bg.tabs = append(bg.tabs, tab)
	}
	b.groups[spaceID] = append(b.groups[spaceID], bg)
	return b
}

// WithTab appends a single-tab group.
func (b *Builder) WithTab(spaceID string, id int, opts ...TabOption) *Builder {
	return b.WithGroup(spaceID, []int{id}, GroupTab(id, opts...))
}

func (b *Builder) claim(id int) {
	b.t.Helper()
	require.False(b.t, b.seen[id], "tab id %d used twice", id)
	b.seen[id] = true
}

// Build returns the snapshot. Group ids are assigned from 1 in space order.
func (b *Builder) Build() domain.Snapshot {
	b.t.Helper()
	snap := domain.Snapshot{Active: make(map[string]int)}
	profiles := make(map[string]string, len(b.spaces))

	for i, s := range b.spaces {
		snap.Spaces = append(snap.Spaces, domain.Space{
			ID:           s.id,
			ProfileID:    s.profile,
			Name:         s.name,
			BgStartColor: s.color,
			Position:     i,
		})
		profiles[s.id] = s.profile
	}

	groupID := 0
	for _, s := range b.spaces {
		profile := profiles[s.id]
		for i, td := range b.pinned[s.id] {
			tab := b.tab(td, profile, s.id, i)
			tab.IsPinned = true
			tab.PinnedURL = td.pinnedURL
			tab.PinnedName = td.pinnedName
			snap.Pinned = append(snap.Pinned, tab)
			if td.active {
				snap.Active[s.id] = td.id
			}
		}
		for i, bg := range b.groups[s.id] {
			groupID++
			g := domain.TabGroup{
				ID:               groupID,
				Mode:             bg.data.mode,
				ProfileID:        profile,
				SpaceID:          s.id,
				GlanceFrontTabID: bg.data.glanceTab,
				Position:         i,
			}
			for j, td := range bg.tabs {
				g.Tabs = append(g.Tabs, b.tab(td, profile, s.id, j))
				if td.active {
					snap.Active[s.id] = td.id
				}
			}
			snap.Groups = append(snap.Groups, g)
		}
	}

	for spaceID := range b.pinned {
		_, ok := profiles[spaceID]
		require.True(b.t, ok, "pinned tabs in unknown space %q", spaceID)
	}
	for spaceID := range b.groups {
		_, ok := profiles[spaceID]
		require.True(b.t, ok, "groups in unknown space %q", spaceID)
	}
	return snap
}

// Memory builds the snapshot into a fresh MemoryStore.
func (b *Builder) Memory() *MemoryStore {
	b.t.Helper()
	return NewMemoryStore(b.Build())
}

func (b *Builder) tab(td tabData, profile, spaceID string, pos int) domain.Tab {
	return domain.Tab{
		ID:           td.id,
		UniqueID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("flowbar-tab-%d", td.id))).String(),
		ProfileID:    profile,
		SpaceID:      spaceID,
		WindowID:     1,
		Position:     pos,
		Title:        td.title,
		URL:          td.url,
		Asleep:       td.asleep,
		Audible:      td.audible,
		Muted:        td.muted,
		CreatedAt:    td.createdAt,
		LastActiveAt: td.createdAt,
	}
}
