package sqlite

import (
	"time"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// TabModel is a row of the tabs table. Times are Unix milliseconds.
type TabModel struct {
	ID           int64
	UniqueID     string
	ProfileID    string
	SpaceID      string
	WindowID     int64
	GroupID      *int64 // NULL for pinned tabs
	Position     int
	Title        string
	URL          string
	IsPinned     bool
	PinnedURL    *string
	PinnedName   *string
	Asleep       bool
	Audible      bool
	Muted        bool
	CreatedAt    int64
	LastActiveAt int64
}

// tabColumns is the column list matching scanTab.
const tabColumns = `id, unique_id, profile_id, space_id, window_id, group_id, position, title, url,
	is_pinned, pinned_url, pinned_name, asleep, audible, muted, created_at, last_active_at`

func scanTab(scanner interface{ Scan(...any) error }) (*TabModel, error) {
	var m TabModel
	err := scanner.Scan(
		&m.ID, &m.UniqueID, &m.ProfileID, &m.SpaceID, &m.WindowID, &m.GroupID, &m.Position,
		&m.Title, &m.URL, &m.IsPinned, &m.PinnedURL, &m.PinnedName,
		&m.Asleep, &m.Audible, &m.Muted, &m.CreatedAt, &m.LastActiveAt,
	)
	return &m, err
}

func (m *TabModel) toDomain() domain.Tab {
	t := domain.Tab{
		ID:           int(m.ID),
		UniqueID:     m.UniqueID,
		ProfileID:    m.ProfileID,
		SpaceID:      m.SpaceID,
		WindowID:     int(m.WindowID),
		Position:     m.Position,
		Title:        m.Title,
		URL:          m.URL,
		IsPinned:     m.IsPinned,
		Asleep:       m.Asleep,
		Audible:      m.Audible,
		Muted:        m.Muted,
		CreatedAt:    time.UnixMilli(m.CreatedAt).UTC(),
		LastActiveAt: time.UnixMilli(m.LastActiveAt).UTC(),
	}
	if m.PinnedURL != nil {
		t.PinnedURL = *m.PinnedURL
	}
	if m.PinnedName != nil {
		t.PinnedName = *m.PinnedName
	}
	return t
}

func toTabModel(t domain.Tab, groupID *int64) *TabModel {
	return &TabModel{
		ID:           int64(t.ID),
		UniqueID:     t.UniqueID,
		ProfileID:    t.ProfileID,
		SpaceID:      t.SpaceID,
		WindowID:     int64(t.WindowID),
		GroupID:      groupID,
		Position:     t.Position,
		Title:        t.Title,
		URL:          t.URL,
		IsPinned:     t.IsPinned,
		PinnedURL:    nullableString(t.PinnedURL),
		PinnedName:   nullableString(t.PinnedName),
		Asleep:       t.Asleep,
		Audible:      t.Audible,
		Muted:        t.Muted,
		CreatedAt:    t.CreatedAt.UnixMilli(),
		LastActiveAt: t.LastActiveAt.UnixMilli(),
	}
}

// GroupModel is a row of the tab_groups table.
type GroupModel struct {
	ID               int64
	SpaceID          string
	ProfileID        string
	Mode             string
	GlanceFrontTabID *int64
	Position         int
}

const groupColumns = `id, space_id, profile_id, mode, glance_front_tab_id, position`

func scanGroup(scanner interface{ Scan(...any) error }) (*GroupModel, error) {
	var m GroupModel
	err := scanner.Scan(&m.ID, &m.SpaceID, &m.ProfileID, &m.Mode, &m.GlanceFrontTabID, &m.Position)
	return &m, err
}

func (m *GroupModel) toDomain(tabs []domain.Tab) domain.TabGroup {
	g := domain.TabGroup{
		ID:        int(m.ID),
		Mode:      domain.TabGroupMode(m.Mode),
		ProfileID: m.ProfileID,
		SpaceID:   m.SpaceID,
		Tabs:      tabs,
		Position:  m.Position,
	}
	if m.GlanceFrontTabID != nil {
		g.GlanceFrontTabID = int(*m.GlanceFrontTabID)
	}
	return g
}

// SpaceModel is a row of the spaces table.
type SpaceModel struct {
	ID           string
	ProfileID    string
	Name         string
	BgStartColor string
	Position     int
	ActiveTabID  *int64
}

const spaceColumns = `id, profile_id, name, bg_start_color, position, active_tab_id`

func scanSpace(scanner interface{ Scan(...any) error }) (*SpaceModel, error) {
	var m SpaceModel
	err := scanner.Scan(&m.ID, &m.ProfileID, &m.Name, &m.BgStartColor, &m.Position, &m.ActiveTabID)
	return &m, err
}

func (m *SpaceModel) toDomain() domain.Space {
	return domain.Space{
		ID:           m.ID,
		ProfileID:    m.ProfileID,
		Name:         m.Name,
		BgStartColor: m.BgStartColor,
		Position:     m.Position,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt(v int) *int64 {
	if v == 0 {
		return nil
	}
	n := int64(v)
	return &n
}
