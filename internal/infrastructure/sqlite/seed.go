package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// Seed replaces the whole database content with snap.
func (db *DB) Seed(ctx context.Context, snap domain.Snapshot) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	if err := seed(ctx, tx, snap); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	log.Info(log.CatDB, "seeded", "spaces", len(snap.Spaces), "pinned", len(snap.Pinned), "groups", len(snap.Groups))
	return nil
}

func seed(ctx context.Context, tx *sql.Tx, snap domain.Snapshot) error {
	for _, stmt := range []string{
		`DELETE FROM tabs`,
		`DELETE FROM tab_groups`,
		`DELETE FROM spaces`,
		`DELETE FROM sqlite_sequence WHERE name = 'tab_groups'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	for _, s := range snap.Spaces {
		var active *int64
		if id, ok := snap.Active[s.ID]; ok {
			active = nullableInt(id)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO spaces (id, profile_id, name, bg_start_color, position, active_tab_id) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.ProfileID, s.Name, s.BgStartColor, s.Position, active,
		); err != nil {
			return fmt.Errorf("failed to insert space %s: %w", s.ID, err)
		}
	}

	for _, t := range snap.Pinned {
		t.IsPinned = true
		if err := insertTab(ctx, tx, toTabModel(t, nil)); err != nil {
			return err
		}
	}

	for _, g := range snap.Groups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tab_groups (id, space_id, profile_id, mode, glance_front_tab_id, position) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, g.SpaceID, g.ProfileID, string(g.Mode), nullableInt(g.GlanceFrontTabID), g.Position,
		); err != nil {
			return fmt.Errorf("failed to insert tab group %d: %w", g.ID, err)
		}
		groupID := int64(g.ID)
		for _, t := range g.Tabs {
			t.IsPinned = false
			if err := insertTab(ctx, tx, toTabModel(t, &groupID)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Snapshot reads the whole database, lists ordered by position.
func (r *TabRepository) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{Active: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY position, id`)
	if err != nil {
		return snap, fmt.Errorf("failed to query spaces: %w", err)
	}
	var models []*SpaceModel
	for rows.Next() {
		m, err := scanSpace(rows)
		if err != nil {
			_ = rows.Close()
			return snap, fmt.Errorf("failed to scan space: %w", err)
		}
		models = append(models, m)
	}
	if err := rows.Close(); err != nil {
		return snap, err
	}

	for _, m := range models {
		snap.Spaces = append(snap.Spaces, m.toDomain())
		if m.ActiveTabID != nil {
			snap.Active[m.ID] = int(*m.ActiveTabID)
		}
		pinned, err := r.PinnedTabs(ctx, m.ID)
		if err != nil {
			return snap, err
		}
		snap.Pinned = append(snap.Pinned, pinned...)
		groups, err := r.TabGroups(ctx, m.ID)
		if err != nil {
			return snap, err
		}
		snap.Groups = append(snap.Groups, groups...)
	}
	return snap, nil
}

func insertTab(ctx context.Context, tx *sql.Tx, m *TabModel) error {
	if m.UniqueID == "" {
		m.UniqueID = uuid.NewString()
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tabs (`+tabColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UniqueID, m.ProfileID, m.SpaceID, m.WindowID, m.GroupID, m.Position, m.Title, m.URL,
		m.IsPinned, m.PinnedURL, m.PinnedName, m.Asleep, m.Audible, m.Muted, m.CreatedAt, m.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tab %d: %w", m.ID, err)
	}
	return nil
}

// DemoSnapshot is the sample profile written by "flowbar seed".
func DemoSnapshot(now time.Time) domain.Snapshot {
	snap := domain.Snapshot{
		Spaces: []domain.Space{
			{ID: "work", ProfileID: "personal", Name: "Work", BgStartColor: "#3b82f6", Position: 0},
			{ID: "reading", ProfileID: "personal", Name: "Reading", BgStartColor: "#10b981", Position: 1},
			{ID: "side", ProfileID: "side-project", Name: "Side project", BgStartColor: "#f59e0b", Position: 0},
		},
		Active: map[string]int{"work": 10, "reading": 30},
	}

	nextID := 0
	tab := func(space, profile, title, url string, pos int) domain.Tab {
		nextID++
		created := now.Add(-time.Duration(nextID) * time.Hour)
		return domain.Tab{
			ID:           nextID,
			UniqueID:     uuid.NewString(),
			ProfileID:    profile,
			SpaceID:      space,
			WindowID:     1,
			Position:     pos,
			Title:        title,
			URL:          url,
			CreatedAt:    created,
			LastActiveAt: created,
		}
	}
	pinned := func(space, profile, title, url, name string, pos int) domain.Tab {
		t := tab(space, profile, title, url, pos)
		t.IsPinned = true
		t.PinnedURL = url
		t.PinnedName = name
		return t
	}
	group := func(id int, space, profile string, mode domain.TabGroupMode, pos int, tabs ...domain.Tab) domain.TabGroup {
		return domain.TabGroup{ID: id, Mode: mode, ProfileID: profile, SpaceID: space, Tabs: tabs, Position: pos}
	}

	snap.Pinned = []domain.Tab{
		pinned("work", "personal", "Inbox (3)", "https://mail.example.com", "Mail", 0),
		pinned("work", "personal", "Calendar", "https://calendar.example.com", "", 1),
		pinned("work", "personal", "Team chat", "https://chat.example.com", "Chat", 2),
		pinned("reading", "personal", "Feeds", "https://feeds.example.com", "", 0),
		pinned("side", "side-project", "Repository", "https://git.example.com/side", "Repo", 0),
	}

	nextID = 9
	snap.Groups = []domain.TabGroup{
		group(1, "work", "personal", domain.TabGroupModeNormal, 0,
			tab("work", "personal", "Review: reorder core", "https://git.example.com/pr/42", 0)),
		group(2, "work", "personal", domain.TabGroupModeSplit, 1,
			tab("work", "personal", "Design doc", "https://docs.example.com/design", 0),
			tab("work", "personal", "Mockups", "https://figma.example.com/mockups", 1)),
		group(3, "work", "personal", domain.TabGroupModeNormal, 2,
			tab("work", "personal", "CI pipeline", "https://ci.example.com/runs/981", 0)),
		group(4, "work", "personal", domain.TabGroupModeNormal, 3,
			tab("work", "personal", "Release notes", "https://docs.example.com/releases", 0)),
	}
	snap.Groups[2].Tabs[0].Asleep = true

	nextID = 29
	snap.Groups = append(snap.Groups,
		group(5, "reading", "personal", domain.TabGroupModeNormal, 0,
			tab("reading", "personal", "Fractional indexing", "https://blog.example.com/fractional", 0)),
		group(6, "reading", "personal", domain.TabGroupModeNormal, 1,
			tab("reading", "personal", "Podcast", "https://audio.example.com/ep/12", 0)),
	)
	snap.Groups[5].Tabs[0].Audible = true

	nextID = 49
	snap.Groups = append(snap.Groups,
		group(7, "side", "side-project", domain.TabGroupModeNormal, 0,
			tab("side", "side-project", "Issue tracker", "https://git.example.com/side/issues", 0)),
	)
	return snap
}
