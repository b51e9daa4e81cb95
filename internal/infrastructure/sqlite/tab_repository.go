package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// TabRepository implements domain.Store on SQLite. Every command runs in its
// own transaction and leaves both lists of every touched space dense.
type TabRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ domain.Store = (*TabRepository)(nil)

func newTabRepository(db *sql.DB) *TabRepository {
	return &TabRepository{db: db, now: time.Now}
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *TabRepository) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin %s: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	return nil
}

// Queries

func (r *TabRepository) PinnedTabs(ctx context.Context, spaceID string) ([]domain.Tab, error) {
	tabs, err := queryTabs(ctx, r.db,
		`SELECT `+tabColumns+` FROM tabs WHERE space_id = ? AND is_pinned = 1 ORDER BY position, id`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pinned tabs: %w", err)
	}
	return tabs, nil
}

func (r *TabRepository) TabGroups(ctx context.Context, spaceID string) ([]domain.TabGroup, error) {
	groups, err := loadGroups(ctx, r.db, `WHERE space_id = ?`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tab groups: %w", err)
	}
	return groups, nil
}

func (r *TabRepository) Spaces(ctx context.Context, profileID string) ([]domain.Space, error) {
	query := `SELECT ` + spaceColumns + ` FROM spaces`
	var args []any
	if profileID != "" {
		query += ` WHERE profile_id = ?`
		args = append(args, profileID)
	}
	query += ` ORDER BY position, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var spaces []domain.Space
	for rows.Next() {
		m, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan space: %w", err)
		}
		spaces = append(spaces, m.toDomain())
	}
	return spaces, rows.Err()
}

func (r *TabRepository) Space(ctx context.Context, spaceID string) (domain.Space, error) {
	m, err := loadSpace(ctx, r.db, spaceID)
	if err != nil {
		return domain.Space{}, err
	}
	return m.toDomain(), nil
}

func (r *TabRepository) Tab(ctx context.Context, tabID int) (domain.Tab, error) {
	m, err := loadTab(ctx, r.db, tabID)
	if err != nil {
		return domain.Tab{}, err
	}
	return m.toDomain(), nil
}

func (r *TabRepository) ActiveTabGroup(ctx context.Context, spaceID string) (domain.TabGroup, bool, error) {
	var groupID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT t.group_id FROM spaces s JOIN tabs t ON t.id = s.active_tab_id WHERE s.id = ?`, spaceID,
	).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !groupID.Valid) {
		return domain.TabGroup{}, false, nil
	}
	if err != nil {
		return domain.TabGroup{}, false, fmt.Errorf("failed to query active tab: %w", err)
	}

	groups, err := loadGroups(ctx, r.db, `WHERE id = ?`, groupID.Int64)
	if err != nil {
		return domain.TabGroup{}, false, fmt.Errorf("failed to load active group: %w", err)
	}
	if len(groups) == 0 {
		return domain.TabGroup{}, false, nil
	}
	return groups[0], true, nil
}

// Commands

func (r *TabRepository) MoveTab(ctx context.Context, tabID int, newPosition int) error {
	return r.withTx(ctx, "move tab", func(tx *sql.Tx) error {
		tab, err := loadTab(ctx, tx, tabID)
		if err != nil {
			return err
		}
		if tab.IsPinned {
			_, err = tx.ExecContext(ctx, `UPDATE tabs SET position = ? WHERE id = ?`, newPosition, tabID)
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE tab_groups SET position = ? WHERE id = ?`, newPosition, *tab.GroupID)
		}
		if err != nil {
			return fmt.Errorf("failed to move tab: %w", err)
		}
		log.Debug(log.CatStore, "moved", "tab", tabID, "position", newPosition, "pinned", tab.IsPinned)
		return nil
	})
}

func (r *TabRepository) SetTabPinned(ctx context.Context, tabID int, pinned bool, opts ...domain.PinOption) error {
	settings := domain.ApplyPinOptions(opts...)
	return r.withTx(ctx, "set tab pinned", func(tx *sql.Tx) error {
		tab, err := loadTab(ctx, tx, tabID)
		if err != nil {
			return err
		}
		switch {
		case pinned && tab.IsPinned:
			return updatePinSettings(ctx, tx, tabID, settings)
		case pinned:
			return pinTab(ctx, tx, tab, settings)
		case tab.IsPinned:
			return unpinTab(ctx, tx, tab)
		}
		return nil
	})
}

func updatePinSettings(ctx context.Context, tx *sql.Tx, tabID int, s domain.PinSettings) error {
	if s.URL != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE tabs SET pinned_url = ? WHERE id = ?`, nullableString(*s.URL), tabID); err != nil {
			return fmt.Errorf("failed to update pinned url: %w", err)
		}
	}
	if s.Name != nil {
		if _, err := tx.ExecContext(ctx, `UPDATE tabs SET pinned_name = ? WHERE id = ?`, nullableString(*s.Name), tabID); err != nil {
			return fmt.Errorf("failed to update pinned name: %w", err)
		}
	}
	return nil
}

func pinTab(ctx context.Context, tx *sql.Tx, tab *TabModel, s domain.PinSettings) error {
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tabs WHERE space_id = ? AND is_pinned = 1`, tab.SpaceID,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to count pinned tabs: %w", err)
	}

	groupID := *tab.GroupID
	if _, err := tx.ExecContext(ctx,
		`UPDATE tabs SET is_pinned = 1, group_id = NULL, position = ?, pinned_url = url WHERE id = ?`,
		count, tab.ID,
	); err != nil {
		return fmt.Errorf("failed to pin tab: %w", err)
	}
	if err := updatePinSettings(ctx, tx, int(tab.ID), s); err != nil {
		return err
	}
	return settleGroup(ctx, tx, groupID, int(tab.ID), tab.SpaceID)
}

func unpinTab(ctx context.Context, tx *sql.Tx, tab *TabModel) error {
	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tab_groups WHERE space_id = ?`, tab.SpaceID,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to count tab groups: %w", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tab_groups (space_id, profile_id, mode, position) VALUES (?, ?, ?, ?)`,
		tab.SpaceID, tab.ProfileID, string(domain.TabGroupModeNormal), count)
	if err != nil {
		return fmt.Errorf("failed to create tab group: %w", err)
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE tabs SET is_pinned = 0, group_id = ?, position = 0, pinned_url = NULL, pinned_name = NULL WHERE id = ?`,
		groupID, tab.ID,
	); err != nil {
		return fmt.Errorf("failed to unpin tab: %w", err)
	}
	return compactPinned(ctx, tx, tab.SpaceID)
}

func (r *TabRepository) MoveTabToWindowSpace(ctx context.Context, tabID int, spaceID string, newPosition int) error {
	return r.withTx(ctx, "move tab to space", func(tx *sql.Tx) error {
		tab, err := loadTab(ctx, tx, tabID)
		if err != nil {
			return err
		}
		dest, err := loadSpace(ctx, tx, spaceID)
		if err != nil {
			return err
		}
		if dest.ProfileID != tab.ProfileID {
			return &domain.CrossProfileMoveError{TabID: tabID, FromProfileID: tab.ProfileID, ToProfileID: dest.ProfileID}
		}

		if tab.IsPinned {
			if err := movePinnedToSpace(ctx, tx, tab, spaceID, newPosition); err != nil {
				return err
			}
		} else if err := moveGroupToSpace(ctx, tx, *tab.GroupID, tab.SpaceID, spaceID, newPosition); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE spaces SET active_tab_id = NULL WHERE active_tab_id = ? AND id <> ?`, tabID, spaceID,
		); err != nil {
			return fmt.Errorf("failed to clear active tab: %w", err)
		}
		log.Debug(log.CatStore, "moved to space", "tab", tabID, "from", tab.SpaceID, "to", spaceID)
		return nil
	})
}

func movePinnedToSpace(ctx context.Context, tx *sql.Tx, tab *TabModel, spaceID string, pos int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE tabs SET space_id = ?, position = -1 WHERE id = ?`, spaceID, tab.ID,
	); err != nil {
		return fmt.Errorf("failed to move pinned tab: %w", err)
	}
	if err := compactPinned(ctx, tx, tab.SpaceID); err != nil {
		return err
	}
	ids, err := queryIDs(ctx, tx,
		`SELECT id FROM tabs WHERE space_id = ? AND is_pinned = 1 AND id <> ? ORDER BY position, id`, spaceID, tab.ID)
	if err != nil {
		return fmt.Errorf("failed to list pinned tabs: %w", err)
	}
	return renumber(ctx, tx, `UPDATE tabs SET position = ? WHERE id = ?`, insertAt(ids, tab.ID, pos))
}

func moveGroupToSpace(ctx context.Context, tx *sql.Tx, groupID int64, from, to string, pos int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE tab_groups SET space_id = ?, position = -1 WHERE id = ?`, to, groupID,
	); err != nil {
		return fmt.Errorf("failed to move tab group: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE tabs SET space_id = ? WHERE group_id = ?`, to, groupID); err != nil {
		return fmt.Errorf("failed to move group tabs: %w", err)
	}
	if err := compactGroups(ctx, tx, from); err != nil {
		return err
	}
	ids, err := queryIDs(ctx, tx,
		`SELECT id FROM tab_groups WHERE space_id = ? AND id <> ? ORDER BY position, id`, to, groupID)
	if err != nil {
		return fmt.Errorf("failed to list tab groups: %w", err)
	}
	return renumber(ctx, tx, `UPDATE tab_groups SET position = ? WHERE id = ?`, insertAt(ids, groupID, pos))
}

func (r *TabRepository) Navigate(ctx context.Context, tabID int, url string) error {
	return r.updateTab(ctx, "navigate", tabID, `UPDATE tabs SET url = ?, asleep = 0 WHERE id = ?`, url, tabID)
}

func (r *TabRepository) Reload(ctx context.Context, tabID int) error {
	return r.updateTab(ctx, "reload", tabID, `UPDATE tabs SET asleep = 0 WHERE id = ?`, tabID)
}

func (r *TabRepository) PutToSleep(ctx context.Context, tabID int) error {
	return r.withTx(ctx, "put to sleep", func(tx *sql.Tx) error {
		if _, err := loadTab(ctx, tx, tabID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE tabs SET asleep = 1 WHERE id = ?`, tabID); err != nil {
			return fmt.Errorf("failed to put tab to sleep: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE spaces SET active_tab_id = NULL WHERE active_tab_id = ?`, tabID); err != nil {
			return fmt.Errorf("failed to clear active tab: %w", err)
		}
		return nil
	})
}

func (r *TabRepository) SwitchToTab(ctx context.Context, tabID int) error {
	return r.withTx(ctx, "switch to tab", func(tx *sql.Tx) error {
		tab, err := loadTab(ctx, tx, tabID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tabs SET asleep = 0, last_active_at = ? WHERE id = ?`, r.now().UnixMilli(), tabID,
		); err != nil {
			return fmt.Errorf("failed to activate tab: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE spaces SET active_tab_id = ? WHERE id = ?`, tabID, tab.SpaceID,
		); err != nil {
			return fmt.Errorf("failed to set active tab: %w", err)
		}
		return nil
	})
}

func (r *TabRepository) CloseTab(ctx context.Context, tabID int) error {
	return r.withTx(ctx, "close tab", func(tx *sql.Tx) error {
		tab, err := loadTab(ctx, tx, tabID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE spaces SET active_tab_id = NULL WHERE active_tab_id = ?`, tabID); err != nil {
			return fmt.Errorf("failed to clear active tab: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tabs WHERE id = ?`, tabID); err != nil {
			return fmt.Errorf("failed to close tab: %w", err)
		}
		if tab.IsPinned {
			return compactPinned(ctx, tx, tab.SpaceID)
		}
		return settleGroup(ctx, tx, *tab.GroupID, tabID, tab.SpaceID)
	})
}

func (r *TabRepository) updateTab(ctx context.Context, op string, tabID int, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if n == 0 {
		return &domain.TabNotFoundError{TabID: tabID}
	}
	return nil
}

// helpers

func loadTab(ctx context.Context, q querier, tabID int) (*TabModel, error) {
	m, err := scanTab(q.QueryRowContext(ctx, `SELECT `+tabColumns+` FROM tabs WHERE id = ?`, tabID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.TabNotFoundError{TabID: tabID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tab: %w", err)
	}
	return m, nil
}

func loadSpace(ctx context.Context, q querier, spaceID string) (*SpaceModel, error) {
	m, err := scanSpace(q.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ?`, spaceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.SpaceNotFoundError{SpaceID: spaceID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load space: %w", err)
	}
	return m, nil
}

func queryTabs(ctx context.Context, q querier, query string, args ...any) ([]domain.Tab, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tabs []domain.Tab
	for rows.Next() {
		m, err := scanTab(rows)
		if err != nil {
			return nil, err
		}
		tabs = append(tabs, m.toDomain())
	}
	return tabs, rows.Err()
}

// loadGroups loads the groups matching where, ordered by position, with their
// tabs in group order. Groups without tabs are skipped.
func loadGroups(ctx context.Context, q querier, where string, arg any) ([]domain.TabGroup, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+groupColumns+` FROM tab_groups `+where+` ORDER BY position, id`, arg)
	if err != nil {
		return nil, err
	}
	var models []*GroupModel
	for rows.Next() {
		m, err := scanGroup(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		models = append(models, m)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	groups := make([]domain.TabGroup, 0, len(models))
	for _, m := range models {
		tabs, err := queryTabs(ctx, q,
			`SELECT `+tabColumns+` FROM tabs WHERE group_id = ? ORDER BY position, id`, m.ID)
		if err != nil {
			return nil, err
		}
		if len(tabs) == 0 {
			continue
		}
		groups = append(groups, m.toDomain(tabs))
	}
	return groups, nil
}

func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// renumber assigns positions 0..n-1 to ids in order.
func renumber(ctx context.Context, tx *sql.Tx, stmt string, ids []int64) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, stmt, i, id); err != nil {
			return fmt.Errorf("failed to renumber: %w", err)
		}
	}
	return nil
}

// insertAt inserts id into ids at pos, clamped to the list bounds.
func insertAt(ids []int64, id int64, pos int) []int64 {
	if pos < 0 {
		pos = 0
	}
	if pos > len(ids) {
		pos = len(ids)
	}
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids[:pos]...)
	out = append(out, id)
	return append(out, ids[pos:]...)
}

func compactPinned(ctx context.Context, tx *sql.Tx, spaceID string) error {
	ids, err := queryIDs(ctx, tx,
		`SELECT id FROM tabs WHERE space_id = ? AND is_pinned = 1 ORDER BY position, id`, spaceID)
	if err != nil {
		return fmt.Errorf("failed to list pinned tabs: %w", err)
	}
	return renumber(ctx, tx, `UPDATE tabs SET position = ? WHERE id = ?`, ids)
}

func compactGroups(ctx context.Context, tx *sql.Tx, spaceID string) error {
	ids, err := queryIDs(ctx, tx,
		`SELECT id FROM tab_groups WHERE space_id = ? ORDER BY position, id`, spaceID)
	if err != nil {
		return fmt.Errorf("failed to list tab groups: %w", err)
	}
	return renumber(ctx, tx, `UPDATE tab_groups SET position = ? WHERE id = ?`, ids)
}

// settleGroup repairs a group after removedTab left it: an empty group is
// deleted, a single remaining tab makes it a normal group, and member
// positions are compacted.
func settleGroup(ctx context.Context, tx *sql.Tx, groupID int64, removedTab int, spaceID string) error {
	ids, err := queryIDs(ctx, tx, `SELECT id FROM tabs WHERE group_id = ? ORDER BY position, id`, groupID)
	if err != nil {
		return fmt.Errorf("failed to list group tabs: %w", err)
	}
	if len(ids) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM tab_groups WHERE id = ?`, groupID); err != nil {
			return fmt.Errorf("failed to delete tab group: %w", err)
		}
		return compactGroups(ctx, tx, spaceID)
	}
	if err := renumber(ctx, tx, `UPDATE tabs SET position = ? WHERE id = ?`, ids); err != nil {
		return err
	}
	if len(ids) == 1 {
		_, err = tx.ExecContext(ctx,
			`UPDATE tab_groups SET mode = ?, glance_front_tab_id = NULL WHERE id = ?`,
			string(domain.TabGroupModeNormal), groupID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE tab_groups SET glance_front_tab_id = ? WHERE id = ? AND glance_front_tab_id = ?`,
			ids[0], groupID, removedTab)
	}
	if err != nil {
		return fmt.Errorf("failed to update tab group: %w", err)
	}
	return nil
}
