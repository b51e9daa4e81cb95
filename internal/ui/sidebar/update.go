package sidebar

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/ui/toaster"
)

// Update handles messages for the sidebar.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return m.handleLoaded(msg)

	case actionDoneMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "sidebar action failed", msg.err)
			return m, tea.Batch(m.Reload(), toaster.Show(msg.err.Error(), toaster.StyleError))
		}
		cmds := []tea.Cmd{m.Reload()}
		if msg.status != "" {
			cmds = append(cmds, toaster.Show(msg.status, toaster.StyleSuccess))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case m.Renaming():
			return m.handleRenameKey(msg)
		case m.Dragging():
			return m.handleDragKey(msg)
		default:
			return m.handleKey(msg)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg loadedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		log.ErrorErr(log.CatUI, "load sidebar", msg.err)
		return m, toaster.Show(msg.err.Error(), toaster.StyleError)
	}

	prev := m.Space().ID
	m.err = nil
	m.loaded = true
	m.spaces = msg.spaces
	m.spaceIdx = msg.spaceIdx
	m.pinned = msg.pinned
	m.groups = msg.groups
	m.activeGroupID = msg.activeGroupID
	m.rows = buildRows(m.pinned, m.groups)

	changed := m.Space().ID != prev
	if changed {
		m.cursor = 0
	}
	m.cursor = min(m.cursor, len(m.rows)-1)
	if !m.Dragging() && !m.navigable(m.cursor) {
		m.cursor = m.nextNavigable(m.cursor, 1)
	}
	if m.Dragging() {
		edge := m.gesture.Edge()
		if edge == reorder.EdgeNone {
			edge = reorder.EdgeTop
		}
		m.hover(edge)
	}

	if !changed || m.Space().ID == "" {
		return m, nil
	}
	spaceID := m.Space().ID
	return m, func() tea.Msg { return SpaceChangedMsg{SpaceID: spaceID} }
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	row, hasRow := m.selected()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.nextNavigable(m.cursor, -1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.nextNavigable(m.cursor, 1)
	case key.Matches(msg, m.keys.PrevSpace):
		return m, m.switchSpace(-1)
	case key.Matches(msg, m.keys.NextSpace):
		return m, m.switchSpace(1)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.Reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Clear):
		return m, m.clearSpace()
	}

	if !hasRow || !row.Draggable() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Grab):
		return m.startDrag(row)
	case key.Matches(msg, m.keys.Open):
		return m, m.run("", func(ctx context.Context) error {
			return m.tabs.SwitchToTab(ctx, row.Tab.ID)
		})
	case key.Matches(msg, m.keys.Close):
		return m, m.closeRow(row)
	case key.Matches(msg, m.keys.Sleep):
		if row.Kind == RowPinned {
			return m, m.run("Put "+row.Tab.DisplayName()+" to sleep", func(ctx context.Context) error {
				return m.tabs.PutPinnedTabToSleep(ctx, row.Tab.ID)
			})
		}
		return m, m.run("Put "+row.Tab.DisplayName()+" to sleep", func(ctx context.Context) error {
			for _, t := range row.Group.Tabs {
				if err := m.tabs.PutToSleep(ctx, t.ID); err != nil {
					return err
				}
			}
			return nil
		})
	case key.Matches(msg, m.keys.Reset) && row.Kind == RowPinned:
		return m, m.run("", func(ctx context.Context) error {
			return m.tabs.ResetPinnedTab(ctx, row.Tab.ID)
		})
	case key.Matches(msg, m.keys.Rename) && row.Kind == RowPinned:
		m.renameTabID = row.Tab.ID
		m.input.SetValue(row.Tab.PinnedName)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}
	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		tabID, name := m.renameTabID, m.input.Value()
		m.stopRename()
		return m, m.run("Renamed pinned tab", func(ctx context.Context) error {
			return m.tabs.RenamePinnedTab(ctx, tabID, name)
		})
	case tea.KeyEsc:
		m.stopRename()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) stopRename() {
	m.renameTabID = 0
	m.input.Blur()
	m.input.Reset()
}

func (m Model) handleDragKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		_, _ = m.gesture.Cancel()
		m.snapCursor()
		return m, nil
	case key.Matches(msg, m.keys.Drop):
		return m.drop()
	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
		m.hover(reorder.EdgeTop)
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(m.rows)-1)
		m.hover(reorder.EdgeBottom)
	case key.Matches(msg, m.keys.ToggleEdge):
		if m.gesture.Edge() == reorder.EdgeTop {
			m.hover(reorder.EdgeBottom)
		} else {
			m.hover(reorder.EdgeTop)
		}
	case key.Matches(msg, m.keys.PrevSpace):
		return m, m.switchSpace(-1)
	case key.Matches(msg, m.keys.NextSpace):
		return m, m.switchSpace(1)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	idx, info := m.rowAt(msg)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.cursor = m.nextNavigable(m.cursor, -1)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.cursor = m.nextNavigable(m.cursor, 1)
		return m, nil

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if idx < 0 || !m.rows[idx].Draggable() || m.Dragging() || m.Renaming() {
			return m, nil
		}
		m.cursor = idx
		m.mouseDown, m.mouseMoved, m.mouseY = true, false, msg.Y
		m.mouseTabID = m.rows[idx].Tab.ID
		return m.startDrag(m.rows[idx])

	case msg.Action == tea.MouseActionMotion && m.mouseDown:
		if idx < 0 {
			_ = m.gesture.Leave()
			m.mouseY = msg.Y
			return m, nil
		}
		edge := pointerEdge(msg.Y, m.mouseY, info, m.gesture.Edge())
		m.mouseY = msg.Y
		if idx != m.cursor {
			m.mouseMoved = true
		}
		m.cursor = idx
		m.hover(edge)
		return m, nil

	case msg.Action == tea.MouseActionRelease && m.mouseDown:
		m.mouseDown = false
		if !m.mouseMoved {
			_, _ = m.gesture.Cancel()
			m.snapCursor()
			// A reload while the button was down may have removed the row.
			row, ok := m.selected()
			if !ok || !row.Draggable() || row.Tab.ID != m.mouseTabID {
				return m, nil
			}
			return m, m.run("", func(ctx context.Context) error {
				return m.tabs.SwitchToTab(ctx, row.Tab.ID)
			})
		}
		return m.drop()
	}
	return m, nil
}

// pointerEdge picks the edge of a hovered zone. Multi-line rows split at their
// midline; single-line rows take the edge the pointer entered from.
func pointerEdge(y, prevY int, z *zone.ZoneInfo, current reorder.Edge) reorder.Edge {
	if z != nil && z.EndY > z.StartY {
		return reorder.ClosestEdge(y, z.StartY, z.EndY)
	}
	switch {
	case y < prevY:
		return reorder.EdgeTop
	case y > prevY:
		return reorder.EdgeBottom
	case current == reorder.EdgeNone:
		return reorder.EdgeBottom
	default:
		return current
	}
}

func (m Model) rowAt(msg tea.MouseMsg) (int, *zone.ZoneInfo) {
	for i, r := range m.rows {
		if z := zone.Get(r.zoneID(m.zoneID)); z != nil && z.InBounds(msg) {
			return i, z
		}
	}
	return -1, nil
}

func (m Model) startDrag(row Row) (Model, tea.Cmd) {
	if err := m.gesture.Start(row.Source()); err != nil {
		return m, toaster.Show(err.Error(), toaster.StyleError)
	}
	m.hover(reorder.EdgeBottom)
	return m, nil
}

// hover points the gesture at the row under the cursor.
func (m *Model) hover(edge reorder.Edge) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		_ = m.gesture.Leave()
		return
	}
	_ = m.gesture.Hover(m.rows[m.cursor].Target(m.Space()), edge)
}

func (m Model) drop() (Model, tea.Cmd) {
	res, err := m.gesture.Drop(context.Background())
	m.snapCursor()
	return m, tea.Batch(m.Reload(), m.dropToast(res, err))
}

func (m Model) dropToast(res reorder.Result, err error) tea.Cmd {
	switch {
	case err != nil:
		return toaster.Show("Drop failed: "+err.Error(), toaster.StyleError)
	case res.Action == reorder.ActionRejected || res.Action == reorder.ActionUnsupported:
		reason := "drop not allowed"
		if res.Reason != nil {
			reason = res.Reason.Error()
		}
		return toaster.Show(reason, toaster.StyleError)
	case res.Action == reorder.ActionMovedToSpace:
		return toaster.Show("Moved to "+m.Space().Name, toaster.StyleSuccess)
	}
	return nil
}

// snapCursor moves the cursor off tail rows once a drag ends.
func (m *Model) snapCursor() {
	if !m.navigable(m.cursor) {
		if next := m.nextNavigable(m.cursor, -1); m.navigable(next) {
			m.cursor = next
		} else {
			m.cursor = m.nextNavigable(m.cursor, 1)
		}
	}
}

func (m Model) switchSpace(delta int) tea.Cmd {
	if len(m.spaces) < 2 {
		return nil
	}
	idx := (m.spaceIdx + delta + len(m.spaces)) % len(m.spaces)
	return m.load(m.spaces[idx].ID)
}

func (m Model) clearSpace() tea.Cmd {
	tabs, space := m.tabs, m.Space()
	if space.ID == "" {
		return nil
	}
	return func() tea.Msg {
		n, err := tabs.ClearSpace(context.Background(), space.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Closed %d tabs in %s", n, space.Name)}
	}
}

func (m Model) closeRow(row Row) tea.Cmd {
	ids := []int{row.Tab.ID}
	if row.Kind == RowGroup {
		ids = ids[:0]
		for _, t := range row.Group.Tabs {
			ids = append(ids, t.ID)
		}
	}
	return m.run("", func(ctx context.Context) error {
		var errs []error
		for _, id := range ids {
			errs = append(errs, m.tabs.CloseTab(ctx, id))
		}
		return errors.Join(errs...)
	})
}

// run executes fn off the update loop and reports the outcome.
func (m Model) run(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: status}
	}
}

func (m Model) selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

// navigable reports whether the cursor may rest on row i. Tail rows are only
// reachable while dragging.
func (m Model) navigable(i int) bool {
	if i < 0 || i >= len(m.rows) {
		return false
	}
	return m.Dragging() || m.rows[i].Draggable()
}

// nextNavigable steps from i in direction dir and returns the first
// navigable row, or i when there is none.
func (m Model) nextNavigable(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(m.rows); j += dir {
		if m.navigable(j) {
			return j
		}
	}
	return i
}
