// Package reorder is the positional reordering core of the sidebar.
//
// A drop is expressed as a fractional sort key (index-0.5 for "above",
// index+0.5 for "below"). The key is merged into a transient working copy of
// the destination list, the copy is stable-sorted, and the result is
// re-densified to 0..n-1. Only items whose persisted position differs from the
// new index produce a command, so replaying a settled drop emits nothing.
//
// Nothing in this package mutates the tabs store except through the injected
// domain.TabCommander, and nothing keeps a list snapshot across drops.
package reorder

import (
	"math"
	"sort"
)

// Item is one movable entry of a list: a pinned tab, or a tab group
// identified by its primary tab.
type Item struct {
	ID       int
	Position int
}

// Change is a position command for one item.
type Change struct {
	ID int
	// From is the persisted position, or -1 for an item that was not yet a
	// member of the list.
	From int
	To   int
}

// Placeholder reports whether the change targets an item that entered the
// list with this drop.
func (c Change) Placeholder() bool {
	return c.From < 0
}

// FractionalPosition turns a target index and edge into a sort key. A drop
// without an edge lands below the target.
func FractionalPosition(index int, edge Edge) float64 {
	if edge == EdgeTop {
		return float64(index) - 0.5
	}
	return float64(index) + 0.5
}

// workingEntry is one slot of the transient arena used for a single reorder.
type workingEntry struct {
	id        int
	persisted int
	member    bool
	key       float64
}

// Order computes the new dense ordering of items after moving movedID to the
// fractional key. Items are first ordered by persisted position (ties by id so
// the result is deterministic); a non-member movedID is appended as a
// placeholder. The returned ids are in their new order.
func Order(items []Item, movedID int, key float64) []int {
	entries := buildWorkingCopy(items, movedID, key)
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids
}

// Reorder computes the minimal set of changes that moves movedID to the
// fractional key and leaves the list dense.
func Reorder(items []Item, movedID int, key float64) []Change {
	entries := buildWorkingCopy(items, movedID, key)

	var changes []Change
	for idx, e := range entries {
		if !e.member {
			changes = append(changes, Change{ID: e.id, From: -1, To: idx})
			continue
		}
		if e.persisted != idx {
			changes = append(changes, Change{ID: e.id, From: e.persisted, To: idx})
		}
	}
	return changes
}

// Apply returns a copy of items with the changes applied. Placeholder changes
// add the item. Used to check a list after a drop without a store round trip.
func Apply(items []Item, changes []Change) []Item {
	out := make([]Item, 0, len(items)+1)
	index := make(map[int]int, len(items))
	for _, it := range items {
		index[it.ID] = len(out)
		out = append(out, it)
	}
	for _, c := range changes {
		if i, ok := index[c.ID]; ok {
			out[i].Position = c.To
			continue
		}
		index[c.ID] = len(out)
		out = append(out, Item{ID: c.ID, Position: c.To})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// IsDense reports whether the positions of items are exactly 0..n-1.
func IsDense(items []Item) bool {
	seen := make([]bool, len(items))
	for _, it := range items {
		if it.Position < 0 || it.Position >= len(items) || seen[it.Position] {
			return false
		}
		seen[it.Position] = true
	}
	return true
}

func buildWorkingCopy(items []Item, movedID int, key float64) []workingEntry {
	entries := make([]workingEntry, 0, len(items)+1)
	member := false
	for _, it := range items {
		if it.ID == movedID {
			member = true
		}
		entries = append(entries, workingEntry{id: it.ID, persisted: it.Position, member: true})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].persisted != entries[j].persisted {
			return entries[i].persisted < entries[j].persisted
		}
		return entries[i].id < entries[j].id
	})

	if !member {
		entries = append(entries, workingEntry{id: movedID, persisted: -1})
	}

	// Clamp to the working length so an oversized request means "append".
	key = math.Min(key, float64(len(entries)))

	for i := range entries {
		if entries[i].id == movedID {
			entries[i].key = key
		} else {
			entries[i].key = float64(i)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	return entries
}
