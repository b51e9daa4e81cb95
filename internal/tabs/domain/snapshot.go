package domain

// Snapshot is a complete, consistent copy of a tabs store. Stores are seeded
// from snapshots and tests compare them after a drop.
type Snapshot struct {
	Spaces []Space
	Pinned []Tab
	Groups []TabGroup
	// Active maps a space id to its focused tab id.
	Active map[string]int
}

// PinnedIn returns the pinned tabs of a space in snapshot order.
func (s Snapshot) PinnedIn(spaceID string) []Tab {
	var out []Tab
	for _, t := range s.Pinned {
		if t.SpaceID == spaceID {
			out = append(out, t)
		}
	}
	return out
}

// GroupsIn returns the groups of a space in snapshot order.
func (s Snapshot) GroupsIn(spaceID string) []TabGroup {
	var out []TabGroup
	for _, g := range s.Groups {
		if g.SpaceID == spaceID {
			out = append(out, g)
		}
	}
	return out
}
