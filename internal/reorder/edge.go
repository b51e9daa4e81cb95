package reorder

// Edge is the side of the hovered row a drop would land on.
type Edge int

const (
	// EdgeNone means the pointer is not over a droppable boundary.
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// ParseEdge parses "top" or "bottom". Anything else is EdgeNone.
func ParseEdge(s string) Edge {
	switch s {
	case "top":
		return EdgeTop
	case "bottom":
		return EdgeBottom
	default:
		return EdgeNone
	}
}

// ClosestEdge returns the boundary of the element spanning rows top..bottom
// (inclusive) that the pointer row y is closer to. A pointer outside the
// element has no edge. Rows are cells, so the element's extent is
// [top, bottom+1) and its midline sits at (top+bottom+1)/2.
func ClosestEdge(y, top, bottom int) Edge {
	if bottom < top || y < top || y > bottom {
		return EdgeNone
	}
	mid := float64(top+bottom+1) / 2
	if float64(y)+0.5 < mid {
		return EdgeTop
	}
	return EdgeBottom
}
