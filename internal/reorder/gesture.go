package reorder

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/flowbrowser/flowbar/internal/log"
)

// Phase is a step of a drag gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseHovering
	PhaseDropped
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseHovering:
		return "hovering"
	case PhaseDropped:
		return "dropped"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

var (
	ErrGestureInProgress = errors.New("a drag is already in progress")
	ErrNoGesture         = errors.New("no drag in progress")
)

// Gesture tracks one drag from pickup to drop. Hover state only drives the
// drop indicator; nothing reaches the store before Drop.
type Gesture struct {
	dropper *Dropper
	newID   func() string

	id     string
	phase  Phase
	last   Phase
	source Source
	target Target
	edge   Edge
}

// NewGesture creates an idle gesture that drops through d.
func NewGesture(d *Dropper) *Gesture {
	return &Gesture{
		dropper: d,
		newID:   uuid.NewString,
	}
}

func (g *Gesture) Phase() Phase     { return g.phase }
func (g *Gesture) ID() string       { return g.id }
func (g *Gesture) Source() Source   { return g.source }
func (g *Gesture) Target() Target   { return g.target }
func (g *Gesture) Edge() Edge       { return g.edge }
func (g *Gesture) LastPhase() Phase { return g.last }

// Active reports whether a drag is in progress.
func (g *Gesture) Active() bool {
	return g.phase == PhaseDragging || g.phase == PhaseHovering
}

// Start picks up src.
func (g *Gesture) Start(src Source) error {
	if g.Active() {
		return ErrGestureInProgress
	}
	if src.IsZero() {
		return ErrNoSource
	}
	g.id = g.newID()
	g.source = src
	g.target = Target{}
	g.edge = EdgeNone
	g.transition(PhaseDragging)
	return nil
}

// Hover moves the pointer over t at edge. An inadmissible target shows no edge.
func (g *Gesture) Hover(t Target, edge Edge) error {
	if !g.Active() {
		return ErrNoGesture
	}
	if !CanDrop(g.source, t) {
		edge = EdgeNone
	} else if !t.IsRow() {
		edge = EdgeBottom
	}
	g.target = t
	g.edge = edge
	g.transition(PhaseHovering)
	return nil
}

// Leave records that the pointer left every droppable region.
func (g *Gesture) Leave() error {
	if !g.Active() {
		return ErrNoGesture
	}
	g.target = Target{}
	g.edge = EdgeNone
	g.transition(PhaseHovering)
	return nil
}

// Cancel abandons the drag.
func (g *Gesture) Cancel() (Result, error) {
	if !g.Active() {
		return Result{}, ErrNoGesture
	}
	res := Result{Action: ActionCancelled, GestureID: g.id}
	g.finish(PhaseCancelled)
	return res, nil
}

// Drop releases the source on the hovered target. Without a target or an
// edge the gesture is cancelled instead.
func (g *Gesture) Drop(ctx context.Context) (Result, error) {
	if !g.Active() {
		return Result{}, ErrNoGesture
	}
	if g.target.IsZero() || g.edge == EdgeNone {
		return g.Cancel()
	}

	res, err := g.dropper.Drop(ctx, Request{
		GestureID: g.id,
		Source:    g.source,
		Target:    g.target,
		Edge:      g.edge,
	})
	g.finish(PhaseDropped)
	return res, err
}

func (g *Gesture) finish(p Phase) {
	g.transition(p)
	g.source = Source{}
	g.target = Target{}
	g.edge = EdgeNone
	g.transition(PhaseIdle)
}

func (g *Gesture) transition(p Phase) {
	if g.phase != p {
		log.Debug(log.CatDrag, "gesture", "id", g.id, "from", g.phase.String(), "to", p.String())
	}
	g.last = g.phase
	g.phase = p
}
