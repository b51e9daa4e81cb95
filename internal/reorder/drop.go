package reorder

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flowbrowser/flowbar/internal/log"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/tracing"
)

// Action is the outcome of a drop.
type Action string

const (
	// ActionRejected means the target refused the source. Nothing was sent.
	ActionRejected Action = "rejected"
	// ActionUnsupported means the move crosses profiles. Nothing was sent.
	ActionUnsupported Action = "unsupported"
	// ActionCancelled means the gesture ended without a drop edge.
	ActionCancelled Action = "cancelled"
	// ActionReordered means the destination list in the same space was reordered.
	ActionReordered Action = "reordered"
	// ActionMovedToSpace means the source was appended to another space.
	ActionMovedToSpace Action = "moved-to-space"
)

// Request is a single drop.
type Request struct {
	GestureID string
	Source    Source
	Target    Target
	Edge      Edge
}

// Result reports what a drop did. Commands holds every command the store
// accepted, in emission order, including the ones sent before a failure.
type Result struct {
	Action    Action
	Reason    error
	Commands  []Command
	GestureID string
}

// Dropper dispatches drops to the engine or the coordinator.
type Dropper struct {
	engine      *Engine
	coordinator *Coordinator
	tracer      trace.Tracer
}

// DropperOption configures a Dropper.
type DropperOption func(*Dropper)

// WithTracer records one span per drop.
func WithTracer(tr trace.Tracer) DropperOption {
	return func(d *Dropper) {
		if tr != nil {
			d.tracer = tr
		}
	}
}

// NewDropper creates a dropper whose engine and coordinator share store.
func NewDropper(store domain.TabStore, opts ...DropperOption) *Dropper {
	d := &Dropper{
		engine:      NewEngine(store),
		coordinator: NewCoordinator(store),
		tracer:      tracing.NoopTracer(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Drop checks admissibility and applies req. A refused drop returns a result
// with a reason and a nil error; the error is reserved for store failures.
func (d *Dropper) Drop(ctx context.Context, req Request) (Result, error) {
	ctx, span := d.tracer.Start(ctx, tracing.SpanDrop)
	defer span.End()

	src, t := req.Source, req.Target
	span.SetAttributes(
		attribute.String(tracing.AttrGestureID, req.GestureID),
		attribute.String(tracing.AttrSourceKind, string(src.Kind())),
		attribute.Int(tracing.AttrSourceTabID, src.TabID()),
		attribute.Int(tracing.AttrSourceGroup, src.TabGroupID()),
		attribute.String(tracing.AttrSourceSpace, src.SpaceID()),
		attribute.String(tracing.AttrTargetKind, string(t.Kind())),
		attribute.Int(tracing.AttrTargetIndex, t.Index()),
		attribute.String(tracing.AttrTargetSpace, t.SpaceID()),
		attribute.String(tracing.AttrEdge, req.Edge.String()),
	)

	res, err := d.dispatch(ctx, req)
	res.GestureID = req.GestureID

	span.SetAttributes(
		attribute.String(tracing.AttrAction, string(res.Action)),
		attribute.Int(tracing.AttrCommandCount, len(res.Commands)),
	)
	if res.Reason != nil {
		span.SetAttributes(attribute.String(tracing.AttrReason, res.Reason.Error()))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatDrag, "drop failed", err,
			"gesture", req.GestureID, "source", src.String(), "target", t.String(), "sent", len(res.Commands))
		return res, err
	}
	span.SetStatus(codes.Ok, "")

	log.Info(log.CatDrag, "drop",
		"gesture", req.GestureID, "action", string(res.Action),
		"source", src.String(), "target", t.String(), "edge", req.Edge.String(),
		"commands", len(res.Commands))
	return res, nil
}

func (d *Dropper) dispatch(ctx context.Context, req Request) (Result, error) {
	src, t := req.Source, req.Target

	if err := Check(src, t); err != nil {
		if errors.Is(err, ErrCrossProfile) {
			return Result{Action: ActionUnsupported, Reason: err}, nil
		}
		return Result{Action: ActionRejected, Reason: err}, nil
	}

	if src.SpaceID() != t.SpaceID() {
		cmds, err := d.coordinator.Move(ctx, src, t)
		if errors.Is(err, ErrCrossProfile) {
			return Result{Action: ActionUnsupported, Reason: err}, nil
		}
		return Result{Action: ActionMovedToSpace, Commands: cmds}, err
	}

	if t.IsRow() && req.Edge == EdgeNone {
		return Result{Action: ActionCancelled}, nil
	}

	pos := t.DropPosition(req.Edge)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Float64(tracing.AttrPosition, pos))
	spaceID := t.SpaceID()
	tabID := src.TabID()

	var (
		cmds []Command
		err  error
	)
	switch {
	case src.Kind() == SourcePinnedTab && t.PinnedList():
		cmds, err = d.engine.MovePinnedTab(ctx, spaceID, tabID, pos)
	case src.Kind() == SourcePinnedTab:
		cmds, err = d.engine.UnpinAndMove(ctx, spaceID, tabID, pos)
	case t.PinnedList():
		cmds, err = d.engine.PinAndMove(ctx, spaceID, tabID, pos)
	default:
		cmds, err = d.engine.MoveTabGroup(ctx, spaceID, tabID, pos)
	}
	return Result{Action: ActionReordered, Commands: cmds}, err
}
