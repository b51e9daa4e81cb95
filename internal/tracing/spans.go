package tracing

// Span names.
const (
	SpanDrop       = "sidebar.drop"
	SpanReorder    = "sidebar.reorder"
	SpanMoveSpace  = "sidebar.move_to_space"
	SpanPutToSleep = "sidebar.put_to_sleep"
)

// Span attribute keys.
const (
	AttrGestureID    = "drag.gesture_id"
	AttrSourceKind   = "drag.source.kind"
	AttrSourceTabID  = "drag.source.tab_id"
	AttrSourceGroup  = "drag.source.group_id"
	AttrSourceSpace  = "drag.source.space_id"
	AttrTargetKind   = "drag.target.kind"
	AttrTargetIndex  = "drag.target.index"
	AttrTargetSpace  = "drag.target.space_id"
	AttrEdge         = "drag.edge"
	AttrPosition     = "drag.position"
	AttrAction       = "drop.action"
	AttrCommandCount = "drop.commands"
	AttrReason       = "drop.reason"
	AttrTabID        = "tab.id"
)
