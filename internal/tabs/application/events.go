package application

// Op names the store call behind a StoreEvent.
type Op string

const (
	OpMoveTab     Op = "move-tab"
	OpSetPinned   Op = "set-pinned"
	OpMoveToSpace Op = "move-to-space"
	OpNavigate    Op = "navigate"
	OpReload      Op = "reload"
	OpSleep       Op = "sleep"
	OpSwitch      Op = "switch"
	OpClose       Op = "close"
	OpRefresh     Op = "refresh"
)

// StoreEvent describes one applied store command.
// SpaceID is empty when the tab could not be looked up, and for refreshes.
type StoreEvent struct {
	Op      Op
	TabID   int
	SpaceID string
}
