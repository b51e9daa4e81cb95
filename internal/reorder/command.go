package reorder

import (
	"context"
	"fmt"

	"github.com/flowbrowser/flowbar/internal/tabs/domain"
)

// CommandKind names a store command.
type CommandKind string

const (
	CmdMoveTab      CommandKind = "move-tab"
	CmdSetTabPinned CommandKind = "set-tab-pinned"
	CmdMoveToSpace  CommandKind = "move-tab-to-window-space"
)

// Command is a store command issued by a drop, in emission order.
type Command struct {
	Kind     CommandKind
	TabID    int
	Position int
	Pinned   bool
	SpaceID  string
}

func (c Command) String() string {
	switch c.Kind {
	case CmdMoveTab:
		return fmt.Sprintf("moveTab(%d, %d)", c.TabID, c.Position)
	case CmdSetTabPinned:
		return fmt.Sprintf("setTabPinned(%d, %t)", c.TabID, c.Pinned)
	case CmdMoveToSpace:
		return fmt.Sprintf("moveTabToWindowSpace(%d, %s, %d)", c.TabID, c.SpaceID, c.Position)
	default:
		return string(c.Kind)
	}
}

// issuer sends commands to the store and keeps the ones that succeeded.
type issuer struct {
	store domain.TabCommander
	sent  []Command
}

func (i *issuer) moveTab(ctx context.Context, tabID, pos int) error {
	if err := i.store.MoveTab(ctx, tabID, pos); err != nil {
		return fmt.Errorf("move tab %d to %d: %w", tabID, pos, err)
	}
	i.sent = append(i.sent, Command{Kind: CmdMoveTab, TabID: tabID, Position: pos})
	return nil
}

func (i *issuer) setPinned(ctx context.Context, tabID int, pinned bool) error {
	if err := i.store.SetTabPinned(ctx, tabID, pinned); err != nil {
		return fmt.Errorf("set tab %d pinned=%t: %w", tabID, pinned, err)
	}
	i.sent = append(i.sent, Command{Kind: CmdSetTabPinned, TabID: tabID, Pinned: pinned})
	return nil
}

func (i *issuer) moveToSpace(ctx context.Context, tabID int, spaceID string, pos int) error {
	if err := i.store.MoveTabToWindowSpace(ctx, tabID, spaceID, pos); err != nil {
		return fmt.Errorf("move tab %d to space %s: %w", tabID, spaceID, err)
	}
	i.sent = append(i.sent, Command{Kind: CmdMoveToSpace, TabID: tabID, SpaceID: spaceID, Position: pos})
	return nil
}

// Recorder is a TabStore that answers queries from an underlying querier and
// records commands instead of applying them. It backs dry runs.
type Recorder struct {
	domain.TabQuerier
	Commands []Command
}

var _ domain.TabStore = (*Recorder)(nil)

// NewRecorder wraps q.
func NewRecorder(q domain.TabQuerier) *Recorder {
	return &Recorder{TabQuerier: q}
}

func (r *Recorder) MoveTab(_ context.Context, tabID int, newPosition int) error {
	r.Commands = append(r.Commands, Command{Kind: CmdMoveTab, TabID: tabID, Position: newPosition})
	return nil
}

func (r *Recorder) SetTabPinned(_ context.Context, tabID int, pinned bool, _ ...domain.PinOption) error {
	r.Commands = append(r.Commands, Command{Kind: CmdSetTabPinned, TabID: tabID, Pinned: pinned})
	return nil
}

func (r *Recorder) MoveTabToWindowSpace(_ context.Context, tabID int, spaceID string, newPosition int) error {
	r.Commands = append(r.Commands, Command{Kind: CmdMoveToSpace, TabID: tabID, SpaceID: spaceID, Position: newPosition})
	return nil
}

// Replay sends cmds to store in order and stops at the first failure.
func Replay(ctx context.Context, store domain.TabCommander, cmds []Command) error {
	iss := &issuer{store: store}
	for _, c := range cmds {
		var err error
		switch c.Kind {
		case CmdMoveTab:
			err = iss.moveTab(ctx, c.TabID, c.Position)
		case CmdSetTabPinned:
			err = iss.setPinned(ctx, c.TabID, c.Pinned)
		case CmdMoveToSpace:
			err = iss.moveToSpace(ctx, c.TabID, c.SpaceID, c.Position)
		default:
			err = fmt.Errorf("unknown command %q", c.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
