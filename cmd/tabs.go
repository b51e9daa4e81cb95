package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowbrowser/flowbar/internal/infrastructure/sqlite"
	"github.com/flowbrowser/flowbar/internal/reorder"
	"github.com/flowbrowser/flowbar/internal/tabs/domain"
	"github.com/flowbrowser/flowbar/internal/ui/markdown"
	"github.com/flowbrowser/flowbar/internal/ui/preview"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Inspect and reorder tabs without the sidebar",
}

type listOptions struct {
	space   string
	plain   bool
	width   int
	profile string
	style   string
}

var listOpts listOptions

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the pinned tabs and tab groups of each space",
	Long: `Print the pinned tabs and tab groups of each space as markdown.

Without --space every space of the configured profile is listed.

Examples:
  flowbar tabs list
  flowbar tabs list --space work
  flowbar tabs list --plain | less`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer rt.shutdown()

		opts := listOpts
		opts.profile = cfg.Profile
		opts.style = cfg.UI.MarkdownStyle
		return listTabs(cmd.Context(), cmd.OutOrStdout(), rt, opts)
	},
}

type dropOptions struct {
	tab     int
	ontoTab int
	ontoEnd string
	space   string
	edge    string
	dryRun  bool
}

var dropOpts dropOptions

var tabsDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop a pinned tab or tab group onto another row",
	Long: `Drop a pinned tab or the tab group holding --tab onto another row, exactly
as dragging it in the sidebar would.

--onto-tab drops on the row of that tab, above or below it per --edge.
--onto-end appends to the "pinned" or "groups" list of --space (default:
the space of --tab). Dropping onto a row in another space appends there.

Examples:
  # Move pinned tab 1 below pinned tab 3
  flowbar tabs drop --tab 1 --onto-tab 3 --edge bottom

  # Pin the group of tab 12 at the end of the pinned list
  flowbar tabs drop --tab 12 --onto-end pinned

  # Preview without writing
  flowbar tabs drop --tab 1 --onto-tab 3 --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		closeLog, err := setupLogging(false)
		if err != nil {
			return err
		}
		defer closeLog()

		rt, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer rt.shutdown()
		return dropTab(cmd.Context(), cmd.OutOrStdout(), rt, dropOpts)
	},
}

func init() {
	tabsListCmd.Flags().StringVar(&listOpts.space, "space", "", "only list this space")
	tabsListCmd.Flags().BoolVar(&listOpts.plain, "plain", false, "print raw markdown")
	tabsListCmd.Flags().IntVar(&listOpts.width, "width", 80, "wrap width")

	tabsDropCmd.Flags().IntVar(&dropOpts.tab, "tab", 0, "tab to drag (a pinned tab or any tab of a group)")
	tabsDropCmd.Flags().IntVar(&dropOpts.ontoTab, "onto-tab", 0, "tab whose row receives the drop")
	tabsDropCmd.Flags().StringVar(&dropOpts.ontoEnd, "onto-end", "", `append to a list: "pinned" or "groups"`)
	tabsDropCmd.Flags().StringVar(&dropOpts.space, "space", "", "space of --onto-end (default: the space of --tab)")
	tabsDropCmd.Flags().StringVar(&dropOpts.edge, "edge", "bottom", `edge of --onto-tab: "top" or "bottom"`)
	tabsDropCmd.Flags().BoolVar(&dropOpts.dryRun, "dry-run", false, "show the change without writing it")
	_ = tabsDropCmd.MarkFlagRequired("tab")
	tabsDropCmd.MarkFlagsMutuallyExclusive("onto-tab", "onto-end")
	tabsDropCmd.MarkFlagsOneRequired("onto-tab", "onto-end")

	tabsCmd.AddCommand(tabsListCmd, tabsDropCmd)
	rootCmd.AddCommand(tabsCmd)
}

func listTabs(ctx context.Context, w io.Writer, rt *backend, opts listOptions) error {
	var spaces []domain.Space
	if opts.space != "" {
		sp, err := rt.service.Space(ctx, opts.space)
		if err != nil {
			return err
		}
		spaces = []domain.Space{sp}
	} else {
		var err error
		if spaces, err = rt.service.Spaces(ctx, opts.profile); err != nil {
			return err
		}
	}
	if len(spaces) == 0 {
		_, err := fmt.Fprintln(w, "No spaces. Run `flowbar seed` for a demo profile.")
		return err
	}

	docs := make([]string, 0, len(spaces))
	for _, sp := range spaces {
		pinned, err := rt.service.PinnedTabs(ctx, sp.ID)
		if err != nil {
			return err
		}
		groups, err := rt.service.TabGroups(ctx, sp.ID)
		if err != nil {
			return err
		}
		active, ok, err := rt.service.ActiveTabGroup(ctx, sp.ID)
		if err != nil {
			return err
		}
		activeID := 0
		if ok {
			activeID = active.ID
		}
		docs = append(docs, markdown.Space(sp, pinned, groups, activeID))
	}
	doc := strings.Join(docs, "\n---\n\n")

	if opts.plain {
		_, err := io.WriteString(w, doc)
		return err
	}
	r, err := markdown.New(opts.style, opts.width)
	if err != nil {
		return err
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("rendering tab list: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func dropTab(ctx context.Context, w io.Writer, rt *backend, opts dropOptions) error {
	src, err := resolveSource(ctx, rt.service, opts.tab)
	if err != nil {
		return err
	}
	target, err := resolveTarget(ctx, rt.service, src, opts)
	if err != nil {
		return err
	}
	edge := reorder.ParseEdge(opts.edge)
	if edge == reorder.EdgeNone {
		return fmt.Errorf("invalid --edge %q: want top or bottom", opts.edge)
	}

	req := reorder.Request{GestureID: uuid.NewString(), Source: src, Target: target, Edge: edge}
	if opts.dryRun {
		return previewDrop(ctx, w, rt, req)
	}

	res, err := rt.dropper.Drop(ctx, req)
	if err != nil {
		return err
	}
	return printResult(w, res)
}

// previewDrop runs req against a recorder, replays the recorded commands on a
// scratch copy of the database and prints the difference.
func previewDrop(ctx context.Context, w io.Writer, rt *backend, req reorder.Request) error {
	rec := reorder.NewRecorder(rt.service)
	res, err := reorder.NewDropper(rec).Drop(ctx, req)
	if err != nil {
		return err
	}
	if err := printResult(w, res); err != nil {
		return err
	}
	if len(res.Commands) == 0 {
		return nil
	}

	dir, err := os.MkdirTemp("", "flowbar-dry-run-*")
	if err != nil {
		return fmt.Errorf("creating scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	scratch, err := sqlite.NewDB(filepath.Join(dir, "tabs.db"))
	if err != nil {
		return err
	}
	defer func() { _ = scratch.Close() }()

	snap, err := rt.db.TabRepository().Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := scratch.Seed(ctx, snap); err != nil {
		return err
	}
	if err := reorder.Replay(ctx, scratch.TabRepository(), res.Commands); err != nil {
		return fmt.Errorf("replaying on scratch copy: %w", err)
	}

	spaceIDs := []string{req.Source.SpaceID()}
	if id := req.Target.SpaceID(); id != req.Source.SpaceID() {
		spaceIDs = append(spaceIDs, id)
	}
	var before, after []string
	for _, id := range spaceIDs {
		b, err := spaceLines(ctx, rt.service, id)
		if err != nil {
			return err
		}
		a, err := spaceLines(ctx, scratch.TabRepository(), id)
		if err != nil {
			return err
		}
		before = append(before, b...)
		after = append(after, a...)
	}

	_, err = fmt.Fprintf(w, "\n%s", preview.Diff(before, after))
	return err
}

func spaceLines(ctx context.Context, q domain.Store, spaceID string) ([]string, error) {
	sp, err := q.Space(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	pinned, err := q.PinnedTabs(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	groups, err := q.TabGroups(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	return preview.Lines(sp, pinned, groups), nil
}

func printResult(w io.Writer, res reorder.Result) error {
	line := string(res.Action)
	if res.Reason != nil {
		line += ": " + res.Reason.Error()
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range res.Commands {
		if _, err := fmt.Fprintf(w, "  %s\n", c); err != nil {
			return err
		}
	}
	return nil
}

// resolveSource classifies the row holding tabID.
func resolveSource(ctx context.Context, q domain.Store, tabID int) (reorder.Source, error) {
	tab, err := q.Tab(ctx, tabID)
	if err != nil {
		return reorder.Source{}, err
	}
	if tab.IsPinned {
		idx, err := pinnedIndex(ctx, q, tab)
		if err != nil {
			return reorder.Source{}, err
		}
		return reorder.NewPinnedTabSource(tab, idx), nil
	}
	group, idx, err := groupOf(ctx, q, tab)
	if err != nil {
		return reorder.Source{}, err
	}
	return reorder.NewTabGroupSource(group, idx), nil
}

func resolveTarget(ctx context.Context, q domain.Store, src reorder.Source, opts dropOptions) (reorder.Target, error) {
	if opts.ontoTab != 0 {
		tab, err := q.Tab(ctx, opts.ontoTab)
		if err != nil {
			return reorder.Target{}, err
		}
		if tab.IsPinned {
			idx, err := pinnedIndex(ctx, q, tab)
			if err != nil {
				return reorder.Target{}, err
			}
			return reorder.PinnedTabTarget(tab, idx), nil
		}
		group, idx, err := groupOf(ctx, q, tab)
		if err != nil {
			return reorder.Target{}, err
		}
		return reorder.TabGroupTarget(group, idx), nil
	}

	spaceID := opts.space
	if spaceID == "" {
		spaceID = src.SpaceID()
	}
	space, err := q.Space(ctx, spaceID)
	if err != nil {
		return reorder.Target{}, err
	}
	switch opts.ontoEnd {
	case "pinned":
		pinned, err := q.PinnedTabs(ctx, spaceID)
		if err != nil {
			return reorder.Target{}, err
		}
		return reorder.PinnedListTarget(space, len(pinned)), nil
	case "groups":
		groups, err := q.TabGroups(ctx, spaceID)
		if err != nil {
			return reorder.Target{}, err
		}
		return reorder.GroupListTarget(space, len(groups)), nil
	default:
		return reorder.Target{}, fmt.Errorf("invalid --onto-end %q: want pinned or groups", opts.ontoEnd)
	}
}

var errNoRow = errors.New("tab has no sidebar row")

func pinnedIndex(ctx context.Context, q domain.Store, tab domain.Tab) (int, error) {
	pinned, err := q.PinnedTabs(ctx, tab.SpaceID)
	if err != nil {
		return 0, err
	}
	for i, t := range pinned {
		if t.ID == tab.ID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("pinned tab %d: %w", tab.ID, errNoRow)
}

func groupOf(ctx context.Context, q domain.Store, tab domain.Tab) (domain.TabGroup, int, error) {
	groups, err := q.TabGroups(ctx, tab.SpaceID)
	if err != nil {
		return domain.TabGroup{}, 0, err
	}
	for i, g := range groups {
		if g.HasTab(tab.ID) {
			return g, i, nil
		}
	}
	return domain.TabGroup{}, 0, fmt.Errorf("tab %d: %w", tab.ID, errNoRow)
}
