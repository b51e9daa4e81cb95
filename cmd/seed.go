package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowbrowser/flowbar/internal/infrastructure/sqlite"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the tabs database with a demo profile",
	Long: `Write a demo profile with a few spaces, pinned tabs and tab groups to the
tabs database. An existing database is only replaced with --force.

Examples:
  flowbar seed
  flowbar seed --db /tmp/tabs.db --force`,
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

		return seedDemo(cmd.Context(), cmd.OutOrStdout(), rt, seedForce)
	},
}

func init() {
	seedCmd.Flags().BoolVarP(&seedForce, "force", "f", false, "replace existing tabs")
	rootCmd.AddCommand(seedCmd)
}

func seedDemo(ctx context.Context, w io.Writer, rt *backend, force bool) error {
	if !force {
		spaces, err := rt.service.Spaces(ctx, "")
		if err != nil {
			return err
		}
		if len(spaces) > 0 {
			return fmt.Errorf("%s already has %d spaces, use --force to replace them", rt.db.Path(), len(spaces))
		}
	}

	snap := sqlite.DemoSnapshot(time.Now())
	if err := rt.db.Seed(ctx, snap); err != nil {
		return err
	}
	rt.service.Refresh(ctx)

	_, err := fmt.Fprintf(w, "Seeded %s: %d spaces, %d pinned tabs, %d tab groups\n",
		rt.db.Path(), len(snap.Spaces), len(snap.Pinned), len(snap.Groups))
	return err
}
