package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/modelscout/modelscout/internal/resolver"
	"github.com/modelscout/modelscout/internal/schema"
)

var (
	refreshForce  bool
	refreshOrigin bool
	refreshQuiet  bool

	refreshCmd = &cobra.Command{
		Use:   "refresh [table...]",
		Short: "Fetch and cache table data",
		Long: `Refresh resolves each table through the source chain (local cache,
hosted snapshot, origin API) and caches the result. With no arguments every
registered table is refreshed. Tables refresh concurrently; each one's cache
file is replaced atomically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			tables := args
			if len(tables) == 0 {
				tables = schema.Names()
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			for _, table := range tables {
				table := table
				g.Go(func() error {
					res, err := a.resolver.Resolve(ctx, resolver.Request{
						Table:        table,
						ForceRefresh: refreshForce,
						PreferOrigin: refreshOrigin,
					})
					if err != nil {
						return fmt.Errorf("refresh %s: %w", table, err)
					}
					if !refreshQuiet {
						fmt.Fprintf(os.Stderr, "Refreshed %s (%d rows, source=%s)\n",
							table, res.Table.RowCount(), res.Source)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if !refreshQuiet {
				fmt.Fprintln(os.Stderr, "\nAll tables refreshed. Run 'modelscout tables' to see what's available.")
			}
			a.warnLowQuota()
			return nil
		},
	}
)

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "refetch even if the cache is fresh")
	refreshCmd.Flags().BoolVar(&refreshOrigin, "origin", false, "prefer the origin API over the hosted snapshot")
	refreshCmd.Flags().BoolVarP(&refreshQuiet, "quiet", "q", false, "suppress progress output")
}
