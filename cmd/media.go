package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/output"
	"github.com/modelscout/modelscout/internal/resolver"
	"github.com/modelscout/modelscout/internal/view"
)

// newMediaCmd builds one leaderboard command over a media table. The five
// media commands differ only in which table they resolve.
func newMediaCmd(use, table, short string) *cobra.Command {
	var (
		formatFlag  string
		originFlag  bool
		refreshFlag bool
	)

	c := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(formatFlag)
			if !ok {
				return fmt.Errorf("unknown format %q (table|json|csv|markdown|plain)", formatFlag)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			res, err := a.resolver.Resolve(cmd.Context(), resolver.Request{
				Table:        table,
				ForceRefresh: refreshFlag,
				PreferOrigin: originFlag,
			})
			if err != nil {
				return err
			}

			if err := output.Render(os.Stdout, view.Media(res.Table), format); err != nil {
				return err
			}
			a.warnLowQuota()
			return nil
		},
	}

	c.Flags().StringVarP(&formatFlag, "format", "f", "table", "output format (table|json|csv|markdown|plain)")
	c.Flags().BoolVar(&originFlag, "origin", false, "prefer the origin API over the hosted snapshot")
	c.Flags().BoolVar(&refreshFlag, "refresh", false, "refetch even if the cache is fresh")
	return c
}
