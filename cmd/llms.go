package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/output"
	"github.com/modelscout/modelscout/internal/resolver"
	"github.com/modelscout/modelscout/internal/view"
)

var (
	llmsModel   string
	llmsCreator string
	llmsSort    string
	llmsFormat  string
	llmsOrigin  bool
	llmsRefresh bool

	llmsCmd = &cobra.Command{
		Use:   "llms",
		Short: "Browse the LLM benchmark leaderboard",
		Long: `Llms shows one row per model with intelligence, pricing, and
throughput. Narrow the list with --model/--creator and order it with --sort.
For anything beyond filter and sort, use 'modelscout query'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(llmsFormat)
			if !ok {
				return fmt.Errorf("unknown format %q (table|json|csv|markdown|plain)", llmsFormat)
			}
			sortKey, known := view.NormalizeSort(llmsSort)
			if !known {
				fmt.Fprintf(os.Stderr, "Unknown sort field %q. Using default order.\n", llmsSort)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			res, err := a.resolver.Resolve(cmd.Context(), resolver.Request{
				Table:        "benchmarks",
				ForceRefresh: llmsRefresh,
				PreferOrigin: llmsOrigin,
			})
			if err != nil {
				return err
			}

			ranked := view.Llms(res.Table, view.LlmFilter{
				Model:   llmsModel,
				Creator: llmsCreator,
				Sort:    sortKey,
			})
			if err := output.Render(os.Stdout, ranked, format); err != nil {
				return err
			}
			a.warnLowQuota()
			return nil
		},
	}
)

func init() {
	llmsCmd.Flags().StringVar(&llmsModel, "model", "", "filter by model name or slug")
	llmsCmd.Flags().StringVar(&llmsCreator, "creator", "", "filter by creator name or slug")
	llmsCmd.Flags().StringVar(&llmsSort, "sort", "", "sort by intelligence|price|speed")
	llmsCmd.Flags().StringVarP(&llmsFormat, "format", "f", "table", "output format (table|json|csv|markdown|plain)")
	llmsCmd.Flags().BoolVar(&llmsOrigin, "origin", false, "prefer the origin API over the hosted snapshot")
	llmsCmd.Flags().BoolVar(&llmsRefresh, "refresh", false, "refetch even if the cache is fresh")
}
