package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/logger"
	"github.com/modelscout/modelscout/internal/output"
	"github.com/modelscout/modelscout/internal/query"
	"github.com/modelscout/modelscout/internal/resolver"
	"github.com/modelscout/modelscout/internal/schema"
)

var (
	queryFormat string
	queryOrigin bool

	queryCmd = &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL over the cached tables",
		Long: `Query executes SQL against the cached tables, resolving any
referenced table through the source chain first. Example:

  modelscout query "SELECT name, intelligence FROM benchmarks ORDER BY intelligence DESC LIMIT 10"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(queryFormat)
			if !ok {
				return fmt.Errorf("unknown format %q (table|json|csv|markdown|plain)", queryFormat)
			}

			a, err := newApp()
			if err != nil {
				return err
			}

			sql := args[0]
			referenced := query.ReferencedTables(sql)
			if len(referenced) == 0 {
				return fmt.Errorf("no known table referenced; available tables: %v", schema.Names())
			}

			engine, err := query.NewEngine(logger.Log)
			if err != nil {
				return err
			}
			defer engine.Close()

			for _, table := range referenced {
				res, err := a.resolver.Resolve(cmd.Context(), resolver.Request{
					Table:        table,
					PreferOrigin: queryOrigin,
				})
				if err != nil {
					return fmt.Errorf("resolve %s: %w", table, err)
				}
				def, _ := schema.Lookup(table)
				if err := engine.LoadTable(cmd.Context(), def, res.Table); err != nil {
					return err
				}
			}

			res, err := engine.Execute(cmd.Context(), sql)
			if err != nil {
				return err
			}
			if err := output.Render(os.Stdout, res, format); err != nil {
				return err
			}
			a.warnLowQuota()
			return nil
		},
	}
)

func init() {
	queryCmd.Flags().StringVarP(&queryFormat, "format", "f", "table", "output format (table|json|csv|markdown|plain)")
	queryCmd.Flags().BoolVar(&queryOrigin, "origin", false, "prefer the origin API over the hosted snapshot")
}
