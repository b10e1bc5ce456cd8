package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/schema"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [table]",
	Short: "List available tables and their schemas",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return showTable(a, args[0])
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TABLE\tCOLUMNS\tSTATUS\tFETCHED\tSOURCE")
		for _, def := range schema.All() {
			status, fetched, source := "not cached", "-", "-"
			if e, ok := a.store.Read(def.Name); ok {
				status = fmt.Sprintf("%d rows", len(e.Rows))
				fetched = e.FetchedAt.Local().Format(time.DateTime)
				source = e.Source.String()
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", def.Name, len(def.Columns), status, fetched, source)
		}
		return tw.Flush()
	},
}

func showTable(a *app, name string) error {
	def, ok := schema.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown table %q (known: %v)", name, schema.Names())
	}

	fmt.Printf("Table: %s\n", def.Name)
	if e, ok := a.store.Read(def.Name); ok {
		fmt.Printf("Status: cached (%d rows, source=%s, fetched %s)\n",
			len(e.Rows), e.Source, e.FetchedAt.Local().Format(time.DateTime))
	} else {
		fmt.Println("Status: not cached (run 'modelscout refresh' to fetch)")
	}

	fmt.Println("\nColumns:")
	for _, c := range def.Columns {
		null := "NULL"
		if !c.Nullable {
			null = "NOT NULL"
		}
		fmt.Printf("  %-20s %-8s %s\n", c.Name, c.Type, null)
	}
	return nil
}
