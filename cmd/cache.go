package cmd

import (
	"fmt"
	"time"

	"github.com/labstack/gommon/bytes"
	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/schema"
)

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local data cache",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show cache location, entry count, and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			stats, err := a.store.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("Location: %s\n", stats.Location)
			fmt.Printf("Entries:  %d\n", stats.Entries)
			fmt.Printf("Size:     %s\n", bytes.Format(stats.TotalSize))
			if m, ok := a.store.LoadManifest(); ok {
				fmt.Printf("Snapshot: %s (generated %s)\n",
					m.Version, m.GeneratedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}

	var clearAll bool
	clearCmd := &cobra.Command{
		Use:   "clear [table]",
		Short: "Delete cached table data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				def, ok := schema.Lookup(args[0])
				if !ok {
					return fmt.Errorf("unknown table %q (known: %v)", args[0], schema.Names())
				}
				if err := a.store.Clear(def.Name); err != nil {
					return err
				}
				fmt.Printf("Cleared %s.\n", def.Name)
				return nil
			}

			if !clearAll {
				return fmt.Errorf("specify a table or pass --all")
			}
			if err := a.store.ClearAll(); err != nil {
				return err
			}
			fmt.Println("Cache cleared.")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "clear every table, the saved manifest, and quota records")

	cacheCmd.AddCommand(statusCmd)
	cacheCmd.AddCommand(clearCmd)
	return cacheCmd
}
