package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the last observed API quota for the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.hasCred {
			fmt.Println("No API key configured; quota tracking applies to origin API usage only.")
			fmt.Printf("Set %s or run 'modelscout profile create'.\n", "MODELSCOUT_API_KEY")
			return nil
		}

		q, ok := a.tracker.Last(a.cred.Profile)
		if !ok {
			fmt.Println("No quota data recorded yet.")
			fmt.Println("Run a command that hits the origin API (e.g. 'modelscout refresh --origin').")
			return nil
		}

		fmt.Printf("Profile:   %s\n", a.cred.Profile)
		fmt.Printf("Limit:     %d requests\n", q.Limit)
		fmt.Printf("Remaining: %d requests (%.1f%%)\n", q.Remaining, q.PercentRemaining())
		fmt.Printf("Resets:    %s\n", q.ResetAt)
		fmt.Printf("Observed:  %s\n", q.ObservedAt.Local().Format(time.DateTime))

		if q.Low() {
			fmt.Printf("\nWARNING: quota is low (%.1f%% remaining)\n", q.PercentRemaining())
		}
		return nil
	},
}
