package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/logger"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var (
	profileFlag  string
	logLevelFlag string

	rootCmd = &cobra.Command{
		Use:   "modelscout",
		Short: "Query AI model benchmarks and capabilities from the terminal",
		Long: `modelscout keeps a local cache of AI-model benchmark and capability
tables and lets you query them with SQL. Data comes from the hosted snapshot
release (no API key needed) or, with a configured key, straight from the
origin API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevelFlag)
		},
	}
)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "credential profile to use")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.AddCommand(llmsCmd)
	rootCmd.AddCommand(newMediaCmd("text-to-image", "text_to_image", "Browse the text-to-image leaderboard"))
	rootCmd.AddCommand(newMediaCmd("image-editing", "image_editing", "Browse the image-editing leaderboard"))
	rootCmd.AddCommand(newMediaCmd("text-to-speech", "text_to_speech", "Browse the text-to-speech leaderboard"))
	rootCmd.AddCommand(newMediaCmd("text-to-video", "text_to_video", "Browse the text-to-video leaderboard"))
	rootCmd.AddCommand(newMediaCmd("image-to-video", "image_to_video", "Browse the image-to-video leaderboard"))
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(quotaCmd)
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(infoCmd)
}
