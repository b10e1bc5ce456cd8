package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/config"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show version, paths, and the active profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		configPath, err := config.Path()
		if err != nil {
			return err
		}
		cacheDir, err := config.CacheDir()
		if err != nil {
			return err
		}

		fmt.Printf("modelscout %s\n\n", version)
		fmt.Printf("Config: %s\n", configPath)
		fmt.Printf("Cache:  %s\n", cacheDir)

		if cred, ok := cfg.ResolveKey(profileFlag); ok {
			fmt.Printf("Profile: %s (key configured)\n", cred.Profile)
		} else {
			fmt.Println("Profile: none (hosted snapshot only)")
		}
		return nil
	},
}
