package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modelscout/modelscout/internal/config"
)

func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage API credential profiles",
	}

	var apiKey string
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("--api-key is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			name := args[0]
			cfg.SetProfile(name, config.Profile{APIKey: apiKey})
			if cfg.DefaultProfile == "" {
				cfg.DefaultProfile = name
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("Profile %q saved.\n", name)
			return nil
		},
	}
	createCmd.Flags().StringVar(&apiKey, "api-key", "", "API key to store")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(cfg.Profiles) == 0 {
				fmt.Println("No profiles configured.")
				return nil
			}
			names := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				marker := " "
				if name == cfg.DefaultProfile {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
			return nil
		},
	}

	defaultCmd := &cobra.Command{
		Use:   "default <name>",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			name := args[0]
			if _, ok := cfg.Profile(name); !ok {
				return fmt.Errorf("profile %q not found", name)
			}
			cfg.DefaultProfile = name
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("Default profile set to %q.\n", name)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.RemoveProfile(args[0]) {
				return fmt.Errorf("profile %q not found", args[0])
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("Profile %q deleted.\n", args[0])
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a profile (key masked)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			name := cfg.DefaultProfile
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("no profile specified and no default set")
			}
			p, ok := cfg.Profile(name)
			if !ok {
				return fmt.Errorf("profile %q not found", name)
			}
			fmt.Printf("Profile: %s\n", name)
			fmt.Printf("API key: %s\n", maskKey(p.APIKey))
			fmt.Printf("Default: %v\n", name == cfg.DefaultProfile)
			return nil
		},
	}

	profileCmd.AddCommand(createCmd, listCmd, defaultCmd, deleteCmd, showCmd)
	return profileCmd
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
