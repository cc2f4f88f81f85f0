package main

import (
	"fmt"

	"fondspod/internal/app"
	"fondspod/internal/config"
	"fondspod/internal/encryption"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults := app.GetDefaults()

		cfg := config.NewConfig(defaults["base_dir"])
		cfg.LogDir = defaults["log_dir"]

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration initialized at %s\n", defaults["config_path"])
		fmt.Fprintf(cmd.OutOrStdout(), "Base Dir: %s\n", cfg.BaseDir)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		fmt.Fprintf(out, "Language:     %s\n", cfg.Language)
		fmt.Fprintf(out, "Base Dir:     %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Log Dir:      %s\n", cfg.LogDir)
		fmt.Fprintf(out, "Database:     %s\n", cfg.Database.Type)
		fmt.Fprintf(out, "Encryption:   %s\n", encryption.Kind(cfg.Encryption))
		fmt.Fprintf(out, "Last Library: %s\n", cfg.LastOpenedLibrary)
		for _, v := range cfg.Vaults {
			fmt.Fprintf(out, "Vault:        %s (%s)\n", v.Name, v.Type)
		}
		fmt.Fprintf(out, "Libraries:    %d\n", len(cfg.Libraries))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
