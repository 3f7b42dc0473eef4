package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"holskywallet/pkg/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var forceFlag bool

// configCmd only resolves the path, so init and restore still work on a broken file.
var configCmd = &cobra.Command{
	Use:               "config",
	Short:             "Manage the configuration file",
	PersistentPreRunE: resolveConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgPath); err == nil && !forceFlag {
			return fmt.Errorf("%s already exists, use --force to overwrite (a backup is kept)", cfgPath)
		}
		if err := config.SaveConfig(config.DefaultConfig(), cfgPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Configuration written to %s\n", color.GreenString(cfgPath))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd, args); err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

var configRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the most recent configuration backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.RestoreLastBackup(cfgPath); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Printf("Restored last backup into %s\n", color.GreenString(cfgPath))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceFlag, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configRestoreCmd)
}
