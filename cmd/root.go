package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"holskywallet/pkg/config"
	"holskywallet/pkg/logger"

	"github.com/spf13/cobra"
)

// Version is set by main.
var Version = "dev"

var (
	configFlag   string
	walletFlag   string
	logLevelFlag string

	cfg     config.AppConfig
	cfgPath string
)

// rootCmd runs the interactive wallet when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "holsky-wallet",
	Short: "Connect a wallet to Holsky and move ERC-20 tokens",
	Long: `holsky-wallet talks to an EIP-1193 wallet endpoint (for example a desktop
wallet listening on http://127.0.0.1:1248), makes sure it is on the Holsky
test network and shows the connected account with its ETH and token balance.

Examples:
  holsky-wallet                          # Interactive view
  holsky-wallet balance                  # Print balances and exit
  holsky-wallet send 0x1234... 2.5       # Send 2.5 tokens
  holsky-wallet network check            # Verify the configured RPC URLs
  holsky-wallet serve --addr :8080       # HTTP + websocket view of the session`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE:              runTUI,
}

// ExecuteContext runs the root command. Commands stop their wallet calls when ctx is done.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to configuration file (default ~/"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&walletFlag, "wallet", "", "wallet endpoint URL, overrides wallet_url")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func resolveConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.GetConfigPath(configFlag)
	if err != nil {
		return fmt.Errorf("error determining config path: %w", err)
	}
	cfgPath = path
	return nil
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := resolveConfigPath(cmd, args); err != nil {
		return err
	}
	path := cfgPath
	loaded, err := config.LoadConfigFromFile(path)
	if err != nil {
		return fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if walletFlag != "" {
		loaded.WalletURL = walletFlag
	}
	if logLevelFlag != "" {
		loaded.LogLevel = logLevelFlag
	}
	cfg = loaded
	return nil
}

// setupLogger logs to the configured file, or to stderr unless toFile is set, in which
// case a file next to the config is used so a full-screen view stays clean.
func setupLogger(toFile bool) error {
	path := cfg.LogFile
	if path == "" && toFile {
		path = filepath.Join(filepath.Dir(cfgPath), "holsky-wallet.log")
	}
	if err := logger.Init(cfg.LogLevel, path); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "holsky-wallet v%s\n", Version)
	},
}
