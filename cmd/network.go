package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"holskywallet/pkg/logger"
	"holskywallet/pkg/network"
	"holskywallet/pkg/wallet"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var jsonFlag bool

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect or switch the target network",
}

var networkCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify every configured RPC URL answers with the target chain id",
	Args:  cobra.NoArgs,
	RunE:  runNetworkCheck,
}

var networkSwitchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Ask the wallet to switch to the target network, adding it if unknown",
	Args:  cobra.NoArgs,
	RunE:  runNetworkSwitch,
}

func init() {
	networkCheckCmd.Flags().BoolVar(&jsonFlag, "json", false, "output results as JSON")
	networkCmd.AddCommand(networkCheckCmd)
	networkCmd.AddCommand(networkSwitchCmd)
}

func runNetworkCheck(cmd *cobra.Command, args []string) error {
	if err := setupLogger(false); err != nil {
		return err
	}
	if !jsonFlag {
		fmt.Printf("Testing network %s (chain %d) from %s\n", cfg.Network.Name, cfg.Network.ChainID, cfgPath)
	}

	report := network.CheckEndpoints(cmd.Context(), cfg.Network)
	report.ConfigPath = cfgPath

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		for _, r := range report.RPCs {
			switch {
			case r.Status != "ok":
				fmt.Printf("  RPC: %s ... %s %s\n", r.URL, color.RedString("Failed:"), r.Error)
			case r.Error != "":
				fmt.Printf("  RPC: %s ... OK (ChainID: %d) - %s\n", r.URL, r.ChainID, color.YellowString(r.Error))
			default:
				fmt.Printf("  RPC: %s ... OK (ChainID: %d) - %s\n", r.URL, r.ChainID, color.GreenString("Verified"))
			}
		}
		if report.Inconsistent {
			fmt.Println(color.YellowString("\nWARNING: Inconsistent RPCs detected!"))
			fmt.Println("The configured RPC URLs return conflicting chain ids.")
		}
	}

	if !network.Healthy(report) {
		return fmt.Errorf("network %s failed the check", cfg.Network.Name)
	}
	return nil
}

func runNetworkSwitch(cmd *cobra.Command, args []string) error {
	if err := setupLogger(false); err != nil {
		return err
	}
	ctx := cmd.Context()
	adapter, err := wallet.Dial(ctx, cfg.WalletURL)
	if err != nil {
		return err
	}
	defer adapter.Close()

	r := network.NewReconciler(adapter, cfg.Network, logger.Named("network"))
	if err := r.Reconcile(ctx); err != nil {
		return err
	}
	target := r.Target()
	fmt.Printf("🌐 Wallet is on %s\n", color.GreenString("%s (%d)", target.Name, target.ChainID))
	return nil
}
