package cmd

import (
	"fmt"

	"holskywallet/pkg/session"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Connect, print the account balances and exit",
	Long: `Connect to the wallet, switch it to the target network if needed and print
the account's native and token balances.

A token balance that cannot be read is shown as unknown, never as zero.`,
	Args: cobra.NoArgs,
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	if err := setupLogger(false); err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, session.WithMinBusy(0))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.controller.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s := a.controller.Snapshot()

	fmt.Printf("🌐 Network: %s\n", color.CyanString("%s (%d)", cfg.Network.Name, cfg.Network.ChainID))
	fmt.Printf("📍 Address: %s\n", s.Address)
	fmt.Printf("🔷 %s: %s\n", cfg.Network.NativeCurrency.Symbol, color.GreenString(s.NativeBalance))

	h, err := a.query.Balance(ctx, cfg.Token.Address, s.Address)
	if err != nil {
		fmt.Printf("🪙 %s: %s (%v)\n", cfg.Token.Symbol, color.RedString("unknown"), err)
		return nil
	}
	fmt.Printf("🪙 %s: %s\n", cfg.Token.Symbol, color.GreenString(h.Display()))
	return nil
}
