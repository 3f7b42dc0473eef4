package cmd

import (
	"fmt"
	"os"
	"time"

	"holskywallet/pkg/models"
	"holskywallet/pkg/session"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <recipient> <amount>",
	Short: "Send tokens to an address",
	Long: `Send the configured ERC-20 token from the connected account. The amount is a
decimal string in token units, e.g. 2.5. The wallet asks for confirmation and
the command waits until the transaction is mined.

Examples:
  holsky-wallet send 0x1234567890123456789012345678901234567890 2.5`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
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
	from := a.controller.Snapshot().Address

	h, err := a.query.Balance(ctx, cfg.Token.Address, from)
	if err != nil {
		return fmt.Errorf("read token decimals: %w", err)
	}

	req := models.TransferRequest{Recipient: args[0], Amount: args[1]}
	fmt.Printf("💸 Sending %s %s from %s to %s\n", req.Amount, cfg.Token.Symbol, from, req.Recipient)
	fmt.Printf("   Balance before: %s %s\n", h.Display(), cfg.Token.Symbol)

	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Waiting for wallet confirmation and mining..."
	s.Start()
	out, err := a.transfer.Transfer(ctx, cfg.Token.Address, from, req, h.Decimals)
	s.Stop()

	if out.TxHash != "" {
		fmt.Printf("🧾 Transaction: %s\n", out.TxHash)
		if url := cfg.Network.ExplorerTxURL(out.TxHash); url != "" {
			fmt.Printf("   %s\n", url)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s in block %d (gas used %d)\n", color.GreenString("✅ Confirmed"), out.BlockNumber, out.GasUsed)
	return nil
}
