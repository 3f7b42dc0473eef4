package cmd

import (
	"errors"

	"holskywallet/pkg/logger"
	"holskywallet/pkg/server"
	"holskywallet/pkg/wallet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run headless with an HTTP and websocket view of the session",
	Long: `Serve the wallet session over HTTP:

  GET  /api/session     current session, network and token
  GET  /api/token       token balance of the connected account
  POST /api/connect     connect the wallet
  POST /api/disconnect  clear the session
  GET  /ws              session events`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := setupLogger(false); err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.NewServer(a.controller, a.query, cfg, logger.Named("server"))
	go func() {
		if err := a.controller.AutoConnect(ctx); err != nil && !errors.Is(err, wallet.ErrWalletUnavailable) {
			logger.Log.Warn("initial connect failed", zap.Error(err))
		}
	}()
	return srv.Start(ctx, addrFlag)
}
