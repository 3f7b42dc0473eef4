package cmd

import (
	"context"

	"holskywallet/pkg/logger"
	"holskywallet/pkg/network"
	"holskywallet/pkg/session"
	"holskywallet/pkg/token"
	"holskywallet/pkg/wallet"
)

// app wires the wallet adapter into the controller and token services.
type app struct {
	adapter    *wallet.Adapter
	controller *session.Controller
	query      *token.QueryService
	transfer   *token.TransferService
}

func newApp(ctx context.Context, opts ...session.Option) (*app, error) {
	adapter, err := wallet.Dial(ctx, cfg.WalletURL)
	if err != nil {
		return nil, err
	}

	reconciler := network.NewReconciler(adapter, cfg.Network, logger.Named("network"))
	base := []session.Option{
		session.WithMinBusy(cfg.MinBusy()),
		session.WithLogger(logger.Named("session")),
		session.WithNativeDecimals(cfg.Network.NativeCurrency.Decimals),
	}
	controller := session.NewController(adapter, reconciler, append(base, opts...)...)

	return &app{
		adapter:    adapter,
		controller: controller,
		query:      token.NewQueryService(adapter, logger.Named("token")),
		transfer:   token.NewTransferService(adapter, cfg.ReceiptPollInterval(), logger.Named("transfer")),
	}, nil
}

func (a *app) Close() {
	a.adapter.Close()
	logger.Sync()
}
