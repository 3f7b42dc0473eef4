package network

import (
	"context"
	"fmt"
	"math/big"

	"holskywallet/pkg/config"
	"holskywallet/pkg/wallet"

	"go.uber.org/zap"
)

// ChainSwitcher is the slice of the wallet adapter the reconciler needs.
type ChainSwitcher interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SwitchChain(ctx context.Context, chainID *big.Int) error
	AddChain(ctx context.Context, n config.TargetNetwork) error
}

// Reconciler brings the wallet onto the target network.
type Reconciler struct {
	wallet ChainSwitcher
	target config.TargetNetwork
	log    *zap.Logger
}

func NewReconciler(w ChainSwitcher, target config.TargetNetwork, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{wallet: w, target: target, log: log}
}

// Target returns the network descriptor being enforced.
func (r *Reconciler) Target() config.TargetNetwork {
	return r.target
}

// Reconcile is a no-op when the wallet is already on the target chain. Otherwise it switches,
// falling back to a single add-chain request when the wallet does not know the chain.
// Other switch failures are returned as-is; nothing is retried.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	current, err := r.wallet.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("read chain id: %w", err)
	}

	target := big.NewInt(r.target.ChainID)
	if current.Cmp(target) == 0 {
		r.log.Debug("already on target network", zap.Int64("chain_id", r.target.ChainID))
		return nil
	}

	r.log.Info("switching network",
		zap.String("from", current.String()),
		zap.Int64("to", r.target.ChainID),
	)
	err = r.wallet.SwitchChain(ctx, target)
	if err == nil {
		return nil
	}
	if !wallet.IsUnrecognizedChain(err) {
		return fmt.Errorf("switch to chain %d: %w", r.target.ChainID, err)
	}

	// Adding the chain also activates it.
	r.log.Info("wallet does not know target network, adding it", zap.String("name", r.target.Name))
	if err := r.wallet.AddChain(ctx, r.target); err != nil {
		return fmt.Errorf("add chain %d: %w", r.target.ChainID, err)
	}
	return nil
}
