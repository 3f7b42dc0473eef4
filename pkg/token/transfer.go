package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"holskywallet/pkg/models"
	"holskywallet/pkg/utils"
	"holskywallet/pkg/wallet"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

var DefaultPollInterval = 2 * time.Second

// Sender submits transactions through the wallet and reads their receipts.
type Sender interface {
	Available() bool
	SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// TransferService submits ERC-20 transfers. Each call is a single attempt.
type TransferService struct {
	wallet       Sender
	pollInterval time.Duration
	log          *zap.Logger
}

func NewTransferService(s Sender, pollInterval time.Duration, log *zap.Logger) *TransferService {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TransferService{wallet: s, pollInterval: pollInterval, log: log}
}

// Transfer sends req.Amount (a decimal string scaled by decimals) of tokenAddr from `from`
// to req.Recipient and waits until the transaction is mined.
func (s *TransferService) Transfer(ctx context.Context, tokenAddr, from string, req models.TransferRequest, decimals uint8) (models.TransferOutcome, error) {
	if s.wallet == nil || !s.wallet.Available() {
		return models.TransferOutcome{}, wallet.ErrWalletUnavailable
	}
	for _, a := range []struct{ name, value string }{
		{"token", tokenAddr}, {"sender", from}, {"recipient", req.Recipient},
	} {
		if !common.IsHexAddress(a.value) {
			return models.TransferOutcome{}, fmt.Errorf("%w: %s %q", wallet.ErrInvalidAddress, a.name, a.value)
		}
	}

	amount, err := utils.ParseUnits(req.Amount, decimals)
	if err != nil {
		return models.TransferOutcome{}, fmt.Errorf("%w: %w", wallet.ErrInvalidAmount, err)
	}
	if amount.Sign() == 0 {
		return models.TransferOutcome{}, fmt.Errorf("%w: amount must be greater than zero", wallet.ErrInvalidAmount)
	}

	token := common.HexToAddress(tokenAddr)
	recipient := common.HexToAddress(req.Recipient)
	data, err := packTransfer(recipient, amount)
	if err != nil {
		return models.TransferOutcome{}, fmt.Errorf("%w: %w", wallet.ErrInvalidAmount, err)
	}

	s.log.Info("submitting token transfer",
		zap.String("token", token.Hex()),
		zap.String("to", recipient.Hex()),
		zap.String("amount", req.Amount),
		zap.String("raw", amount.String()),
	)
	hash, err := s.wallet.SendTransaction(ctx, common.HexToAddress(from), token, data)
	if err != nil {
		if wallet.IsUserRejected(err) {
			return models.TransferOutcome{}, fmt.Errorf("%w: %w", wallet.ErrTransferRejected, err)
		}
		return models.TransferOutcome{}, fmt.Errorf("submit transfer: %w", err)
	}

	outcome := models.TransferOutcome{TxHash: hash.Hex(), RawAmount: amount.String()}
	receipt, err := s.waitMined(ctx, hash)
	if err != nil {
		return outcome, fmt.Errorf("wait for %s: %w", hash.Hex(), err)
	}
	if receipt.BlockNumber != nil {
		outcome.BlockNumber = receipt.BlockNumber.Uint64()
	}
	outcome.GasUsed = receipt.GasUsed

	if receipt.Status != types.ReceiptStatusSuccessful {
		s.log.Warn("token transfer reverted", zap.String("tx", hash.Hex()))
		return outcome, fmt.Errorf("%w: %s", wallet.ErrTransferReverted, hash.Hex())
	}
	s.log.Info("token transfer confirmed", zap.String("tx", hash.Hex()), zap.Uint64("block", outcome.BlockNumber))
	return outcome, nil
}

// waitMined polls for the receipt until it exists or ctx is done.
func (s *TransferService) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.wallet.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		s.log.Debug("transaction not yet mined", zap.String("tx", hash.Hex()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
