package token

import (
	"context"
	"fmt"

	"holskywallet/pkg/models"
	"holskywallet/pkg/wallet"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Reader performs read-only contract calls through the wallet.
type Reader interface {
	Available() bool
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// QueryService reads ERC-20 balances. Results are never cached.
type QueryService struct {
	wallet Reader
	log    *zap.Logger
}

func NewQueryService(r Reader, log *zap.Logger) *QueryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryService{wallet: r, log: log}
}

// Balance reads balanceOf(owner) and decimals() from the token contract.
// On ErrQueryFailed the balance is unknown; callers must not show it as zero.
func (s *QueryService) Balance(ctx context.Context, tokenAddr, owner string) (models.TokenHolding, error) {
	if s.wallet == nil || !s.wallet.Available() {
		return models.TokenHolding{}, wallet.ErrWalletUnavailable
	}
	if !common.IsHexAddress(tokenAddr) {
		return models.TokenHolding{}, fmt.Errorf("%w: token %q", wallet.ErrInvalidAddress, tokenAddr)
	}
	if !common.IsHexAddress(owner) {
		return models.TokenHolding{}, fmt.Errorf("%w: owner %q", wallet.ErrInvalidAddress, owner)
	}
	token := common.HexToAddress(tokenAddr)
	holder := common.HexToAddress(owner)

	data, err := packBalanceOf(holder)
	if err != nil {
		return models.TokenHolding{}, fmt.Errorf("%w: %w", wallet.ErrQueryFailed, err)
	}
	out, err := s.wallet.Call(ctx, token, data)
	if err != nil {
		return s.failed("balanceOf", token, err)
	}
	raw, err := unpackBalanceOf(out)
	if err != nil {
		return s.failed("balanceOf", token, err)
	}

	data, err = packDecimals()
	if err != nil {
		return models.TokenHolding{}, fmt.Errorf("%w: %w", wallet.ErrQueryFailed, err)
	}
	out, err = s.wallet.Call(ctx, token, data)
	if err != nil {
		return s.failed("decimals", token, err)
	}
	decimals, err := unpackDecimals(out)
	if err != nil {
		return s.failed("decimals", token, err)
	}

	return models.TokenHolding{
		Token:    token.Hex(),
		Owner:    holder.Hex(),
		Raw:      raw,
		Decimals: decimals,
	}, nil
}

func (s *QueryService) failed(method string, token common.Address, err error) (models.TokenHolding, error) {
	s.log.Error("token query failed",
		zap.String("method", method),
		zap.String("token", token.Hex()),
		zap.Error(err),
	)
	return models.TokenHolding{}, fmt.Errorf("%w: %s: %w", wallet.ErrQueryFailed, method, err)
}
