package wallet

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// EIP-1193 / EIP-3326 provider error codes.
const (
	CodeUserRejected      = 4001
	CodeUnrecognizedChain = 4902
)

var (
	ErrWalletUnavailable = errors.New("wallet unavailable")
	ErrUserRejected      = errors.New("request rejected by user")
	ErrProvider          = errors.New("wallet provider error")
	ErrQueryFailed       = errors.New("token query failed")
	ErrTransferRejected  = errors.New("transfer rejected by user")
	ErrTransferReverted  = errors.New("transfer reverted")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidAddress    = errors.New("invalid address")
)

// ErrorCode extracts the JSON-RPC error code from err, if it carries one.
func ErrorCode(err error) (int, bool) {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode(), true
	}
	return 0, false
}

// IsUnrecognizedChain reports whether a switch failed because the wallet does not know the chain.
func IsUnrecognizedChain(err error) bool {
	code, ok := ErrorCode(err)
	return ok && code == CodeUnrecognizedChain
}

// IsUserRejected reports whether the human operator declined the request.
func IsUserRejected(err error) bool {
	if errors.Is(err, ErrUserRejected) {
		return true
	}
	code, ok := ErrorCode(err)
	return ok && code == CodeUserRejected
}

// classify tags a provider failure with ErrUserRejected or ErrProvider, keeping the cause in the chain.
func classify(method string, err error) error {
	if err == nil {
		return nil
	}
	if code, ok := ErrorCode(err); ok && code == CodeUserRejected {
		return fmt.Errorf("%s: %w: %w", method, ErrUserRejected, err)
	}
	return fmt.Errorf("%s: %w: %w", method, ErrProvider, err)
}
