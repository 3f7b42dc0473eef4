package models

import (
	"math/big"

	"holskywallet/pkg/utils"
)

// ConnectionState is the single status of a wallet session.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is a read-only view of the connection. Address is set only while Connected.
type Session struct {
	Address       string          `json:"address,omitempty"`
	NativeBalance string          `json:"native_balance"`
	State         ConnectionState `json:"state"`
	Busy          bool            `json:"busy"`
}

// TokenHolding is an ERC-20 balance. Raw is only meaningful together with Decimals.
type TokenHolding struct {
	Token    string   `json:"token"`
	Owner    string   `json:"owner"`
	Raw      *big.Int `json:"raw"`
	Decimals uint8    `json:"decimals"`
}

// Display renders the raw balance scaled by its decimals, e.g. "1.5".
func (h TokenHolding) Display() string {
	return utils.FormatUnits(h.Raw, h.Decimals)
}

// TransferRequest exists for the duration of one submit action.
type TransferRequest struct {
	Recipient string
	Amount    string
}

// TransferOutcome describes a confirmed transfer.
type TransferOutcome struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
	RawAmount   string `json:"raw_amount"`
}

// RPCResult holds check results for a specific RPC URL.
type RPCResult struct {
	URL     string `json:"url"`
	Status  string `json:"status"` // "ok" or "error"
	ChainID int64  `json:"chain_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NetworkReport holds the results of checking the configured RPC endpoints.
type NetworkReport struct {
	ConfigPath      string      `json:"config_path"`
	Name            string      `json:"name"`
	ConfigChainID   int64       `json:"config_chain_id"`
	RPCs            []RPCResult `json:"rpcs"`
	Inconsistent    bool        `json:"inconsistent"`
	ObservedChainID int64       `json:"observed_chain_id,omitempty"`
}
