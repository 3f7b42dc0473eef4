package wallet

import (
	"context"
	"fmt"
	"math/big"

	"holskywallet/pkg/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

// Provider is the injected wallet object. *rpc.Client satisfies it.
type Provider interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Adapter exposes the wallet's account and chain RPCs.
type Adapter struct {
	provider Provider
	close    func()
}

// NewAdapter wraps p. A nil p produces an adapter that reports ErrWalletUnavailable on every call.
func NewAdapter(p Provider) *Adapter {
	return &Adapter{provider: p}
}

// Dial connects to a wallet endpoint (http, ws or ipc). An empty url means no wallet is present.
func Dial(ctx context.Context, url string) (*Adapter, error) {
	if url == "" {
		return NewAdapter(nil), nil
	}
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWalletUnavailable, err)
	}
	return &Adapter{provider: client, close: client.Close}, nil
}

func (a *Adapter) Close() {
	if a.close != nil {
		a.close()
	}
}

// Available reports whether a wallet object was injected.
func (a *Adapter) Available() bool {
	return a != nil && a.provider != nil
}

func (a *Adapter) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	if !a.Available() {
		return ErrWalletUnavailable
	}
	return classify(method, a.provider.CallContext(ctx, result, method, args...))
}

// ChainID returns the chain the wallet is currently on.
func (a *Adapter) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := a.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}

// RequestAccount asks the wallet for access and returns the first authorised account.
func (a *Adapter) RequestAccount(ctx context.Context) (common.Address, error) {
	var accounts []common.Address
	if err := a.call(ctx, &accounts, "eth_requestAccounts"); err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("eth_requestAccounts: %w: no accounts authorised", ErrUserRejected)
	}
	return accounts[0], nil
}

// NativeBalance returns the latest balance of addr in wei.
func (a *Adapter) NativeBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	var bal hexutil.Big
	if err := a.call(ctx, &bal, "eth_getBalance", addr, "latest"); err != nil {
		return nil, err
	}
	return (*big.Int)(&bal), nil
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// SwitchChain issues wallet_switchEthereumChain (EIP-3326).
func (a *Adapter) SwitchChain(ctx context.Context, chainID *big.Int) error {
	return a.call(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: hexutil.EncodeBig(chainID)})
}

type nativeCurrencyParams struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// AddChainParams is the EIP-3085 wallet_addEthereumChain payload.
type AddChainParams struct {
	ChainID           string               `json:"chainId"`
	ChainName         string               `json:"chainName"`
	NativeCurrency    nativeCurrencyParams `json:"nativeCurrency"`
	RPCURLs           []string             `json:"rpcUrls"`
	BlockExplorerURLs []string             `json:"blockExplorerUrls,omitempty"`
}

func NewAddChainParams(n config.TargetNetwork) AddChainParams {
	return AddChainParams{
		ChainID:   hexutil.EncodeBig(big.NewInt(n.ChainID)),
		ChainName: n.Name,
		NativeCurrency: nativeCurrencyParams{
			Name:     n.NativeCurrency.Name,
			Symbol:   n.NativeCurrency.Symbol,
			Decimals: n.NativeCurrency.Decimals,
		},
		RPCURLs:           n.RPCURLs,
		BlockExplorerURLs: n.ExplorerURLs,
	}
}

// AddChain registers (and activates) a network in the wallet.
func (a *Adapter) AddChain(ctx context.Context, n config.TargetNetwork) error {
	return a.call(ctx, nil, "wallet_addEthereumChain", NewAddChainParams(n))
}

type callArgs struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// Call runs a read-only contract call against the latest block.
func (a *Adapter) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	var out hexutil.Bytes
	if err := a.call(ctx, &out, "eth_call", callArgs{To: to, Data: data}, "latest"); err != nil {
		return nil, err
	}
	return out, nil
}

// SendTransaction asks the wallet to sign and broadcast a call from `from`.
func (a *Adapter) SendTransaction(ctx context.Context, from, to common.Address, data []byte) (common.Hash, error) {
	var hash common.Hash
	if err := a.call(ctx, &hash, "eth_sendTransaction", callArgs{From: &from, To: to, Data: data}); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

// TransactionReceipt returns ethereum.NotFound while the transaction is pending.
func (a *Adapter) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var r *types.Receipt
	if err := a.call(ctx, &r, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ethereum.NotFound
	}
	return r, nil
}
