package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"holskywallet/pkg/config"
	"holskywallet/pkg/wallet/wallettest"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccount = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func TestAdapter_NoProvider(t *testing.T) {
	a := NewAdapter(nil)
	ctx := context.Background()

	assert.False(t, a.Available())

	_, err := a.ChainID(ctx)
	assert.ErrorIs(t, err, ErrWalletUnavailable)
	_, err = a.RequestAccount(ctx)
	assert.ErrorIs(t, err, ErrWalletUnavailable)
	_, err = a.NativeBalance(ctx, common.HexToAddress(testAccount))
	assert.ErrorIs(t, err, ErrWalletUnavailable)
	assert.ErrorIs(t, a.SwitchChain(ctx, big.NewInt(1)), ErrWalletUnavailable)
	assert.ErrorIs(t, a.AddChain(ctx, config.DefaultNetwork()), ErrWalletUnavailable)
}

func TestDial_EmptyURL(t *testing.T) {
	a, err := Dial(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, a.Available())
	a.Close()
}

func TestAdapter_Queries(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		switch req.Method {
		case "eth_chainId":
			return "0x4268", nil
		case "eth_requestAccounts":
			return []string{testAccount}, nil
		case "eth_getBalance":
			return "0x22B1C8C1227A0000", nil
		}
		return nil, &wallettest.Error{Code: -32601, Message: "method not found"}
	})
	a := NewAdapter(srv.Dial(t))
	ctx := context.Background()

	id, err := a.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(17000), id.Int64())

	addr, err := a.RequestAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAccount), addr)

	bal, err := a.NativeBalance(ctx, addr)
	require.NoError(t, err)
	assert.Equal(t, "2500000000000000000", bal.String())

	calls := srv.Calls()
	require.Len(t, calls, 3)
	var params []interface{}
	for _, p := range calls[2].Params {
		var v interface{}
		require.NoError(t, json.Unmarshal(p, &v))
		params = append(params, v)
	}
	assert.Equal(t, "latest", params[1])
}

func TestAdapter_RequestAccount_Rejected(t *testing.T) {
	t.Run("user declined", func(t *testing.T) {
		srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
			return nil, &wallettest.Error{Code: CodeUserRejected, Message: "User rejected the request."}
		})
		_, err := NewAdapter(srv.Dial(t)).RequestAccount(context.Background())
		assert.ErrorIs(t, err, ErrUserRejected)
		assert.False(t, errors.Is(err, ErrProvider))
		assert.True(t, IsUserRejected(err))
	})

	t.Run("no accounts", func(t *testing.T) {
		srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
			return []string{}, nil
		})
		_, err := NewAdapter(srv.Dial(t)).RequestAccount(context.Background())
		assert.ErrorIs(t, err, ErrUserRejected)
	})
}

func TestAdapter_ProviderError(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		return nil, &wallettest.Error{Code: -32603, Message: "internal error"}
	})
	_, err := NewAdapter(srv.Dial(t)).NativeBalance(context.Background(), common.HexToAddress(testAccount))
	assert.ErrorIs(t, err, ErrProvider)

	var rpcErr rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32603, rpcErr.ErrorCode())
}

func TestAdapter_SwitchChain_Unrecognized(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		return nil, &wallettest.Error{Code: CodeUnrecognizedChain, Message: "Unrecognized chain ID"}
	})
	err := NewAdapter(srv.Dial(t)).SwitchChain(context.Background(), big.NewInt(17000))
	require.Error(t, err)
	assert.True(t, IsUnrecognizedChain(err))
	assert.ErrorIs(t, err, ErrProvider)

	calls := srv.Calls()
	require.Len(t, calls, 1)
	var p switchChainParams
	require.NoError(t, json.Unmarshal(calls[0].Params[0], &p))
	assert.Equal(t, "0x4268", p.ChainID)
}

func TestAdapter_AddChain_Payload(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		return nil, nil
	})
	require.NoError(t, NewAdapter(srv.Dial(t)).AddChain(context.Background(), config.DefaultNetwork()))

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "wallet_addEthereumChain", calls[0].Method)

	var p AddChainParams
	require.NoError(t, json.Unmarshal(calls[0].Params[0], &p))
	assert.Equal(t, NewAddChainParams(config.DefaultNetwork()), p)
	assert.Equal(t, "0x4268", p.ChainID)
	assert.Equal(t, "Holsky", p.ChainName)
	assert.Equal(t, "ETH", p.NativeCurrency.Symbol)
	assert.Equal(t, uint8(18), p.NativeCurrency.Decimals)
	assert.Equal(t, []string{"https://rpc.ankr.com/eth_holesky"}, p.RPCURLs)
	assert.Equal(t, []string{"https://holesky.etherscan.io/"}, p.BlockExplorerURLs)
}

func TestAdapter_TransactionReceipt_Pending(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		return nil, nil
	})
	_, err := NewAdapter(srv.Dial(t)).TransactionReceipt(context.Background(), common.HexToHash("0x01"))
	assert.ErrorIs(t, err, ethereum.NotFound)
}

func TestIsUnrecognizedChain(t *testing.T) {
	assert.True(t, IsUnrecognizedChain(&wallettest.Error{Code: CodeUnrecognizedChain, Message: "unknown chain"}))
	assert.False(t, IsUnrecognizedChain(&wallettest.Error{Code: CodeUserRejected, Message: "rejected"}))
	assert.False(t, IsUnrecognizedChain(errors.New("plain")))
	assert.False(t, IsUnrecognizedChain(nil))
}
