package tui

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"holskywallet/pkg/config"
	"holskywallet/pkg/models"
	"holskywallet/pkg/session"
	"holskywallet/pkg/token"
	"holskywallet/pkg/wallet"
	"holskywallet/pkg/wallet/wallettest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addr = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func testModel() model {
	noWallet := wallet.NewAdapter(nil)
	return initialModel(context.Background(), Services{
		Controller: session.NewController(noWallet, nil),
		Query:      token.NewQueryService(noWallet, nil),
		Transfer:   token.NewTransferService(noWallet, 0, nil),
		Config:     config.DefaultConfig(),
	})
}

func connected(s string) models.Session {
	return models.Session{Address: s, NativeBalance: "1.5", State: models.Connected}
}

func TestApplySession_NewAddressQueriesToken(t *testing.T) {
	m := testModel()

	cmd := m.applySession(connected(addr))
	require.NotNil(t, cmd)
	assert.True(t, m.tokenLoading)

	msg, ok := cmd().(tokenMsg)
	require.True(t, ok)
	assert.Equal(t, addr, msg.owner)
	assert.ErrorIs(t, msg.err, wallet.ErrWalletUnavailable)

	m.applyToken(msg)
	assert.False(t, m.tokenLoading)
	assert.Nil(t, m.holding)
	assert.Contains(t, m.tokenLine(), "unknown")
}

func TestApplySession_SameAddressKeepsHolding(t *testing.T) {
	m := testModel()
	m.session = connected(addr)
	m.holding = &models.TokenHolding{Raw: big.NewInt(5), Decimals: 0}

	assert.Nil(t, m.applySession(connected(addr)))
	assert.NotNil(t, m.holding)
}

func TestApplySession_DisconnectClearsView(t *testing.T) {
	m := testModel()
	m.session = connected(addr)
	m.holding = &models.TokenHolding{Raw: big.NewInt(5)}
	m.lastTx = &models.TransferOutcome{TxHash: "0xaa"}

	assert.Nil(t, m.applySession(models.Session{State: models.Disconnected}))
	assert.Nil(t, m.holding)
	assert.Nil(t, m.lastTx)
	assert.Equal(t, "-", m.tokenLine())
}

func TestApplyToken_IgnoresStaleOwner(t *testing.T) {
	m := testModel()
	m.session = connected(addr)
	m.tokenLoading = true

	m.applyToken(tokenMsg{owner: "0x1234567890123456789012345678901234567890", holding: models.TokenHolding{Raw: big.NewInt(1)}})
	assert.True(t, m.tokenLoading)
	assert.Nil(t, m.holding)

	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	m.applyToken(tokenMsg{owner: addr, holding: models.TokenHolding{Raw: raw, Decimals: 18}})
	assert.False(t, m.tokenLoading)
	assert.Equal(t, "1.5", m.tokenLine())
}

func TestTokenLine_ZeroIsNotUnknown(t *testing.T) {
	m := testModel()
	m.holding = &models.TokenHolding{Raw: big.NewInt(0), Decimals: 18}
	assert.Equal(t, "0", m.tokenLine())
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{wallet.ErrWalletUnavailable, "No wallet found"},
		{fmt.Errorf("%w: %w", wallet.ErrTransferRejected, wallet.ErrUserRejected), "Transfer rejected"},
		{fmt.Errorf("request account: %w", wallet.ErrUserRejected), "Request rejected"},
		{wallet.ErrTransferReverted, "reverted"},
		{session.ErrConnectAborted, "cancelled"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Contains(t, describeError(tt.err), tt.want)
	}
}

func TestConnectWithoutWallet(t *testing.T) {
	m := testModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NotNil(t, cmd)
	m = next.(model)

	next, _ = m.Update(connectDoneMsg{err: m.ctrl.Connect(context.Background())})
	m = next.(model)
	assert.Contains(t, m.statusMessage, "No wallet found")
	assert.Equal(t, models.Disconnected, m.session.State)
	assert.Contains(t, m.View(), "No wallet connected")
}

func TestSendRequiresConnection(t *testing.T) {
	m := testModel()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(model)
	assert.False(t, m.sending)
	assert.Equal(t, "Connect a wallet first", m.statusMessage)
}

func TestSendFormValidation(t *testing.T) {
	m := testModel()
	m.session = connected(addr)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(model)
	require.True(t, m.sending)

	_, problem := m.transferRequest()
	assert.Equal(t, "Recipient is required", problem)

	m.inputs[inputRecipient].SetValue(" 0x1234567890123456789012345678901234567890 ")
	_, problem = m.transferRequest()
	assert.Equal(t, "Amount is required", problem)

	m.inputs[inputAmount].SetValue("2.0")
	req, problem := m.transferRequest()
	assert.Empty(t, problem)
	assert.Equal(t, "0x1234567890123456789012345678901234567890", req.Recipient)
	assert.Equal(t, "2.0", req.Amount)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, next.(model).sending)
}

func TestTransferResultShowsExplorerKey(t *testing.T) {
	m := testModel()
	m.session = connected(addr)
	m.transferring = true

	next, _ := m.Update(transferMsg{outcome: models.TransferOutcome{TxHash: "0xaa", BlockNumber: 7}})
	m = next.(model)
	assert.False(t, m.transferring)
	require.NotNil(t, m.lastTx)
	assert.Contains(t, m.statusMessage, "block 7")
	assert.Contains(t, m.footerKeys(), "o explorer")
}

func TestWalletCallsFollowParentContext(t *testing.T) {
	srv := wallettest.NewServer(t, func(req wallettest.Request) (interface{}, *wallettest.Error) {
		return "0x" + strings.Repeat("0", 64), nil
	})
	adapter := wallet.NewAdapter(srv.Dial(t))

	ctx, cancel := context.WithCancel(context.Background())
	m := initialModel(ctx, Services{
		Controller: session.NewController(adapter, nil),
		Query:      token.NewQueryService(adapter, nil),
		Config:     config.DefaultConfig(),
	})
	cancel()

	cmd := m.applySession(connected(addr))
	require.NotNil(t, cmd)
	msg := cmd().(tokenMsg)
	assert.ErrorIs(t, msg.err, context.Canceled)
}
