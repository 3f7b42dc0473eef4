package tui

import (
	"context"
	"errors"
	"time"

	"holskywallet/pkg/models"
	"holskywallet/pkg/session"
	"holskywallet/pkg/token"
	"holskywallet/pkg/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

func listenForSession(sub session.Subscriber) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub
		if !ok {
			return nil
		}
		return ev
	}
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(time.Second*2, func(t time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func autoConnect(ctx context.Context, c *session.Controller) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return connectDoneMsg{err: c.AutoConnect(ctx)}
	}
}

func connect(ctx context.Context, c *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return connectDoneMsg{err: c.Connect(ctx)}
	}
}

func disconnect(ctx context.Context, c *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return disconnectDoneMsg{err: c.Disconnect(ctx)}
	}
}

func fetchToken(ctx context.Context, q *token.QueryService, tokenAddr, owner string) tea.Cmd {
	return func() tea.Msg {
		h, err := q.Balance(ctx, tokenAddr, owner)
		return tokenMsg{owner: owner, holding: h, err: err}
	}
}

// sendTransfer uses the known token decimals, reading them first when the balance is unknown.
func sendTransfer(ctx context.Context, q *token.QueryService, t *token.TransferService, tokenAddr, from string, req models.TransferRequest, known *models.TokenHolding) tea.Cmd {
	return func() tea.Msg {
		var decimals uint8
		if known != nil {
			decimals = known.Decimals
		} else {
			h, err := q.Balance(ctx, tokenAddr, from)
			if err != nil {
				return transferMsg{err: err}
			}
			decimals = h.Decimals
		}
		out, err := t.Transfer(ctx, tokenAddr, from, req, decimals)
		return transferMsg{outcome: out, err: err}
	}
}

// applySession stores a new snapshot and, when the connected address changed, starts a
// fresh token query for it.
func (m *model) applySession(s models.Session) tea.Cmd {
	prev := m.session.Address
	m.session = s
	if s.Address == prev {
		return nil
	}

	m.holding = nil
	m.tokenErr = nil
	m.tokenLoading = false
	if s.Address == "" {
		m.lastTx = nil
		m.sending = false
		return nil
	}
	if m.query == nil {
		return nil
	}
	m.tokenLoading = true
	return fetchToken(m.ctx, m.query, m.cfg.Token.Address, s.Address)
}

// applyToken ignores results for an address that is no longer connected.
func (m *model) applyToken(msg tokenMsg) {
	if msg.owner != m.session.Address {
		return
	}
	m.tokenLoading = false
	if msg.err != nil {
		m.holding = nil
		m.tokenErr = msg.err
		return
	}
	h := msg.holding
	m.holding = &h
	m.tokenErr = nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, wallet.ErrWalletUnavailable):
		return "No wallet found. Start your wallet or set --wallet"
	case errors.Is(err, wallet.ErrTransferRejected):
		return "Transfer rejected in wallet"
	case errors.Is(err, wallet.ErrUserRejected):
		return "Request rejected in wallet"
	case errors.Is(err, wallet.ErrTransferReverted):
		return "Transfer reverted on chain"
	case errors.Is(err, wallet.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, wallet.ErrInvalidAddress):
		return "Invalid address"
	case errors.Is(err, wallet.ErrQueryFailed):
		return "Token query failed"
	case errors.Is(err, session.ErrConnectAborted):
		return "Connect cancelled"
	}
	return err.Error()
}
