package tui

import (
	"fmt"
	"strings"

	"holskywallet/pkg/models"
	"holskywallet/pkg/session"
	"holskywallet/pkg/utils"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case session.Event:
		// Re-subscribe to next event
		cmds = append(cmds, listenForSession(m.sub))

		switch msg.Type {
		case session.EventSessionUpdated:
			if s, ok := msg.Data.(models.Session); ok {
				cmds = append(cmds, m.applySession(s))
			}
		case session.EventReconcileFailed:
			reason, _ := msg.Data.(string)
			m.statusMessage = fmt.Sprintf("Could not switch wallet to %s: %s", m.cfg.Network.Name, reason)
			cmds = append(cmds, clearStatusAfter())
		}

	case connectDoneMsg:
		if msg.err != nil {
			m.statusMessage = describeError(msg.err)
			cmds = append(cmds, clearStatusAfter())
		}
		if m.ctrl != nil {
			cmds = append(cmds, m.applySession(m.ctrl.Snapshot()))
		}

	case disconnectDoneMsg:
		if m.ctrl != nil {
			cmds = append(cmds, m.applySession(m.ctrl.Snapshot()))
		}
		m.statusMessage = "Disconnected"
		cmds = append(cmds, clearStatusAfter())

	case tokenMsg:
		m.applyToken(msg)

	case transferMsg:
		m.transferring = false
		if msg.outcome.TxHash != "" {
			out := msg.outcome
			m.lastTx = &out
		}
		if msg.err != nil {
			m.statusMessage = describeError(msg.err)
		} else {
			m.statusMessage = fmt.Sprintf("Transfer confirmed in block %d (o to open in explorer)", msg.outcome.BlockNumber)
			if m.session.Address != "" && m.query != nil {
				m.tokenLoading = true
				cmds = append(cmds, fetchToken(m.ctx, m.query, m.cfg.Token.Address, m.session.Address))
			}
		}
		cmds = append(cmds, clearStatusAfter())

	case tea.KeyMsg:
		if m.sending {
			return m.updateSendForm(msg)
		}
		if msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		if m.showHelp {
			if msg.String() == "q" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			if m.ctrl != nil && m.sub != nil {
				m.ctrl.Unsubscribe(m.sub)
			}
			return m, tea.Quit

		case "c":
			if m.ctrl == nil || m.session.State != models.Disconnected {
				break
			}
			m.statusMessage = "Waiting for wallet approval..."
			cmds = append(cmds, connect(m.ctx, m.ctrl))

		case "d":
			if m.ctrl == nil || m.session.State == models.Disconnected {
				break
			}
			cmds = append(cmds, disconnect(m.ctx, m.ctrl))

		case "r":
			if m.session.State != models.Connected || m.query == nil {
				break
			}
			m.tokenLoading = true
			m.statusMessage = "Refreshing token balance..."
			cmds = append(cmds, fetchToken(m.ctx, m.query, m.cfg.Token.Address, m.session.Address), clearStatusAfter())

		case "s":
			if m.session.State != models.Connected || m.transferring {
				m.statusMessage = "Connect a wallet first"
				if m.transferring {
					m.statusMessage = "A transfer is already pending"
				}
				cmds = append(cmds, clearStatusAfter())
				break
			}
			m.sending = true
			m.focusIdx = inputRecipient
			for i := range m.inputs {
				m.inputs[i].Reset()
				m.inputs[i].Blur()
			}
			cmds = append(cmds, m.inputs[inputRecipient].Focus())

		case "y":
			if m.session.Address == "" {
				break
			}
			if err := clipboard.WriteAll(m.session.Address); err != nil {
				m.statusMessage = "Failed to copy to clipboard"
			} else {
				m.statusMessage = "Address copied to clipboard!"
			}
			cmds = append(cmds, clearStatusAfter())

		case "o":
			if m.lastTx == nil {
				break
			}
			url := m.cfg.Network.ExplorerTxURL(m.lastTx.TxHash)
			if url == "" {
				m.statusMessage = "Explorer URL not configured for this network"
			} else if err := openBrowser(url); err != nil {
				m.statusMessage = fmt.Sprintf("Failed to open browser: %v", err)
			} else {
				m.statusMessage = "Opened in browser"
			}
			cmds = append(cmds, clearStatusAfter())
		}

	case clearStatusMsg:
		m.statusMessage = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) updateSendForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sending = false
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
		return m, m.inputs[m.focusIdx].Focus()

	case "enter":
		if m.focusIdx < len(m.inputs)-1 {
			m.inputs[m.focusIdx].Blur()
			m.focusIdx++
			return m, m.inputs[m.focusIdx].Focus()
		}
		req, problem := m.transferRequest()
		if problem != "" {
			m.statusMessage = problem
			return m, clearStatusAfter()
		}
		m.sending = false
		m.transferring = true
		m.statusMessage = fmt.Sprintf("Confirm sending %s %s to %s in your wallet...",
			req.Amount, m.cfg.Token.Symbol, utils.ShortAddress(req.Recipient))
		return m, sendTransfer(m.ctx, m.query, m.transfer, m.cfg.Token.Address, m.session.Address, req, m.holding)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

// transferRequest reads the form. Amount and address validation happens in the transfer service.
func (m model) transferRequest() (models.TransferRequest, string) {
	req := models.TransferRequest{
		Recipient: strings.TrimSpace(m.inputs[inputRecipient].Value()),
		Amount:    strings.TrimSpace(m.inputs[inputAmount].Value()),
	}
	if req.Recipient == "" {
		return req, "Recipient is required"
	}
	if req.Amount == "" {
		return req, "Amount is required"
	}
	if m.transfer == nil {
		return req, "Transfers are not available"
	}
	return req, ""
}
