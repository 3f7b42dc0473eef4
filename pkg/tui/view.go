package tui

import (
	"fmt"
	"strings"

	"holskywallet/pkg/models"
	"holskywallet/pkg/utils"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}
	if m.sending {
		return m.viewSendForm()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("HOLSKY WALLET"),
		" ",
		subtleStyle.Render(fmt.Sprintf("%s (chain %d) • v%s", m.cfg.Network.Name, m.cfg.Network.ChainID, Version)),
	)

	var body string
	switch m.session.State {
	case models.Connected:
		body = m.viewConnected()
	case models.Connecting:
		body = boxStyle.Render(fmt.Sprintf("%s Connecting to wallet...", m.spinner.View()))
	default:
		body = boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			"No wallet connected.",
			"",
			subtleStyle.Render("(c) Connect"),
		))
	}

	status := ""
	if m.statusMessage != "" {
		status = infoStyle.Render(m.statusMessage)
	}
	if m.transferring {
		status = fmt.Sprintf("%s %s", m.spinner.View(), status)
	}

	footer := subtleStyle.Render(m.footerKeys())

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", status, footer)
}

func (m model) viewConnected() string {
	native := m.session.NativeBalance
	if native == "" {
		native = "0"
	}

	rows := []string{
		fmt.Sprintf("%-10s %s", "Account", m.session.Address),
		fmt.Sprintf("%-10s %s %s", "Balance", native, m.cfg.Network.NativeCurrency.Symbol),
		fmt.Sprintf("%-10s %s", m.cfg.Token.Symbol, m.tokenLine()),
	}
	if m.lastTx != nil {
		rows = append(rows, "",
			subtleStyle.Render("Last transfer"),
			fmt.Sprintf("%-10s %s", "Tx", utils.TruncateString(m.lastTx.TxHash, 24)),
			fmt.Sprintf("%-10s %d", "Block", m.lastTx.BlockNumber),
		)
	}
	if m.session.Busy {
		rows = append(rows, "", fmt.Sprintf("%s Disconnecting...", m.spinner.View()))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

// tokenLine never shows a failed query as a zero balance.
func (m model) tokenLine() string {
	switch {
	case m.tokenLoading:
		return fmt.Sprintf("%s loading", m.spinner.View())
	case m.tokenErr != nil:
		return errStyle.Render("unknown") + subtleStyle.Render(" ("+describeError(m.tokenErr)+")")
	case m.holding == nil:
		return "-"
	}
	return utils.AddCommas(m.holding.Display())
}

func (m model) viewSendForm() string {
	labels := []string{"Recipient", "Amount"}
	var inputs []string
	for i, label := range labels {
		inputs = append(inputs, fmt.Sprintf("%-10s %s", label, m.inputs[i].View()))
	}

	balance := "unknown"
	if m.holding != nil {
		balance = m.holding.Display()
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Send %s", m.cfg.Token.Symbol)),
		"",
		subtleStyle.Render(fmt.Sprintf("From %s • available %s", utils.ShortAddress(m.session.Address), balance)),
		"",
		strings.Join(inputs, "\n"),
		"",
	}
	if m.statusMessage != "" {
		lines = append(lines, errStyle.Render(m.statusMessage))
	}
	lines = append(lines, subtleStyle.Render("Enter to next/send • Tab to switch • Esc to cancel"))

	return lipgloss.Place(
		m.width, m.height, lipgloss.Center, lipgloss.Center,
		boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
}

func (m model) footerKeys() string {
	keys := []string{}
	switch m.session.State {
	case models.Disconnected:
		keys = append(keys, "c connect")
	case models.Connected:
		keys = append(keys, "s send", "r refresh", "y copy address", "d disconnect")
		if m.lastTx != nil {
			keys = append(keys, "o explorer")
		}
	}
	keys = append(keys, "? help", "q quit")
	return strings.Join(keys, " • ")
}

func (m model) viewHelp() string {
	rows := []string{
		fmt.Sprintf("%-8s %s", "c", "Connect wallet"),
		fmt.Sprintf("%-8s %s", "d", "Disconnect"),
		fmt.Sprintf("%-8s %s", "s", "Send tokens"),
		fmt.Sprintf("%-8s %s", "r", "Refresh token balance"),
		fmt.Sprintf("%-8s %s", "y", "Copy address to clipboard"),
		fmt.Sprintf("%-8s %s", "o", "Open last transfer in explorer"),
		fmt.Sprintf("%-8s %s", "q", "Quit"),
	}
	return lipgloss.Place(
		m.width, m.height, lipgloss.Center, lipgloss.Center,
		boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Help"),
			"",
			tableHeaderStyle.Render("Keys"),
			strings.Join(rows, "\n"),
			"",
			subtleStyle.Render(fmt.Sprintf("Config: %s", m.cfgPath)),
			subtleStyle.Render("Esc or ? to close"),
		)),
	)
}
