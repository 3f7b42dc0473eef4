package tui

import (
	"context"

	"holskywallet/pkg/config"
	"holskywallet/pkg/models"
	"holskywallet/pkg/session"
	"holskywallet/pkg/token"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}

type connectDoneMsg struct{ err error }

type disconnectDoneMsg struct{ err error }

type tokenMsg struct {
	owner   string
	holding models.TokenHolding
	err     error
}

type transferMsg struct {
	outcome models.TransferOutcome
	err     error
}

// Services is everything the view needs from the rest of the application.
type Services struct {
	Controller *session.Controller
	Query      *token.QueryService
	Transfer   *token.TransferService
	Config     config.AppConfig
	ConfigPath string
}

// --- Model ---

type model struct {
	ctx      context.Context
	ctrl     *session.Controller
	sub      session.Subscriber
	query    *token.QueryService
	transfer *token.TransferService
	cfg      config.AppConfig
	cfgPath  string

	session      models.Session
	holding      *models.TokenHolding
	tokenErr     error
	tokenLoading bool

	sending      bool
	transferring bool
	inputs       []textinput.Model
	focusIdx     int
	lastTx       *models.TransferOutcome

	width         int
	height        int
	spinner       spinner.Model
	statusMessage string
	showHelp      bool
}

const (
	inputRecipient = iota
	inputAmount
)

func initialModel(ctx context.Context, svc Services) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	tis := make([]textinput.Model, 2)
	for i := range tis {
		tis[i] = textinput.New()
		tis[i].Width = 44
	}
	tis[inputRecipient].Placeholder = "Recipient (0x...)"
	tis[inputAmount].Placeholder = "Amount (e.g. 2.0)"

	var sub session.Subscriber
	if svc.Controller != nil {
		sub = svc.Controller.Subscribe()
	}

	m := model{
		ctx:      ctx,
		ctrl:     svc.Controller,
		sub:      sub,
		query:    svc.Query,
		transfer: svc.Transfer,
		cfg:      svc.Config,
		cfgPath:  svc.ConfigPath,
		inputs:   tis,
		spinner:  s,
	}
	if m.ctrl != nil {
		m.session = m.ctrl.Snapshot()
	}
	return m
}

func (m model) Init() tea.Cmd {
	var cmds []tea.Cmd

	// Subscribe to session events
	if m.sub != nil {
		cmds = append(cmds, listenForSession(m.sub))
	}
	cmds = append(cmds, autoConnect(m.ctx, m.ctrl), m.spinner.Tick)
	return tea.Batch(cmds...)
}
