package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tradesense/tradesense/internal/chart"
	"github.com/tradesense/tradesense/internal/session"
	"github.com/tradesense/tradesense/pkg/api"
	"github.com/tradesense/tradesense/pkg/config"
)

// View states.
const (
	viewLanding = iota
	viewPayment
	viewDashboard
)

const (
	// Simulated payment processing time.
	paymentDelay = 2500 * time.Millisecond
	// Lifetime of one notification; overwriting restarts the clock.
	notificationTTL = 3 * time.Second
	// Dashboard redraw cadence. Polling runs on its own loop; this only
	// pulls the latest snapshots into the view.
	redrawEvery = time.Second
)

// Client is the slice of the backend client the TUI submits through.
type Client interface {
	StartChallenge(ctx context.Context) error
	Trade(ctx context.Context, ticker string, side api.Side, amount int) (*api.TradeResult, error)
}

// Model is the root bubbletea model. One flat model with an int view tag;
// each view owns a slice of the fields.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	client  Client
	session *session.Session
	cfg     config.Config

	view  int
	width int

	// landing
	planIdx int

	// payment
	selectedPlan Plan
	methodIdx    int
	processing   bool
	startErr     string

	// dashboard
	charts       map[string]*chart.Series
	tickerIdx    int
	notification string
	notifIsErr   bool
	notifGen     int
}

// Plan is one challenge tier shown on the landing page.
type Plan struct {
	Name  string
	Price int
}

var plans = []Plan{
	{Name: "STARTER", Price: 200},
	{Name: "PRO", Price: 500},
	{Name: "ELITE", Price: 1000},
}

var paymentMethods = []string{"Carte Bancaire", "Crypto"}

// New builds the root model. The session must not be started yet; the
// dashboard starts it on entry and stops it on quit.
func New(client Client, sess *session.Session, cfg config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	charts := make(map[string]*chart.Series, len(cfg.Tickers))
	for _, ticker := range cfg.Tickers {
		charts[ticker] = chart.NewSeries(nil)
	}
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		client:  client,
		session: sess,
		cfg:     cfg,
		view:    viewLanding,
		charts:  charts,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
	}

	switch m.view {
	case viewLanding:
		return m.updateLanding(msg)
	case viewPayment:
		return m.updatePayment(msg)
	default:
		return m.updateDashboard(msg)
	}
}

func (m Model) View() string {
	switch m.view {
	case viewLanding:
		return m.viewLanding()
	case viewPayment:
		return m.viewPayment()
	default:
		return m.viewDashboard()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.session.Stop()
	m.cancel()
	return m, tea.Quit
}

func redrawCmd() tea.Cmd {
	return tea.Tick(redrawEvery, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

func paymentCmd() tea.Cmd {
	return tea.Tick(paymentDelay, func(time.Time) tea.Msg {
		return paymentDoneMsg{}
	})
}

func (m Model) startChallengeCmd() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		return challengeStartedMsg{err: client.StartChallenge(ctx)}
	}
}

func (m Model) tradeCmd(ticker string, side api.Side) tea.Cmd {
	ctx, client, amount := m.ctx, m.client, m.cfg.TradeAmount
	return func() tea.Msg {
		result, err := client.Trade(ctx, ticker, side, amount)
		return tradeDoneMsg{ticker: ticker, side: side, result: result, err: err}
	}
}

func (m Model) refreshAccountCmd() tea.Cmd {
	ctx, sess := m.ctx, m.session
	return func() tea.Msg {
		sess.RefreshAccount(ctx)
		return nil
	}
}

func expireNotifCmd(gen int) tea.Cmd {
	return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
		return notifExpireMsg{gen: gen}
	})
}
