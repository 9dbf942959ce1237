package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tradesense/tradesense/internal/chart"
	"github.com/tradesense/tradesense/pkg/api"
)

const sparklineWidth = 40

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m.quit()
		case "tab", "left", "right", "h", "l":
			if len(m.cfg.Tickers) > 0 {
				m.tickerIdx = (m.tickerIdx + 1) % len(m.cfg.Tickers)
			}
		case "b":
			return m.submitTrade(api.SideBuy)
		case "s":
			return m.submitTrade(api.SideSell)
		}
		return m, nil

	case uiTickMsg:
		now := time.Time(msg)
		for _, ticker := range m.cfg.Tickers {
			if quote, ok := m.session.Quote(ticker); ok {
				m.charts[ticker].Observe(quote.Price, now)
			}
		}
		return m, redrawCmd()

	case tradeDoneMsg:
		m.notifGen++
		if msg.err != nil {
			m.notification = "Erreur: " + msg.err.Error()
			m.notifIsErr = true
			return m, expireNotifCmd(m.notifGen)
		}
		m.notification = fmt.Sprintf("Ordre Exécuté: %s %s", msg.side, msg.ticker)
		m.notifIsErr = false
		// Read-after-write so the header shows the post-trade balance
		// before the next poll lands.
		return m, tea.Batch(expireNotifCmd(m.notifGen), m.refreshAccountCmd())

	case notifExpireMsg:
		if msg.gen == m.notifGen {
			m.notification = ""
		}
		return m, nil
	}

	return m, nil
}

// submitTrade fires one order on the selected ticker. Trading is inert
// until the first account snapshot has landed.
func (m Model) submitTrade(side api.Side) (tea.Model, tea.Cmd) {
	if _, ok := m.session.Account(); !ok {
		return m, nil
	}
	if len(m.cfg.Tickers) == 0 {
		return m, nil
	}
	ticker := m.cfg.Tickers[m.tickerIdx]
	return m, m.tradeCmd(ticker, side)
}

func (m Model) viewDashboard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("TradeSense · Dashboard"))
	b.WriteString("  ")
	b.WriteString(m.renderAccount())
	b.WriteString("\n\n")

	panels := make([]string, 0, len(m.cfg.Tickers))
	for i, ticker := range m.cfg.Tickers {
		panels = append(panels, m.renderTickerPanel(ticker, i == m.tickerIdx))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
	b.WriteString("\n\n")

	if m.notification != "" {
		style := notifOKStyle
		if m.notifIsErr {
			style = notifErrStyle
		}
		b.WriteString(style.Render(m.notification))
		b.WriteString("\n\n")
	}

	b.WriteString(subtleStyle.Render("b acheter · s vendre · tab instrument · q quitter"))
	return b.String()
}

func (m Model) renderAccount() string {
	account, ok := m.session.Account()
	if !ok {
		return subtleStyle.Render("compte: en attente...")
	}

	badge := statusActiveStyle
	switch account.Status {
	case "failed":
		badge = statusFailedStyle
	case "passed":
		badge = statusPassedStyle
	}

	pnl := account.Balance - account.StartBalance
	pnlStyle := upStyle
	if pnl < 0 {
		pnlStyle = downStyle
	}
	return fmt.Sprintf("%s  %s  %s",
		priceStyle.Render(fmt.Sprintf("%.2f DH", account.Balance)),
		pnlStyle.Render(fmt.Sprintf("%+.2f", pnl)),
		badge.Render(strings.ToUpper(account.Status)))
}

func (m Model) renderTickerPanel(ticker string, selected bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(ticker))
	b.WriteString("\n")

	quote, ok := m.session.Quote(ticker)
	if !ok {
		b.WriteString(subtleStyle.Render("en attente..."))
	} else {
		changeStyle := upStyle
		if quote.Change < 0 {
			changeStyle = downStyle
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			priceStyle.Render(fmt.Sprintf("%.2f", quote.Price)), quote.Currency))
		b.WriteString(changeStyle.Render(fmt.Sprintf("%+.2f%%", quote.Change)))
		b.WriteString("\n")
		b.WriteString(chart.Sparkline(m.charts[ticker].Values(), sparklineWidth))
	}

	style := borderStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(b.String())
}
