package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) updatePayment(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.processing {
			// No cancel once the payment is in flight.
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.view = viewLanding
			m.startErr = ""
		case "left", "h", "up", "k":
			if m.methodIdx > 0 {
				m.methodIdx--
			}
		case "right", "l", "down", "j":
			if m.methodIdx < len(paymentMethods)-1 {
				m.methodIdx++
			}
		case "enter":
			m.processing = true
			m.startErr = ""
			return m, paymentCmd()
		}
		return m, nil

	case paymentDoneMsg:
		// Payment is simulated; the real work is resetting the challenge.
		return m, m.startChallengeCmd()

	case challengeStartedMsg:
		m.processing = false
		if msg.err != nil {
			m.startErr = msg.err.Error()
			return m, nil
		}
		m.view = viewDashboard
		m.session.Start(m.ctx)
		return m, redrawCmd()
	}

	return m, nil
}

func (m Model) viewPayment() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("TradeSense · Paiement"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Challenge %s · %d DH\n\n",
		titleStyle.Render(m.selectedPlan.Name), m.selectedPlan.Price))

	if m.processing {
		b.WriteString("Paiement en cours...")
		return b.String()
	}

	cards := make([]string, 0, len(paymentMethods))
	for i, method := range paymentMethods {
		style := borderStyle
		if i == m.methodIdx {
			style = selectedCardStyle
		}
		cards = append(cards, style.Render(method))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")

	if m.startErr != "" {
		b.WriteString(notifErrStyle.Render("Erreur: " + m.startErr))
		b.WriteString("\n\n")
	}
	b.WriteString(subtleStyle.Render("←/→ choisir · entrée payer · échap retour"))
	return b.String()
}
