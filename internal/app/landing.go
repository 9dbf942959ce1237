package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m Model) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q":
		return m.quit()
	case "left", "h", "up", "k":
		if m.planIdx > 0 {
			m.planIdx--
		}
	case "right", "l", "down", "j":
		if m.planIdx < len(plans)-1 {
			m.planIdx++
		}
	case "enter":
		m.selectedPlan = plans[m.planIdx]
		m.methodIdx = 0
		m.processing = false
		m.startErr = ""
		m.view = viewPayment
	}
	return m, nil
}

func (m Model) viewLanding() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("TradeSense"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Prouvez votre talent. Tradez notre capital."))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Choisissez votre challenge pour commencer."))
	b.WriteString("\n\n")

	cards := make([]string, 0, len(plans))
	for i, plan := range plans {
		body := fmt.Sprintf("%s\n%d DH", titleStyle.Render(plan.Name), plan.Price)
		style := borderStyle
		if i == m.planIdx {
			style = selectedCardStyle
		}
		cards = append(cards, style.Render(body))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n\n")
	b.WriteString(subtleStyle.Render("←/→ choisir · entrée valider · q quitter"))
	return b.String()
}
