package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderMain renders the full screen: header, trial area, footer.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	body := m.renderTrial()
	if m.width > 0 {
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}
	b.WriteString(body)
	b.WriteString("\n\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderTrial renders the area the running trial draws on.
func (m Model) renderTrial() string {
	switch m.phase {
	case phaseLoading:
		return m.spinner.View() + " " + m.styles.Text.Render(m.loading)

	case phaseTable:
		parts := []string{renderTable(m.view.Table, m.styles)}
		if m.view.ShowContinue {
			parts = append(parts, "", renderButton(m.styles))
		}
		return lipgloss.JoinVertical(lipgloss.Center, parts...)

	case phaseError:
		msg := "trial failed"
		if m.trialErr != nil {
			msg = m.trialErr.Error()
		}
		return m.styles.DangerText.Render(msg)

	default:
		if m.done {
			return m.styles.MutedText.Render("done")
		}
		return ""
	}
}

func (m Model) renderFooter() string {
	return m.help.View(m.keys)
}
