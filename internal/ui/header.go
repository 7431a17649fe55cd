package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: title and trial on the left, refresh
// status on the right.
func (m Model) renderHeader() string {
	styles := m.styles
	bg := lipgloss.Color(m.theme.Surface)

	left := []string{styles.Title.Background(bg).Render("leaderboard")}
	if m.trial.Total > 0 {
		trial := fmt.Sprintf("trial %d/%d", m.trial.Index+1, m.trial.Total)
		if m.trial.Name != "" {
			trial += " " + m.trial.Name
		}
		left = append(left, styles.Text.Background(bg).Render(trial))
	}

	right := m.refreshStatus()
	leftStr := strings.Join(left, styles.Text.Background(bg).Render("  "))

	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	content := leftStr + styles.Text.Background(bg).Render(strings.Repeat(" ", gap)) + right
	return styles.Header.Width(max(m.width, 0)).Render(content)
}

// refreshStatus describes the committed rows of the running trial.
func (m Model) refreshStatus() string {
	bg := lipgloss.Color(m.theme.Surface)
	if !m.hasSnap || !m.snapshot.HasItems {
		return ""
	}
	snap := m.snapshot

	parts := []string{m.styles.MutedText.Background(bg).Render("updated " + snap.LastUpdated.Format("15:04:05"))}
	if refreshes := snap.Commits - 1; refreshes > 0 {
		parts = append(parts, m.styles.MutedText.Background(bg).Render(fmt.Sprintf("%d refreshes", refreshes)))
	}
	switch {
	case snap.IsStale():
		parts = append(parts, m.styles.DangerText.Background(bg).Render(
			fmt.Sprintf("stale: %d refreshes failed", snap.ConsecutiveFailures)))
	case snap.ConsecutiveFailures > 0:
		parts = append(parts, m.styles.WarningText.Background(bg).Render("refresh failed, retrying"))
	case snap.Commits > 1:
		parts = append(parts, m.styles.SuccessText.Background(bg).Render("in sync"))
	}
	return strings.Join(parts, m.styles.MutedText.Background(bg).Render(" · "))
}
