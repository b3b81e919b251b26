package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// pillWidth is the width of a menu pill on roomy terminals.
const pillWidth = 24

func centered(s string, cw int) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderBanner(cw int, compact bool) string {
	return centered(components.Banner(compact, theme.Gold), cw)
}

// renderDashboard shows words known, today's XP, due reviews and the
// level bar in one boxed panel.
func renderDashboard(st stats, cw int, compact bool) string {
	words := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	today := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	sep := "  "
	wordsText := fmt.Sprintf("語 %d words", st.words)
	xpText := fmt.Sprintf("✦ %d XP today", st.todayXP)
	if compact {
		sep = " "
		wordsText = fmt.Sprintf("語%d", st.words)
		xpText = fmt.Sprintf("✦%d", st.todayXP)
	}
	line := strings.Join([]string{
		words.Render(wordsText),
		today.Render(xpText),
		dueText(st.due, compact),
	}, sep)

	bar := components.NewLevelBar(st.level.Number, st.level.Percent, cw-6)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Sky).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line + "\n" + bar.View())
}

func dueText(due int, compact bool) string {
	if due == 0 {
		s := "⚡ nothing due"
		if compact {
			s = "⚡0"
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render(s)
	}
	s := fmt.Sprintf("⚡ %d due", due)
	if compact {
		s = fmt.Sprintf("⚡%d", due)
	}
	return lipgloss.NewStyle().Foreground(theme.Sky).Bold(true).Render(s)
}

// renderMenu draws the menu as bordered pills, or as plain lines when
// compact and pills would overflow.
func renderMenu(labels []string, selected, cw int, disabled map[int]bool, compact bool) string {
	rows := make([]string, len(labels))
	for i, label := range labels {
		if !compact {
			rows[i] = components.Pill(label, i == selected, disabled[i], pillWidth)
			continue
		}
		switch {
		case disabled[i]:
			rows[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == selected:
			rows[i] = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.Gold).
				Bold(true).
				Render(" ✿ " + label + " ")
		default:
			rows[i] = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
	}
	return centered(strings.Join(rows, "\n"), cw)
}

// renderNotice renders a one-line message under the menu.
func renderNotice(text string, cw int) string {
	return centered(lipgloss.NewStyle().Foreground(theme.Accent).Render(text), cw)
}

const offlineNotice = "⚠ Set an LLM API key to chat with Sensei (see sensei --help)"
