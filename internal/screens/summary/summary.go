package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/kana"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// SummaryScreen displays what a finished mode earned.
type SummaryScreen struct {
	summary *session.Summary
	notice  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. notice is an optional closing line
// such as the kana game's completion message.
func New(summary *session.Summary, notice string) *SummaryScreen {
	return &SummaryScreen{summary: summary, notice: notice}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, router.Back()
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	title := "Otsukaresama! Great work!"
	if s.notice != "" {
		title = s.notice
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), title))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("%s  ·  %s", sum.Mode.Label(), formatDuration(sum))))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true),
		fmt.Sprintf("✦ +%d XP", sum.XPEarned)))
	b.WriteString("\n\n")

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), statsLine(sum)))
	b.WriteString("\n")

	return b.String()
}

func formatDuration(sum *session.Summary) string {
	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func statsLine(sum *session.Summary) string {
	if sum.Mode == lessons.ModeKanaMatch {
		return fmt.Sprintf("Kana matched: %d/%d", sum.KanaScore, kana.Rounds)
	}
	switch sum.Turns {
	case 0:
		return "No messages this time. Come back and chat!"
	case 1:
		return "You chatted with Sensei once."
	}
	return fmt.Sprintf("You chatted with Sensei %d times.", sum.Turns)
}
