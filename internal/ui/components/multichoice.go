package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// MultiChoice is a multiple-choice selector. The correct option is not
// known up front: the caller submits the choice and later reveals the
// answer it got back.
type MultiChoice struct {
	Question    string
	Options     []string
	Selected    int
	Submitted   bool
	ChosenIndex int
	AnswerIndex int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{
		Question:    question,
		Options:     options,
		ChosenIndex: -1,
		AnswerIndex: -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection. Letter keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	default:
		for i := range m.Options {
			if i < len(choiceLabels) && strings.EqualFold(key, choiceLabels[i]) {
				m.Selected = i
				m.Submitted = true
				m.ChosenIndex = i
			}
		}
	}

	return m, nil
}

// Chosen returns the submitted option.
func (m MultiChoice) Chosen() (string, bool) {
	if !m.Submitted || m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return "", false
	}
	return m.Options[m.ChosenIndex], true
}

// Reveal marks answer as the correct option.
func (m *MultiChoice) Reveal(answer string) {
	for i, opt := range m.Options {
		if opt == answer {
			m.AnswerIndex = i
			return
		}
	}
}

// IsCorrect reports whether the submitted choice matches the revealed
// answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.AnswerIndex >= 0 && m.ChosenIndex == m.AnswerIndex
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	if m.Question != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Question))
		b.WriteString("\n\n")
	}

	for i, opt := range m.Options {
		label := "?"
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Submitted && i == m.AnswerIndex:
			style = style.Foreground(theme.Success).Bold(true)
		case m.Submitted && i == m.ChosenIndex && m.AnswerIndex >= 0:
			style = style.Foreground(theme.Error).Bold(true)
		case m.Submitted && i == m.ChosenIndex:
			style = style.Foreground(theme.Primary).Bold(true)
		case m.Submitted:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return b.String()
}
