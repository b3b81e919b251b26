package modes

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// KanaScreen runs the kana match game. After each answer the correct
// option is revealed until the learner presses a key.
type KanaScreen struct {
	machine *session.Machine
	card    *session.KanaCard
	choice  components.MultiChoice
	busy    bool
	result  *session.KanaResult
	notice  string
}

var _ screen.Screen = (*KanaScreen)(nil)
var _ screen.KeyHintProvider = (*KanaScreen)(nil)
var _ screen.Leaver = (*KanaScreen)(nil)

// NewKana creates a KanaScreen for a machine running the kana game.
func NewKana(m *session.Machine, v session.View) *KanaScreen {
	s := &KanaScreen{machine: m}
	s.load(v.Kana)
	return s
}

func (s *KanaScreen) load(card *session.KanaCard) {
	s.card = card
	s.result = nil
	if card != nil {
		s.choice = components.NewMultiChoice("", card.Options)
	}
}

func (s *KanaScreen) Init() tea.Cmd {
	return nil
}

func (s *KanaScreen) Title() string {
	return "Kana Match"
}

func (s *KanaScreen) KeyHints() []layout.KeyHint {
	if s.result != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Next card"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "A-D", Description: "Pick"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Esc", Description: "Back home"},
	}
}

// Leave ends the game early and shows its summary.
func (s *KanaScreen) Leave() tea.Cmd {
	if s.busy {
		return nil
	}
	return leave(s.machine)
}

func (s *KanaScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case kanaAnsweredMsg:
		return s.handleAnswered(msg)

	case leftModeMsg:
		if msg.Err != nil {
			s.notice = errorNotice(msg.Err)
			return s, nil
		}
		return s, handleLeft(msg, "")

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *KanaScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy || s.card == nil {
		return s, nil
	}

	// Feedback shown; any key moves on.
	if s.result != nil {
		res := s.result
		if res.Done && res.Summary != nil {
			return s, replaceWithSummary(res.Summary, res.View.Notice)
		}
		s.load(res.View.Kana)
		return s, nil
	}

	s.choice, _ = s.choice.Update(msg)
	option, ok := s.choice.Chosen()
	if !ok {
		return s, nil
	}

	s.busy = true
	m := s.machine
	return s, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		res, err := m.AnswerKana(ctx, option)
		return kanaAnsweredMsg{Result: res, Err: err}
	}
}

func (s *KanaScreen) handleAnswered(msg kanaAnsweredMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.notice = errorNotice(msg.Err)
		s.load(msg.Result.View.Kana)
		return s, nil
	}
	res := msg.Result
	s.result = &res
	s.choice.Reveal(res.Answer)
	return s, nil
}

func (s *KanaScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.card == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("No game running."))
	}

	score := s.card.Score
	if s.result != nil && s.result.Correct {
		score++
	}
	status := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Card %d/%d   ", s.card.Index+1, s.card.Rounds)) +
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d", score))

	var b strings.Builder
	b.WriteString(theme.Kana.Render(s.card.Kana))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	sections := []string{status, components.Card(b.String(), cw)}
	if s.result != nil {
		sections = append(sections, renderKanaFeedback(s.result))
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderKanaFeedback(res *session.KanaResult) string {
	if res.Correct {
		return theme.Correct.Render("せいかい! Correct!")
	}
	return theme.Incorrect.Render(fmt.Sprintf("Not quite. It was %q.", res.Answer))
}
