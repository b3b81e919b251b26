package modes

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

var reviewButtons = []components.Button{
	components.NewButton("Again", "a", false),
	components.NewButton("Got it", "g", false),
}

// ReviewScreen shows due words one at a time before a mode begins.
type ReviewScreen struct {
	machine  *session.Machine
	view     session.View
	selected int // 0 Again, 1 Got it
	revealed bool
	busy     bool
	notice   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.Leaver = (*ReviewScreen)(nil)

// NewReview creates a ReviewScreen for a machine in the reviewing phase.
func NewReview(m *session.Machine, v session.View) *ReviewScreen {
	return &ReviewScreen{machine: m, view: v, selected: 1}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return "Quick Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if !s.revealed {
		return []layout.KeyHint{
			{Key: "Space", Description: "Show meaning"},
			{Key: "A", Description: "Again"},
			{Key: "G", Description: "Got it"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
	}
}

// Leave keeps the learner on the card; review has to finish before the
// mode starts or the app goes home.
func (s *ReviewScreen) Leave() tea.Cmd {
	s.notice = errorNotice(session.ErrReviewing)
	return nil
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reviewAnsweredMsg:
		return s.handleAnswered(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	switch msg.String() {
	case "space", " ":
		s.revealed = true
	case "left", "h":
		s.selected = 0
	case "right", "l":
		s.selected = 1
	case "a", "A":
		return s, s.answer(false)
	case "g", "G":
		return s, s.answer(true)
	case "enter":
		if !s.revealed {
			s.revealed = true
			return s, nil
		}
		return s, s.answer(s.selected == 1)
	}
	return s, nil
}

func (s *ReviewScreen) answer(correct bool) tea.Cmd {
	s.busy = true
	s.notice = ""
	m := s.machine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		v, err := m.AnswerReview(ctx, correct)
		return reviewAnsweredMsg{View: v, Err: err}
	}
}

func (s *ReviewScreen) handleAnswered(msg reviewAnsweredMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.notice = errorNotice(msg.Err)
		return s, nil
	}
	if msg.View.Phase != session.PhaseReviewing {
		next := ForView(s.machine, msg.View)
		if next == nil {
			return s, router.Back()
		}
		return s, router.Swap(next)
	}
	s.view = msg.View
	s.revealed = false
	s.selected = 1
	return s, nil
}

func (s *ReviewScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	card := s.view.Review
	if card == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Getting your words ready..."))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Word %d of %d before %s", card.Index+1, card.Total, s.view.PendingMode.Label())))
	b.WriteString("\n\n")
	b.WriteString(theme.Kana.Render(card.Term))
	b.WriteString("\n\n")

	if s.revealed {
		reading := card.Romaji
		if reading == "" {
			reading = "?"
		}
		meaning := card.English
		if meaning == "" {
			meaning = "?"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(reading))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(meaning))
	} else {
		b.WriteString(theme.Hint.Render("Do you remember it?"))
	}

	sections := []string{
		components.Card(b.String(), cw),
		components.ButtonRow(reviewButtons, s.selected),
	}
	if s.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
