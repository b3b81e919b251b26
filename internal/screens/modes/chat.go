package modes

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// ChatScreen is the tutor conversation for the chat modes.
type ChatScreen struct {
	machine *session.Machine
	view    session.View
	input   components.TextInput
	busy    bool
	leaving bool
	frame   int
	notice  string
	terms   []string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.Leaver = (*ChatScreen)(nil)

// NewChat creates a ChatScreen for a machine in an active chat mode.
func NewChat(m *session.Machine, v session.View) *ChatScreen {
	return &ChatScreen{
		machine: m,
		view:    v,
		input:   components.NewTextInput("Say something to Sensei...", session.MaxMessageLength),
		notice:  v.Notice,
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return s.view.Mode.Label()
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back home"},
	}
}

// Leave ends the mode and shows its summary.
func (s *ChatScreen) Leave() tea.Cmd {
	if s.busy {
		s.notice = errorNotice(session.ErrBusy)
		return nil
	}
	s.leaving = true
	return leave(s.machine)
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case chatRepliedMsg:
		return s.handleReply(msg)

	case leftModeMsg:
		s.leaving = false
		if msg.Err != nil {
			s.notice = errorNotice(msg.Err)
			return s, nil
		}
		return s, handleLeft(msg, "")

	case spinnerTickMsg:
		if !s.busy {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() (screen.Screen, tea.Cmd) {
	if s.busy || s.leaving {
		return s, nil
	}
	text := s.input.Value()
	if text == "" {
		s.notice = errorNotice(session.ErrEmptyMessage)
		return s, nil
	}

	s.input.Reset()
	s.input.Disabled = true
	s.busy = true
	s.notice = ""
	s.view.Messages = append(s.view.Messages, session.Message{Role: llm.RoleUser, Content: text})

	m := s.machine
	return s, tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
			defer cancel()
			res, err := m.SendChat(ctx, text)
			return chatRepliedMsg{Result: res, Err: err}
		},
		spinnerTick(),
	)
}

func (s *ChatScreen) handleReply(msg chatRepliedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	s.input.Disabled = false
	s.view = msg.Result.View
	s.terms = msg.Result.Terms
	s.notice = msg.Result.Notice
	if msg.Err != nil {
		s.notice = errorNotice(msg.Err)
	}
	return s, nil
}

func (s *ChatScreen) View(width, height int) string {
	cw := min(width-4, 100)

	var footer []string
	if len(s.terms) > 0 {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Sky).Render(
			"New words: "+strings.Join(s.terms, "  ")))
	}
	if s.notice != "" {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(s.notice))
	}
	if s.busy {
		footer = append(footer, lipgloss.NewStyle().Foreground(theme.Primary).Render(
			spinnerFrames[s.frame%len(spinnerFrames)]+" Sensei is thinking..."))
	}
	footer = append(footer, s.input.View())
	bottom := strings.Join(footer, "\n")

	avail := height - lipgloss.Height(bottom) - 1
	transcript := tail(renderTranscript(s.view.Messages, cw), avail)

	content := lipgloss.JoinVertical(lipgloss.Left, transcript, "", bottom)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

// renderTranscript renders tutor messages on the left and learner
// messages on the right.
func renderTranscript(msgs []session.Message, width int) string {
	bubbleWidth := max(20, width*3/4)
	var rows []string
	for _, msg := range msgs {
		if msg.Role == llm.RoleUser {
			bubble := theme.LearnerBubble.Width(min(bubbleWidth, lipgloss.Width(msg.Content)+4)).Render(msg.Content)
			rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
			continue
		}
		bubble := theme.TutorBubble.Width(bubbleWidth).Render(msg.Content)
		rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble))
	}
	return strings.Join(rows, "\n")
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
