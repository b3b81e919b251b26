// Package words shows the learner's word ledger.
package words

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

const pageSize = 12

type wordsLoadedMsg struct {
	Words []progress.WordEntry
	Now   time.Time
}

// WordsScreen lists tracked words, most recently seen first.
type WordsScreen struct {
	store    *progress.Store
	words    []progress.WordEntry
	now      time.Time
	selected int
	expanded map[int]bool
	loaded   bool
}

var _ screen.Screen = (*WordsScreen)(nil)
var _ screen.KeyHintProvider = (*WordsScreen)(nil)

// New creates a WordsScreen over p.
func New(p *progress.Store) *WordsScreen {
	return &WordsScreen{store: p, expanded: make(map[int]bool)}
}

func (s *WordsScreen) Init() tea.Cmd {
	p := s.store
	return func() tea.Msg {
		st := p.Snapshot(context.Background())
		words := slices.Clone(st.Words)
		slices.SortStableFunc(words, func(a, b progress.WordEntry) int {
			return b.LastSeen.Compare(a.LastSeen)
		})
		return wordsLoadedMsg{Words: words, Now: p.Now()}
	}
}

func (s *WordsScreen) Title() string {
	return "My Words"
}

func (s *WordsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WordsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case wordsLoadedMsg:
		s.words = msg.Words
		s.now = msg.Now
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Back()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.words)-1 {
				s.selected++
			}
		case "enter", "space":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *WordsScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.TextDim)
	if !s.loaded {
		return dim.Render("\n\n  Loading words...")
	}
	if len(s.words) == 0 {
		return dim.Italic(true).Render("\n\n  No words yet. Chat with Sensei to collect some!")
	}

	due := 0
	for _, w := range s.words {
		if w.IsDue(s.now) {
			due++
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(dim.Render(fmt.Sprintf("%d words · %d due for review", len(s.words), due)))
	b.WriteString("\n\n")

	start := 0
	if s.selected >= pageSize {
		start = s.selected - pageSize + 1
	}
	end := min(len(s.words), start+pageSize)

	for i := start; i < end; i++ {
		w := s.words[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s  %s  %s", prefix, w.Term, orDash(w.Romaji), orDash(w.English))
		if w.IsDue(s.now) {
			line += "  ⏰"
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    seen %d× · last %s · next review %s",
				w.Count, w.LastSeen.Format("Jan 02"), reviewWhen(w, s.now))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func reviewWhen(w progress.WordEntry, now time.Time) string {
	if w.IsDue(now) {
		return "now"
	}
	days := int(w.NextReviewAt.Sub(now).Hours()/24) + 1
	if days == 1 {
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}
