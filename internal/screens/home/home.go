package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/modes"
	"github.com/abhisek/sensei/internal/screens/words"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/spacedrep"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/xp"
)

const (
	wordsLabel = "My Words"
	exitLabel  = "Exit"
)

// modeOpenedMsg is sent when the machine has entered review or a mode.
type modeOpenedMsg struct {
	View session.View
	Err  error
}

type stats struct {
	xp      int
	todayXP int
	level   xp.Level
	words   int
	due     int
}

// HomeScreen is the mode picker and dashboard.
type HomeScreen struct {
	machine    *session.Machine
	offline    bool
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool
	stats      stats
	mood       mood
	opening    bool
	notice     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. When offline is set no tutor provider is
// configured and the chat modes are disabled.
func New(m *session.Machine, offline bool) *HomeScreen {
	h := &HomeScreen{
		machine:  m,
		offline:  offline,
		disabled: map[int]bool{},
	}

	var items []components.MenuItem
	for i, mode := range lessons.Modes {
		disabled := offline && mode.IsChat()
		if disabled {
			h.disabled[i] = true
		}
		items = append(items, components.MenuItem{
			Label:    mode.Label(),
			Action:   h.open(mode),
			Disabled: disabled,
		})
		h.menuLabels = append(h.menuLabels, mode.Label())
	}
	items = append(items,
		components.MenuItem{
			Label: wordsLabel,
			Action: func() tea.Cmd {
				return router.Open(words.New(h.machine.Progress()))
			},
		},
		components.MenuItem{
			Label:  exitLabel,
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	h.menuLabels = append(h.menuLabels, wordsLabel, exitLabel)

	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// refresh reloads the dashboard numbers from the progress store.
func (h *HomeScreen) refresh() {
	p := h.machine.Progress()
	st := p.Snapshot(context.Background())
	h.stats = stats{
		xp:      st.XP,
		todayXP: st.DailyXP,
		level:   xp.LevelOf(st.XP),
		words:   len(st.Words),
		due:     spacedrep.DueCount(st.Words, p.Now()),
	}

	h.mood = moodFor(h.stats)
}

func (h *HomeScreen) open(mode lessons.Mode) func() tea.Cmd {
	return func() tea.Cmd {
		if h.opening {
			return nil
		}
		h.opening = true
		h.notice = ""
		m := h.machine
		return func() tea.Msg {
			v, err := m.OpenMode(context.Background(), mode)
			return modeOpenedMsg{View: v, Err: err}
		}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.ResumeMsg:
		h.refresh()
		return h, nil

	case modeOpenedMsg:
		h.opening = false
		if msg.Err != nil {
			h.notice = "Could not start that mode. Please try again."
			return h, nil
		}
		next := modes.ForView(h.machine, msg.View)
		if next == nil {
			return h, nil
		}
		return h, router.Open(next)
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the app header and footer; add them back to judge
	// how much room the whole terminal has.
	compact := height+8 < 34 || width < 100
	cw := components.ContentWidth(width)

	sections := []string{renderBanner(cw, compact)}
	if !compact {
		sections = append(sections, centered(renderMascot(h.mood), cw))
	}
	sections = append(sections,
		renderDashboard(h.stats, cw, compact),
		renderMenu(h.menuLabels, h.menu.Selected, cw, h.disabled, compact),
	)
	if h.offline {
		sections = append(sections, renderNotice(offlineNotice, cw))
	}
	if h.notice != "" {
		sections = append(sections, renderNotice(h.notice, cw))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
