package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/home"
	"github.com/abhisek/sensei/internal/screens/welcome"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/xp"
)

// Options configures the terminal client.
type Options struct {
	Machine *session.Machine

	// Offline disables the chat modes when no tutor provider is set.
	Offline bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	machine *session.Machine
	xp      int
	level   int
	width   int
	height  int
}

// newAppModel creates a new AppModel that greets the learner and then
// shows the home screen.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Machine, opts.Offline)
	}
	greeting := welcome.Greeting(opts.Machine.Progress().Now())
	m := AppModel{
		router:  router.New(welcome.New(homeFactory, greeting)),
		machine: opts.Machine,
	}
	m.refreshHeader()
	return m
}

func (m *AppModel) refreshHeader() {
	st := m.machine.Progress().Snapshot(context.Background())
	m.xp = st.XP
	m.level = xp.LevelOf(st.XP).Number
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if l, ok := m.router.Active().(screen.Leaver); ok {
				return m, l.Leave()
			}
			if m.router.Depth() > 1 {
				return m, router.Back()
			}
			return m, nil
		}
		return m, m.router.Update(msg)
	}

	cmd := m.router.Update(msg)
	m.refreshHeader()
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if !layout.Fits(m.width, m.height) {
		v.SetContent(layout.ResizeNotice(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.Header(breadcrumb(m.router.Trail()), m.xp, m.level, m.width)

	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}, {Key: "Ctrl+C", Description: "Quit"}}
	}
	footer := layout.Footer(hints, m.width)

	body := m.router.View(m.width, layout.BodyHeight(m.height, header, footer))
	frame := layout.Compose(header, body, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// breadcrumb shows at most the last two screens so the header stays on
// one line.
func breadcrumb(trail []string) string {
	if len(trail) > 2 {
		trail = trail[len(trail)-2:]
	}
	return strings.Join(trail, " › ")
}

// Run starts the Bubble Tea program and blocks until the learner quits.
// A mode still open on exit is finished so its summary is recorded.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()

	// Mid-review or mid-turn there is nothing to finish.
	_, _, leaveErr := opts.Machine.BackHome(context.Background())
	if leaveErr != nil && err == nil && !errors.Is(leaveErr, session.ErrNotInMode) && !errors.Is(leaveErr, session.ErrBusy) {
		err = leaveErr
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
