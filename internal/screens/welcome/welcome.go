// Package welcome is the splash screen: Suki waves under falling petals,
// then the banner and greeting appear. Any key moves on to home.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/ui/theme"
)

const frameEvery = 120 * time.Millisecond

// Frames at which each part of the splash appears.
const (
	petalsFrom = 4
	bannerFrom = 12
)

const catArt = `    /\_____/\
   /  ^   ^  \
  (  =  ω  =  )
   )  ┌───┐  (
  (   │かな│   )
   \__└───┘__/`

// Drift columns for the petals, relative to the left edge of the field.
var petalColumns = []int{1, 6, 11, 16, 21}

const petalRows = 3

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameEvery, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// WelcomeScreen never leaves on its own; the learner presses a key.
type WelcomeScreen struct {
	home     func() screen.Screen
	greeting string
	frame    int
	left     bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New builds the splash. home is called once, when the learner moves on.
func New(home func() screen.Screen, greeting string) *WelcomeScreen {
	return &WelcomeScreen{home: home, greeting: greeting}
}

// Title is empty so the header shows no breadcrumb over the splash.
func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		w.frame++
		return w, nextFrame()
	case tea.KeyPressMsg:
		if w.left {
			return w, nil
		}
		w.left = true
		return w, router.Swap(w.home())
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	parts := []string{w.petals(), lipgloss.NewStyle().Foreground(theme.Primary).Render(catArt)}

	if w.frame >= bannerFrom {
		parts = append(parts, "", RenderBanner(width), "")
		if w.greeting != "" {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(w.greeting))
		}
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Let's learn Japanese together!"),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}

// petals draws a small field of blossoms drifting down, one row per frame.
// Before petalsFrom the field is blank so the layout does not jump.
func (w *WelcomeScreen) petals() string {
	rows := make([][]rune, petalRows)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", petalColumns[len(petalColumns)-1]+2))
	}
	if w.frame >= petalsFrom {
		for i, col := range petalColumns {
			row := (w.frame + i*2) % petalRows
			glyph := '✿'
			if (w.frame+i)%2 == 1 {
				glyph = '❀'
			}
			rows[row][col] = glyph
		}
	}

	lines := make([]string, petalRows)
	for i, r := range rows {
		lines[i] = string(r)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render(strings.Join(lines, "\n"))
}
