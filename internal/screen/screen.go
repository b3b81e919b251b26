// Package screen defines what the router needs from a screen.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/ui/layout"
)

// Screen is one page of the terminal client. View draws only the body;
// the app adds header and footer around it.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title names the screen in the header breadcrumb.
	Title() string
}

// KeyHintProvider lets a screen choose its own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is implemented by screens that must wrap up before Esc takes the
// learner away, such as a mode that records a summary. Leave returns the
// command that does the wrapping up and the navigation.
type Leaver interface {
	Leave() tea.Cmd
}
