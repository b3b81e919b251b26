// Package router keeps the stack of screens the learner has walked through
// and turns navigation messages into stack changes.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/screen"
)

// OpenMsg puts Screen on top of the current one.
type OpenMsg struct{ Screen screen.Screen }

// BackMsg leaves the current screen for the one beneath it.
type BackMsg struct{}

// SwapMsg replaces the current screen with Screen, so Back skips it.
type SwapMsg struct{ Screen screen.Screen }

// ResumeMsg is delivered to a screen when the one above it is closed.
type ResumeMsg struct{}

// Open returns a command that opens s.
func Open(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return OpenMsg{Screen: s} }
}

// Back returns a command that closes the current screen.
func Back() tea.Cmd {
	return func() tea.Msg { return BackMsg{} }
}

// Swap returns a command that replaces the current screen with s.
func Swap(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return SwapMsg{Screen: s} }
}

// Router is a stack of screens; only the top one is live.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) open(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// back never removes the root screen.
func (r *Router) back() tea.Cmd {
	if len(r.stack) < 2 {
		return nil
	}
	r.stack[len(r.stack)-1] = nil
	r.stack = r.stack[:len(r.stack)-1]
	return func() tea.Msg { return ResumeMsg{} }
}

func (r *Router) swap(s screen.Screen) tea.Cmd {
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// Active is the screen on top, or nil when the stack is empty.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int { return len(r.stack) }

// Trail lists screen titles from the root up to the active screen.
func (r *Router) Trail() []string {
	titles := make([]string, len(r.stack))
	for i, s := range r.stack {
		titles[i] = s.Title()
	}
	return titles
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case OpenMsg:
		return r.open(msg.Screen)
	case BackMsg:
		return r.back()
	case SwapMsg:
		return r.swap(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}
	next, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View draws the active screen into the body area.
func (r *Router) View(width, height int) string {
	if active := r.Active(); active != nil {
		return active.View(width, height)
	}
	return ""
}
