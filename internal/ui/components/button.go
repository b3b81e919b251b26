package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// Button is a styled button with an optional hotkey shown in brackets.
type Button struct {
	Label  string
	Hotkey string
	Active bool
}

// NewButton creates a new button.
func NewButton(label, hotkey string, active bool) Button {
	return Button{
		Label:  label,
		Hotkey: hotkey,
		Active: active,
	}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Hotkey != "" {
		label = "[" + strings.ToUpper(b.Hotkey) + "] " + label
	}
	if b.Active {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow renders buttons side by side with the selected one active.
func ButtonRow(buttons []Button, selected int) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		b.Active = i == selected
		parts[i] = b.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
