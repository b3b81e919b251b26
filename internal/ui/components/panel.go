package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// Content column bounds. Every card on a screen shares one width so the
// borders line up.
const (
	minContent = 24
	maxContent = 56
)

// ContentWidth returns the column width for a frame of the given width,
// leaving room for the frame border and its padding.
func ContentWidth(frameWidth int) int {
	return max(minContent, min(maxContent, frameWidth-6))
}

// Frame draws the sakura border around a full screen and centres content
// inside it.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card is a rounded, centred panel cw columns wide.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Pill is a fixed-width menu entry. The selected pill is filled gold and
// marked with a blossom; disabled pills are dimmed and never selected.
func Pill(label string, selected, disabled bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch {
	case disabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return style.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Gold).
			BorderForeground(theme.Gold).
			Render("✿ " + label)
	default:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}
