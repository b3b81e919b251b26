package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// ProgressBar is a labelled horizontal gauge Width columns wide, label
// and percentage included. Percent is a fraction and is clamped to [0, 1].
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
	Fill        color.Color // theme.Secondary when nil
}

// NewLevelBar is the gold gauge under the dashboard showing how far the
// learner is through level. percent is whole-number.
func NewLevelBar(level, percent, width int) ProgressBar {
	return ProgressBar{
		Label:       fmt.Sprintf("Lv %d", level),
		Percent:     float64(percent) / 100,
		ShowPercent: true,
		Width:       width,
		Fill:        theme.Gold,
	}
}

func (p ProgressBar) View() string {
	frac := max(0, min(1, p.Percent))

	var label, pct string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.ShowPercent {
		pct = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %3d%%", int(frac*100+0.5)))
	}

	track := max(p.Width-lipgloss.Width(label)-lipgloss.Width(pct), 4)
	done := int(float64(track) * frac)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	return label +
		lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", done)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", track-done)) +
		pct
}
