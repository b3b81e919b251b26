// Package layout draws the chrome around every screen: the header strip
// with the learner's level, the key-hint footer and the body between them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// Smallest terminal the screens are drawn for.
const (
	MinWidth  = 72
	MinHeight = 22
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Fits reports whether a terminal of this size can hold the UI.
func Fits(width, height int) bool {
	return width >= MinWidth && height >= MinHeight
}

// ResizeNotice asks for a bigger window instead of drawing a broken frame.
func ResizeNotice(width, height int) string {
	body := fmt.Sprintf("ちょっと せまい! The window is a little small.\n\nMake it at least %d×%d\n(now %d×%d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(body)
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// Header draws the brand on the left, the screen title in the middle and
// the learner's level and XP on the right.
func Header(title string, xp, level, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  ✿ Sensei 先生")
	middle := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	badge := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("★ Lv %d", level)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(" · ") +
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d XP  ", xp))

	inner := max(width-4, 0)
	bw, mw, rw := lipgloss.Width(brand), lipgloss.Width(middle), lipgloss.Width(badge)

	// Keep the title centred on the bar when there is room for it.
	left := max((inner-mw)/2-bw, 1)
	right := max(inner-bw-left-mw-rw, 1)

	return bar.Width(width).Render(brand + strings.Repeat(" ", left) + middle + strings.Repeat(" ", right) + badge)
}

// Footer lists key hints separated by dots.
func Footer(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	dot := lipgloss.NewStyle().Foreground(theme.Border).Render("  ·  ")

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, dot))
}

// BodyHeight is what is left for the screen once header and footer are
// drawn.
func BodyHeight(height int, header, footer string) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// Compose stacks header, body and footer, padding the body so the footer
// sits on the last rows.
func Compose(header, body, footer string, width, height int) string {
	padded := lipgloss.NewStyle().
		Width(width).
		Height(BodyHeight(height, header, footer)).
		Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, padded, footer)
}
