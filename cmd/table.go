package cmd

import (
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// report is a titled table printed by the inspection commands. Columns
// from numericFrom onwards are right-aligned.
type report struct {
	title       string
	headers     []string
	rows        [][]string
	footer      []string
	numericFrom int
}

func (r *report) add(cells ...string) { r.rows = append(r.rows, cells) }

func (r *report) render(w io.Writer) {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	total := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	rows := r.rows
	if r.footer != nil {
		rows = append(rows[:len(rows):len(rows)], r.footer)
	}
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(r.headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			switch {
			case row == table.HeaderRow:
				s = header
			case r.footer != nil && row == last:
				s = total
			}
			if r.numericFrom > 0 && col >= r.numericFrom {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	if r.title != "" {
		lipgloss.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(r.title))
	}
	lipgloss.Fprintln(w, t)
}

func itoa(n int) string { return strconv.Itoa(n) }
