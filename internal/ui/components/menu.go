package components

import (
	tea "charm.land/bubbletea/v2"
)

// MenuItem is one entry of a Menu. Disabled entries are skipped by the
// cursor and cannot be activated.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu tracks the cursor over a vertical list of items. Drawing is left to
// the screen that owns it.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.step(1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// step moves the cursor to the next enabled item in direction dir and
// leaves it alone when there is none.
func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Update moves the cursor on arrows or j/k and runs the item's action on
// enter or space. Digits 1-9 pick an item directly.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "enter", "space":
		return m, m.activate(m.Selected)
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			return m, m.activate(int(s[0] - '1'))
		}
	}
	return m, nil
}

func (m *Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return nil
	}
	m.Selected = i
	if m.Items[i].Action == nil {
		return nil
	}
	return m.Items[i].Action()
}

// SelectedItem returns the item under the cursor.
func (m Menu) SelectedItem() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}
