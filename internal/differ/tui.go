// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Item is one pickable entry.
type Item struct {
	ID    string
	Label string
}

// Pick lets the user toggle up to limit items (zero means any number). It
// returns nil when the user quits without confirming.
func Pick(title string, items []Item, limit int) ([]Item, error) {
	p := tea.NewProgram(newPicker(title, items, limit))
	m, err := p.Run()
	if err != nil {
		return nil, err
	}
	return m.(picker).selected, nil
}

type picker struct {
	title    string
	items    []Item
	limit    int
	cursor   int
	selected []Item
}

func newPicker(title string, items []Item, limit int) picker {
	return picker{title: title, items: items, limit: limit}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.selected = nil
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if len(m.items) == 0 {
				break
			}
			if i := m.index(m.items[m.cursor]); i >= 0 {
				m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			} else if m.limit == 0 || len(m.selected) < m.limit {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if m.limit == 0 || len(m.selected) == m.limit {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m picker) View() string {
	var b strings.Builder
	b.WriteString(m.title + "\n\n")
	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		if m.index(item) >= 0 {
			mark = "x"
		}
		fmt.Fprintf(&b, "%s [%s] %s\n", cursor, mark, item.Label)
	}
	return b.String() + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func (m picker) index(item Item) int {
	for i, v := range m.selected {
		if v.ID == item.ID {
			return i
		}
	}
	return -1
}
