// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rosterq/rosterq/internal/log"
)

// maxHistory caps the persisted console history.
const maxHistory = 1000

// model is the Bubble Tea model for the inspect console.
type model struct {
	input       textinput.Model
	history     []string // Full history for navigation, including the file.
	session     []string // Lines entered this session, paired with output.
	histIndex   int
	banner      []string
	output      []string
	records     []map[string]interface{}
	historyFile string
}

func newModel(records []map[string]interface{}, historyFile string) model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return model{
		input:     ti,
		history:   LoadHistory(historyFile),
		histIndex: -1,
		banner: []string{
			fmt.Sprintf("Inspect console loaded. %d employees found.", len(records)),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
		records:     records,
		historyFile: historyFile,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if entry == "" {
				return m, nil
			}
			if entry == "exit" || entry == "quit" {
				return m, tea.Quit
			}

			result := Help
			if entry != "help" {
				result = Process(m.records, entry)
			}

			m.history = append(m.history, entry)
			m.session = append(m.session, entry)
			m.output = append(m.output, result)
			m.histIndex = -1
			SaveHistory(m.historyFile, m.history)
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0088a0"))
	prompt := promptStyle.Render("> ")

	lines := append([]string{}, m.banner...)
	for i := range m.session {
		lines = append(lines, prompt+m.session[i])
		if i < len(m.output) {
			lines = append(lines, m.output[i])
		}
	}
	lines = append(lines, prompt+m.input.View())

	return strings.Join(lines, "\n")
}

// Run starts the interactive console over records.
func Run(records []map[string]interface{}) error {
	p := tea.NewProgram(newModel(records, HistoryFile()))
	_, err := p.Run()
	return err
}

// Help is shown for the help command.
const Help = `Expressions are HCL. Variables:
  employees                          - list of employee records
  count                              - number of employees
  fields                             - catalog field paths

Examples:
  employees[0].firstName
  [for e in employees : e.email if e.salary > 150000]
  length(where(employees, "department=Engineering,isActive=true"))
  distinct(pluck(employees, "address.state"))
  max(pluck(employees, "salary")...)
  try(employees[999].id, "none")

Functions: the cty standard library (upper, join, sort, keys, length,
regex, formatdate ...), try, can, where(list, filter spec) and
pluck(list, path).

Navigation:
  up/down arrows                     - history
  Ctrl+C, esc, exit                  - quit`

// HistoryFile returns the path of the console history file.
func HistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rosterq_inspect_history"
	}
	return filepath.Join(homeDir, ".rosterq_inspect_history")
}

// LoadHistory reads non-blank history lines. A missing file is empty
// history.
func LoadHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	return history
}

// SaveHistory writes the newest maxHistory lines to filename.
func SaveHistory(filename string, history []string) {
	if filename == "" {
		return
	}

	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		log.Debugf("saving inspect history: %v", err)
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := start; i < len(history); i++ {
		fmt.Fprintln(writer, history[i])
	}
	_ = writer.Flush()
}
