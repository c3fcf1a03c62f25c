// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/output"
	"github.com/rosterq/rosterq/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
)

const maxColumnWidth = 24

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00c8f0"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#f6be00"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
)

// Model is the builder's Bubble Tea model.
type Model struct {
	store   *store.Store
	catalog catalog.Catalog
	records []map[string]interface{}
	columns attrs.AttrList

	cursor     int
	mode       mode
	tableFocus bool
	input      textinput.Model
	results    table.Model
	matched    int
	status     string
	statusErr  bool
}

// New returns a builder over records editing st. Result columns follow al.
func New(st *store.Store, cat catalog.Catalog, records []map[string]interface{}, al attrs.AttrList) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	included := al.Included()
	cols := make([]table.Column, len(included))
	for i, a := range included {
		cols[i] = table.Column{Title: a.OutputKey, Width: len(a.OutputKey)}
	}

	m := Model{
		store:   st,
		catalog: cat,
		records: records,
		columns: included,
		input:   ti,
		results: table.New(table.WithColumns(cols), table.WithHeight(12)),
	}
	m.refresh()
	return m
}

// Run starts the builder and blocks until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.results.SetHeight(max(msg.Height-m.store.Len()-10, 3))
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tableFocus {
		switch key.String() {
		case "tab", "esc":
			m.tableFocus = false
			m.results.Blur()
			return m, nil
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(key)
		return m, cmd
	}

	conditions := m.store.List()
	m.status, m.statusErr = "", false

	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tableFocus = true
		m.results.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(conditions)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeAdd
		m.input.Placeholder = "field:operator:value, department=Sales, or just a field"
		m.input.SetValue("")
		m.input.Focus()
	case "e", "enter":
		if len(conditions) == 0 {
			break
		}
		c := conditions[m.cursor]
		if c.Operator.Arity() == filters.ArityNone {
			m.setStatus(fmt.Sprintf("%s takes no value", c.Operator), false)
			break
		}
		m.mode = modeEdit
		m.input.Placeholder = m.placeholder(c)
		m.input.SetValue(c.Value.String())
		m.input.CursorEnd()
		m.input.Focus()
	case "f", "F":
		if len(conditions) == 0 {
			break
		}
		step := 1
		if key.String() == "F" {
			step = -1
		}
		m.retarget(conditions[m.cursor], step)
	case "o", "O":
		if len(conditions) == 0 {
			break
		}
		step := 1
		if key.String() == "O" {
			step = -1
		}
		m.cycleOperator(conditions[m.cursor], step)
	case "d", "x", "delete":
		if len(conditions) == 0 {
			break
		}
		m.store.Remove(conditions[m.cursor].ID)
		if m.cursor >= m.store.Len() && m.cursor > 0 {
			m.cursor--
		}
	case "c":
		m.store.Clear()
		m.cursor = 0
	}

	m.refresh()
	return m, nil
}

func (m Model) updateInput(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "enter":
		var err error
		if m.mode == modeAdd {
			err = m.add(m.input.Value())
		} else {
			err = m.editValue(m.input.Value())
		}
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.mode = modeBrowse
		m.input.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// add appends a condition. A bare field path, or nothing at all, starts a
// condition with the field's first operator and no value.
func (m *Model) add(entry string) error {
	entry = strings.TrimSpace(entry)

	if entry == "" || !strings.ContainsAny(entry, ":=!<>@^$") {
		f := m.catalog[0]
		if entry != "" {
			var ok bool
			if f, ok = m.catalog.Lookup(entry); !ok {
				return fmt.Errorf("unknown field %q", entry)
			}
		}
		m.store.Add(f.Path, f.AllowedOperators()[0], filters.Null())
		m.cursor = m.store.Len() - 1
		return nil
	}

	c, err := filters.ParseFilter(entry)
	if err != nil {
		return err
	}
	c = m.catalog.Retype(c)
	if problems := m.catalog.Validate(c); len(problems) > 0 {
		return errors.Join(problems...)
	}
	m.store.Add(c.Field, c.Operator, c.Value)
	m.cursor = m.store.Len() - 1
	return nil
}

func (m *Model) editValue(raw string) error {
	conditions := m.store.List()
	if len(conditions) == 0 {
		return nil
	}
	c := conditions[m.cursor]

	v := filters.Null()
	if strings.TrimSpace(raw) != "" {
		if f, ok := m.catalog.Lookup(c.Field); ok {
			var err error
			if v, err = m.catalog.ParseValue(f, c.Operator, raw); err != nil {
				return err
			}
		} else {
			v = filters.InferValue(c.Operator, raw)
		}
	}
	m.store.Update(c.ID, store.Patch{Value: &v})
	return nil
}

// retarget moves c to the next catalog field, resetting the operator to the
// new field's first and clearing the value.
func (m *Model) retarget(c filters.Condition, step int) {
	idx := -1
	for i, f := range m.catalog {
		if f.Path == c.Field {
			idx = i
			break
		}
	}
	next := m.catalog[(idx+step+len(m.catalog))%len(m.catalog)]
	op := next.AllowedOperators()[0]
	null := filters.Null()
	m.store.Update(c.ID, store.Patch{Field: &next.Path, Operator: &op, Value: &null})
}

// cycleOperator steps through the operators the field offers. The value is
// kept when its shape suits the new operator and cleared otherwise.
func (m *Model) cycleOperator(c filters.Condition, step int) {
	ops := filters.Operators
	if f, ok := m.catalog.Lookup(c.Field); ok {
		ops = f.AllowedOperators()
	}
	idx := 0
	for i, op := range ops {
		if op == c.Operator {
			idx = i
			break
		}
	}
	op := ops[(idx+step+len(ops))%len(ops)]
	patch := store.Patch{Operator: &op}
	if op.Arity() != c.Operator.Arity() {
		null := filters.Null()
		patch.Value = &null
	}
	m.store.Update(c.ID, patch)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) placeholder(c filters.Condition) string {
	f, ok := m.catalog.Lookup(c.Field)
	if !ok {
		return ""
	}
	switch {
	case c.Operator.Arity() == filters.ArityRange:
		return "low..high"
	case c.Operator.Arity() == filters.ArityList:
		return "a|b|c"
	case f.Placeholder != "":
		return f.Placeholder
	}
	return string(f.Type)
}

// refresh re-applies the conditions and rebuilds the result table.
func (m *Model) refresh() {
	conditions := m.catalog.RetypeAll(m.store.List())
	result := filters.Apply(m.records, conditions)
	m.matched = len(result)

	cols := m.results.Columns()
	rows := make([]table.Row, 0, len(result))
	for _, record := range result {
		values := m.columns.Project(record)
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = output.InterfaceToString(v, "-")
			if w := min(len(row[i]), maxColumnWidth); i < len(cols) && w > cols[i].Width {
				cols[i].Width = w
			}
		}
		rows = append(rows, row)
	}
	m.results.SetColumns(cols)
	m.results.SetRows(rows)

	if m.cursor >= len(conditions) {
		m.cursor = max(len(conditions)-1, 0)
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Filters") + "\n\n")

	conditions := m.store.List()
	if len(conditions) == 0 {
		b.WriteString(faintStyle.Render("No filters applied. Press a to add one.") + "\n")
	}
	for i, c := range conditions {
		line := describe(m.catalog, c)
		if i == m.cursor && !m.tableFocus {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
		for _, p := range m.catalog.Validate(m.catalog.Retype(c)) {
			b.WriteString("    " + warnStyle.Render(p.Error()) + "\n")
		}
	}

	if m.mode != modeBrowse {
		label := "add"
		if m.mode == modeEdit {
			label = "value"
		}
		b.WriteString("\n" + label + ": " + m.input.View() + "\n")
	}

	if m.status != "" {
		style := faintStyle
		if m.statusErr {
			style = errStyle
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}

	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render(fmt.Sprintf("%d of %d employees", m.matched, len(m.records))))
	b.WriteString(m.results.View() + "\n")

	b.WriteString(faintStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch {
	case m.mode != modeBrowse:
		return "ENTER: apply, ESC: cancel"
	case m.tableFocus:
		return "up/down: scroll, TAB: back to filters, Q: quit"
	}
	return "a: add, e: value, f/F: field, o/O: operator, d: delete, c: clear, TAB: results, Q: quit"
}

// describe renders c with the catalog's labels, for example
// "Salary  greaterThan  90000".
func describe(cat catalog.Catalog, c filters.Condition) string {
	label := c.Field
	if f, ok := cat.Lookup(c.Field); ok {
		label = f.Label
	}
	if c.Operator.Arity() == filters.ArityNone {
		return fmt.Sprintf("%s  %s", label, c.Operator)
	}
	value := c.Value.String()
	if c.Value.IsNull() {
		value = "(any)"
	}
	return fmt.Sprintf("%s  %s  %s", label, c.Operator, value)
}
