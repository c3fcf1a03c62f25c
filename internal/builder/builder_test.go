// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package builder

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterq/rosterq/internal/attrs"
	"github.com/rosterq/rosterq/internal/catalog"
	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/store"
)

func employees() []map[string]interface{} {
	return []map[string]interface{}{
		{"id": 1, "firstName": "Ada", "department": "Engineering", "salary": 150000, "isActive": true},
		{"id": 2, "firstName": "Bob", "department": "Sales", "salary": 80000, "isActive": true},
		{"id": 3, "firstName": "Cy", "department": "Engineering", "salary": 95000, "isActive": false},
	}
}

func newModel(t *testing.T, initial ...filters.Condition) (Model, *store.Store) {
	t.Helper()
	var al attrs.AttrList
	require.NoError(t, al.Set("id,firstName:first,department,salary::c"))
	st := store.New(initial...)
	return New(st, catalog.Employees(), employees(), al), st
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	var tm tea.Model = m
	for _, k := range keys {
		tm, cmd = tm.Update(keyMsg(k))
	}
	return tm.(Model), cmd
}

// typeLine enters text into the focused input and submits it.
func typeLine(m Model, text string) Model {
	m.input.SetValue(text)
	m, _ = press(m, "enter")
	return m
}

func TestEmpty(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, 3, m.matched)
	assert.Contains(t, m.View(), "No filters applied")
	assert.Contains(t, m.View(), "3 of 3 employees")
}

func TestAddSpec(t *testing.T) {
	m, st := newModel(t)

	m, _ = press(m, "a")
	assert.Equal(t, modeAdd, m.mode)
	m = typeLine(m, "department=Engineering")

	assert.Equal(t, modeBrowse, m.mode)
	require.Equal(t, 1, st.Len())
	assert.Equal(t, 2, m.matched)
	assert.Contains(t, m.View(), "Department  equals  Engineering")

	m, _ = press(m, "a")
	m = typeLine(m, "salary:greaterThan:100000")
	require.Equal(t, 2, st.Len())
	assert.Equal(t, 1, m.matched)
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, filters.KindNumber, st.List()[1].Value.Kind)
}

func TestAddBareField(t *testing.T) {
	m, st := newModel(t)

	m, _ = press(m, "a")
	m = typeLine(m, "")
	m, _ = press(m, "a")
	m = typeLine(m, "isActive")

	conds := st.List()
	require.Len(t, conds, 2)
	assert.Equal(t, "firstName", conds[0].Field)
	assert.Equal(t, filters.OpEquals, conds[0].Operator)
	assert.True(t, conds[0].Value.IsNull())
	assert.Equal(t, "isActive", conds[1].Field)
	assert.Contains(t, m.View(), "Active  equals  (any)")
}

func TestAddRejected(t *testing.T) {
	m, st := newModel(t)

	m, _ = press(m, "a")
	m = typeLine(m, "nosuchfield")
	assert.Equal(t, modeAdd, m.mode)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.View(), "unknown field")

	m = typeLine(m, "salary:between:5")
	assert.Equal(t, modeAdd, m.mode)
	assert.Contains(t, m.status, "range")

	m, _ = press(m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Zero(t, st.Len())
}

func TestEditValue(t *testing.T) {
	m, st := newModel(t, filters.Condition{Field: "salary", Operator: filters.OpGreaterThan, Value: filters.Number(90000)})
	assert.Equal(t, 2, m.matched)

	m, _ = press(m, "e")
	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "90000", m.input.Value())

	m = typeLine(m, "not money")
	assert.Equal(t, modeEdit, m.mode)
	assert.Contains(t, m.status, "not a number")

	m = typeLine(m, "100000")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 1, m.matched)
	assert.Equal(t, filters.Number(100000), st.List()[0].Value)

	m, _ = press(m, "e")
	m = typeLine(m, "")
	assert.True(t, st.List()[0].Value.IsNull())
}

func TestEditNoValueOperator(t *testing.T) {
	m, _ := newModel(t, filters.Condition{Field: "email", Operator: filters.OpIsEmpty})
	m, _ = press(m, "e")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.status, "takes no value")
}

func TestRetargetAndOperator(t *testing.T) {
	m, st := newModel(t, filters.Condition{Field: "role", Operator: filters.OpContains, Value: filters.String("eng")})

	m, _ = press(m, "f")
	c := st.List()[0]
	assert.Equal(t, "salary", c.Field)
	assert.Equal(t, filters.OpEquals, c.Operator)
	assert.True(t, c.Value.IsNull())

	m, _ = press(m, "F", "F")
	assert.Equal(t, "department", st.List()[0].Field)

	m, _ = press(m, "e")
	m = typeLine(m, "Sales")
	m, _ = press(m, "o")
	c = st.List()[0]
	assert.Equal(t, filters.OpNotEquals, c.Operator)
	assert.Equal(t, filters.String("Sales"), c.Value)
	assert.Equal(t, 2, m.matched)

	// Moving to a list operator drops the scalar value.
	m, _ = press(m, "o")
	c = st.List()[0]
	assert.Equal(t, filters.OpIn, c.Operator)
	assert.True(t, c.Value.IsNull())

	m, _ = press(m, "O", "O")
	assert.Equal(t, filters.OpEquals, st.List()[0].Operator)
	_ = m
}

func TestDeleteAndClear(t *testing.T) {
	m, st := newModel(t,
		filters.Condition{Field: "department", Operator: filters.OpEquals, Value: filters.String("Engineering")},
		filters.Condition{Field: "isActive", Operator: filters.OpEquals, Value: filters.Bool(true)},
		filters.Condition{Field: "salary", Operator: filters.OpLessThan, Value: filters.Number(1)},
	)
	assert.Zero(t, m.matched)

	m, _ = press(m, "down", "down", "d")
	assert.Equal(t, 2, st.Len())
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 1, m.matched)

	m, _ = press(m, "up", "x")
	assert.Equal(t, "isActive", st.List()[0].Field)
	assert.Equal(t, 2, m.matched)

	m, _ = press(m, "c")
	assert.Zero(t, st.Len())
	assert.Equal(t, 3, m.matched)

	// Nothing to delete.
	m, _ = press(m, "d", "e", "f", "o")
	assert.Zero(t, st.Len())
}

func TestTableFocusAndQuit(t *testing.T) {
	m, _ := newModel(t)

	m, _ = press(m, "tab")
	assert.True(t, m.tableFocus)
	assert.Contains(t, m.View(), "TAB: back to filters")

	// Keys go to the table, not the condition list.
	m, cmd := press(m, "a")
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)

	m, _ = press(m, "esc")
	assert.False(t, m.tableFocus)

	_, cmd = press(m, "q")
	assert.NotNil(t, cmd)
}

func TestResultRows(t *testing.T) {
	m, _ := newModel(t, filters.Condition{Field: "department", Operator: filters.OpEquals, Value: filters.String("Engineering")})
	rows := m.results.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Ada", "Engineering", "150,000"}, []string(rows[0]))
	assert.Equal(t, "first", m.results.Columns()[1].Title)
}

func TestWindowSize(t *testing.T) {
	m, _ := newModel(t)
	before := m.results.Height()
	tm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	assert.Greater(t, tm.(Model).results.Height(), before)
}

type memPersister struct {
	mu    sync.Mutex
	saves [][]filters.Condition
	err   error
}

func (p *memPersister) Save(c []filters.Condition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, c)
	return p.err
}

func (p *memPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func TestSaverCoalesces(t *testing.T) {
	p := &memPersister{}
	s := NewSaver(p, 20*time.Millisecond)

	st := store.New()
	st.OnChange(s.Schedule)
	st.Add("salary", filters.OpGreaterThan, filters.Number(1))
	st.Add("isActive", filters.OpEquals, filters.Bool(true))
	st.Add("email", filters.OpIsNotEmpty, filters.Null())

	assert.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, p.saves[0], 3)

	require.NoError(t, s.Flush())
	assert.Equal(t, 1, p.count())
}

func TestSaverFlush(t *testing.T) {
	p := &memPersister{}
	s := NewSaver(p, time.Hour)

	s.Schedule([]filters.Condition{{Field: "role", Operator: filters.OpIsEmpty}})
	assert.Zero(t, p.count())
	require.NoError(t, s.Flush())
	assert.Equal(t, 1, p.count())

	p.err = errors.New("disk full")
	s.Schedule(nil)
	assert.ErrorContains(t, s.Flush(), "disk full")
}

func TestSaverWritesFile(t *testing.T) {
	f := store.File{Path: filepath.Join(t.TempDir(), "filters.json")}
	s := NewSaver(f, time.Hour)

	m, st := newModel(t)
	st.OnChange(s.Schedule)
	m, _ = press(m, "a")
	_ = typeLine(m, "department=Sales")
	require.NoError(t, s.Flush())

	got, err := f.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "department", got[0].Field)
}
