// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/rosterq/rosterq/internal/filters"
)

// Patch holds the parts of a condition to change. Nil members are left
// alone.
type Patch struct {
	Field    *string
	Operator *filters.Operator
	Value    *filters.Value
}

// Store is an ordered list of conditions. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	conditions []filters.Condition
	onChange   func([]filters.Condition)
}

// New returns a store holding initial. Conditions without an id get one.
func New(initial ...filters.Condition) *Store {
	s := &Store{}
	for _, c := range initial {
		if c.ID == "" {
			c.ID = NewID()
		}
		s.conditions = append(s.conditions, c)
	}
	return s
}

// NewID returns a fresh condition id.
func NewID() string {
	return uuid.NewString()
}

// OnChange registers fn to receive a snapshot after every mutation.
func (s *Store) OnChange(fn func([]filters.Condition)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// List returns a copy of the conditions in order.
func (s *Store) List() []filters.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.conditions)
}

// Len returns the number of conditions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conditions)
}

// Get returns the condition with the given id.
func (s *Store) Get(id string) (filters.Condition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.conditions[i], true
	}
	return filters.Condition{}, false
}

// Add appends a new condition with a fresh id and returns it.
func (s *Store) Add(field string, op filters.Operator, v filters.Value) filters.Condition {
	c := filters.Condition{ID: NewID(), Field: field, Operator: op, Value: v}
	s.mutate(func() {
		s.conditions = append(s.conditions, c)
	})
	return c
}

// Remove deletes the condition with the given id. It reports whether one was
// found.
func (s *Store) Remove(id string) bool {
	found := false
	s.mutate(func() {
		if i := s.index(id); i >= 0 {
			s.conditions = slices.Delete(s.conditions, i, i+1)
			found = true
		}
	})
	return found
}

// Update applies p to the condition with the given id and returns the
// result.
func (s *Store) Update(id string, p Patch) (filters.Condition, bool) {
	var updated filters.Condition
	found := false
	s.mutate(func() {
		i := s.index(id)
		if i < 0 {
			return
		}
		c := s.conditions[i]
		if p.Field != nil {
			c.Field = *p.Field
		}
		if p.Operator != nil {
			c.Operator = *p.Operator
		}
		if p.Value != nil {
			c.Value = *p.Value
		}
		s.conditions[i] = c
		updated, found = c, true
	})
	return updated, found
}

// Clear removes every condition.
func (s *Store) Clear() {
	s.mutate(func() {
		s.conditions = nil
	})
}

// Replace swaps the whole list. Conditions without an id get one.
func (s *Store) Replace(conditions []filters.Condition) {
	s.mutate(func() {
		s.conditions = s.conditions[:0:0]
		for _, c := range conditions {
			if c.ID == "" {
				c.ID = NewID()
			}
			s.conditions = append(s.conditions, c)
		}
	})
}

// mutate runs fn under the write lock, then notifies the change hook with a
// snapshot outside the lock.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snapshot := slices.Clone(s.conditions)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(snapshot)
	}
}

// index returns the position of id or -1. Callers hold the lock.
func (s *Store) index(id string) int {
	return slices.IndexFunc(s.conditions, func(c filters.Condition) bool {
		return c.ID == id
	})
}
