// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package builder

import (
	"sync"
	"time"

	"github.com/rosterq/rosterq/internal/filters"
	"github.com/rosterq/rosterq/internal/log"
)

// DefaultDelay is how long the saver waits for edits to settle.
const DefaultDelay = 300 * time.Millisecond

// Persister writes a condition list. store.File satisfies it.
type Persister interface {
	Save([]filters.Condition) error
}

// Saver coalesces bursts of changes into one write after delay.
type Saver struct {
	mu      sync.Mutex
	target  Persister
	delay   time.Duration
	timer   *time.Timer
	pending []filters.Condition
	dirty   bool
	err     error
}

// NewSaver returns a saver writing to target.
func NewSaver(target Persister, delay time.Duration) *Saver {
	return &Saver{target: target, delay: delay}
}

// Schedule records conditions as the latest state and restarts the quiet
// period.
func (s *Saver) Schedule(conditions []filters.Condition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = conditions
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.saveLocked()
	})
}

// Flush writes any pending state now and returns the last write error.
func (s *Saver) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.saveLocked()
	return s.err
}

func (s *Saver) saveLocked() {
	if !s.dirty {
		return
	}
	s.dirty = false
	if err := s.target.Save(s.pending); err != nil {
		log.WithError(err).Errorf("saving conditions")
		s.err = err
		return
	}
	s.err = nil
	log.Debugf("saved %d conditions", len(s.pending))
}
