package session

import (
	"sync"
	"time"
)

type entry struct {
	controller *Controller
	lastAccess time.Time
}

// Store keeps one Controller per session id in memory.
type Store struct {
	newController func() *Controller

	mu       sync.Mutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewStore(newController func() *Controller) *Store {
	return &Store{
		newController: newController,
		sessions:      make(map[string]*entry),
		now:           time.Now,
	}
}

// Get returns the controller for id, creating it on first use.
func (s *Store) Get(id string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{controller: s.newController()}
		s.sessions[id] = e
	}
	e.lastAccess = now
	return e.controller
}

// Lookup returns the controller for id without creating one.
func (s *Store) Lookup(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastAccess = s.now()
	return e.controller, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were
// removed. Sessions with a generation in flight are kept.
func (s *Store) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastAccess) <= maxIdle {
			continue
		}
		if e.controller.State().Status() == StatusGenerating {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}
