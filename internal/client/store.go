package client

import "sync"

// store holds one state value and the listeners notified after every transition.
type store[S any] struct {
	mu        sync.RWMutex
	state     S
	clone     func(S) S
	listeners []func(S)
}

func (s *store[S]) snapshot() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clone(s.state)
}

func (s *store[S]) subscribe(fn func(S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// set applies fn under the lock and calls the listeners outside it.
func (s *store[S]) set(fn func(*S)) {
	s.mu.Lock()
	fn(&s.state)
	state := s.clone(s.state)
	listeners := append([]func(S){}, s.listeners...)
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(state)
	}
}
