package app

import "sync"

// Sequence is the device-scoped monotonic order-id counter. Identifiers
// start at 1 and never regress within a device's lifetime; the current
// value is persisted alongside the history log.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence creates a sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// Next returns the next identifier and advances the counter.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Peek returns the identifier the next call to Next will produce.
func (s *Sequence) Peek() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Restore raises the counter to the given value. Values at or below the
// current counter are ignored so restored state can never regress ids.
func (s *Sequence) Restore(next int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next > s.next {
		s.next = next
	}
}
