package memory

import "sync"

// sequence hands out strictly increasing ids. Ids are never reused.
type sequence struct {
	mu   sync.Mutex
	next int64
}

func newSequence(start int64) *sequence {
	if start < 1 {
		start = 1
	}
	return &sequence{next: start}
}

// Next reserves and returns the next id.
func (s *sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	return id
}
