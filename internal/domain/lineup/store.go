package lineup

import "sync"

// Store holds the live lineup of one editing session.
type Store struct {
	mu      sync.RWMutex
	current Lineup
	total   int
	version uint64
}

func NewStore(initial Lineup) *Store {
	return &Store{
		current: initial,
		total:   initial.TotalPlayers(),
	}
}

// Apply replaces the held lineup as a whole. It performs no validation;
// callers pass engine results or history snapshots only.
func (s *Store) Apply(next Lineup) {
	s.mu.Lock()
	s.current = next
	s.total = next.TotalPlayers()
	s.version++
	s.mu.Unlock()
}

func (s *Store) Current() Lineup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) TotalPlayers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Version counts applied states; it starts at zero.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
