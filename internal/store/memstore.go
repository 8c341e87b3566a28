package store

import (
	"sort"
	"sync"
)

// MemStore is an in-memory implementation of Storer for testing.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	givens   map[string][]*Given // session -> every row, oldest first
	tallies  map[string]map[int]int
}

// NewMemStore creates a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		sessions: make(map[string]*Session),
		givens:   make(map[string][]*Given),
		tallies:  make(map[string]map[int]int),
	}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

// =============================================================================
// Session CRUD
// =============================================================================

func (s *MemStore) CreateSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *session
	s.sessions[session.ID] = &copy
	return nil
}

func (s *MemStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, ok := s.sessions[id]; ok {
		copy := *session
		return &copy, nil
	}
	return nil, ErrSessionNotFound
}

func (s *MemStore) UpdateSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	copy := *session
	s.sessions[session.ID] = &copy
	return nil
}

func (s *MemStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.givens, id)
	delete(s.tallies, id)
	return nil
}

func (s *MemStore) ListSessions() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		copy := *session
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// Givens
// =============================================================================

func (s *MemStore) AddGiven(g *Given) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[g.SessionID]; !ok {
		return ErrSessionNotFound
	}
	for _, row := range s.givens[g.SessionID] {
		if row.IsCurrent && row.Tag == g.Tag {
			return nil
		}
	}
	copy := *g
	copy.ValidTo = nil
	copy.IsCurrent = true
	s.givens[g.SessionID] = append(s.givens[g.SessionID], &copy)
	return nil
}

func (s *MemStore) ListGivens(sessionID string) ([]*Given, error) {
	return s.listGivens(sessionID, true)
}

func (s *MemStore) ListGivenHistory(sessionID string) ([]*Given, error) {
	return s.listGivens(sessionID, false)
}

func (s *MemStore) listGivens(sessionID string, currentOnly bool) ([]*Given, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*Given
	for _, row := range s.givens[sessionID] {
		if currentOnly && !row.IsCurrent {
			continue
		}
		copy := *row
		if row.ValidTo != nil {
			to := *row.ValidTo
			copy.ValidTo = &to
		}
		result = append(result, &copy)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].ValidFrom != result[j].ValidFrom {
			return result[i].ValidFrom < result[j].ValidFrom
		}
		return result[i].Tag < result[j].Tag
	})
	return result, nil
}

func (s *MemStore) CloseGivens(sessionID string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.givens[sessionID] {
		if row.IsCurrent {
			to := at
			row.ValidTo = &to
			row.IsCurrent = false
		}
	}
	return nil
}

// =============================================================================
// Tally
// =============================================================================

func (s *MemStore) SetTally(sessionID string, tally map[int]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	copy := make(map[int]int, len(tally))
	for id, n := range tally {
		if n > 0 {
			copy[id] = n
		}
	}
	s.tallies[sessionID] = copy
	return nil
}

func (s *MemStore) GetTally(sessionID string) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int]int, len(s.tallies[sessionID]))
	for id, n := range s.tallies[sessionID] {
		result[id] = n
	}
	return result, nil
}
