package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteStore is the SQLite-backed session store.
// Safe for concurrent use.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines the session tables; givens use temporal versioning.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    story TEXT,
    replies INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Givens (Temporal versioning pattern)
-- A restart closes the current rows; history is never deleted
CREATE TABLE IF NOT EXISTS givens (
    session_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    reply INTEGER NOT NULL,
    valid_from INTEGER NOT NULL,
    valid_to INTEGER,
    is_current INTEGER DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_givens_current ON givens(session_id, tag) WHERE is_current = 1;
CREATE INDEX IF NOT EXISTS idx_givens_history ON givens(session_id, valid_from);

-- Narrated tally
CREATE TABLE IF NOT EXISTS tallies (
    session_id TEXT NOT NULL,
    action_id INTEGER NOT NULL,
    told INTEGER NOT NULL,
    PRIMARY KEY (session_id, action_id)
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Session CRUD
// =============================================================================

// CreateSession inserts a new session.
func (s *SQLiteStore) CreateSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, story, replies, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.Story, session.Replies, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session %s: %w", session.ID, err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var session Session
	var story sql.NullString
	err := s.db.QueryRow(`
		SELECT id, story, replies, created_at, updated_at FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &story, &session.Replies, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	session.Story = story.String
	return &session, nil
}

// UpdateSession stores the reply counter and timestamps of a session.
func (s *SQLiteStore) UpdateSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE sessions SET story = ?, replies = ?, updated_at = ? WHERE id = ?
	`, session.Story, session.Replies, session.UpdatedAt, session.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session with its givens and tally.
func (s *SQLiteStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM givens WHERE session_id = ?`,
		`DELETE FROM tallies WHERE session_id = ?`,
		`DELETE FROM sessions WHERE id = ?`,
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListSessions returns every session ordered by id, which is creation order.
func (s *SQLiteStore) ListSessions() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, story, replies, created_at, updated_at FROM sessions ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*Session{}
	for rows.Next() {
		var session Session
		var story sql.NullString
		if err := rows.Scan(&session.ID, &story, &session.Replies, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		session.Story = story.String
		result = append(result, &session)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) sessionExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM sessions WHERE id = ? LIMIT 1`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// =============================================================================
// Givens - version-aware operations
// =============================================================================

// AddGiven opens a current row for a tag unless one is already open.
func (s *SQLiteStore) AddGiven(g *Given) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.sessionExists(g.SessionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}

	var exists int
	err = s.db.QueryRow(`
		SELECT 1 FROM givens WHERE session_id = ? AND tag = ? AND is_current = 1 LIMIT 1
	`, g.SessionID, g.Tag).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO givens (session_id, tag, reply, valid_from, valid_to, is_current)
		VALUES (?, ?, ?, ?, NULL, 1)
	`, g.SessionID, g.Tag, g.Reply, g.ValidFrom)
	return err
}

// ListGivens returns the current givens of a session.
func (s *SQLiteStore) ListGivens(sessionID string) ([]*Given, error) {
	return s.queryGivens(`
		SELECT session_id, tag, reply, valid_from, valid_to, is_current
		FROM givens WHERE session_id = ? AND is_current = 1
		ORDER BY valid_from, tag
	`, sessionID)
}

// ListGivenHistory returns every given row of a session, closed ones included.
func (s *SQLiteStore) ListGivenHistory(sessionID string) ([]*Given, error) {
	return s.queryGivens(`
		SELECT session_id, tag, reply, valid_from, valid_to, is_current
		FROM givens WHERE session_id = ?
		ORDER BY valid_from, tag
	`, sessionID)
}

func (s *SQLiteStore) queryGivens(query string, args ...any) ([]*Given, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Given
	for rows.Next() {
		var g Given
		var validTo sql.NullInt64
		var isCurrent int
		if err := rows.Scan(&g.SessionID, &g.Tag, &g.Reply, &g.ValidFrom, &validTo, &isCurrent); err != nil {
			return nil, err
		}
		g.IsCurrent = isCurrent != 0
		if validTo.Valid {
			g.ValidTo = &validTo.Int64
		}
		result = append(result, &g)
	}
	return result, rows.Err()
}

// CloseGivens ends every current given of a session at the given time.
func (s *SQLiteStore) CloseGivens(sessionID string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		UPDATE givens SET valid_to = ?, is_current = 0
		WHERE session_id = ? AND is_current = 1
	`, at, sessionID)
	return err
}

// =============================================================================
// Tally
// =============================================================================

// SetTally replaces the narrated tally of a session.
func (s *SQLiteStore) SetTally(sessionID string, tally map[int]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.sessionExists(sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tallies WHERE session_id = ?`, sessionID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tallies (session_id, action_id, told) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id, n := range tally {
		if n <= 0 {
			continue
		}
		if _, err := stmt.Exec(sessionID, id, n); err != nil {
			return fmt.Errorf("store tally for action %d: %w", id, err)
		}
	}
	return tx.Commit()
}

// GetTally returns the narrated tally of a session.
func (s *SQLiteStore) GetTally(sessionID string) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT action_id, told FROM tallies WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int]int)
	for rows.Next() {
		var id, n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		result[id] = n
	}
	return result, rows.Err()
}
