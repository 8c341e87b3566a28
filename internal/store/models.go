// Package store persists narration sessions: the givens a session has
// introduced and how often each action was told.
package store

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrSessionNotFound is returned when a session id is unknown
var ErrSessionNotFound = errors.New("session not found")

// Session is one narration session
type Session struct {
	ID        string `json:"id"`
	Story     string `json:"story,omitempty"`
	Replies   int    `json:"replies"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Given records that a tag was introduced to the narratee.
// Uses the temporal table pattern: Restart closes rows instead of
// deleting them, so a session keeps its full history.
type Given struct {
	SessionID string `json:"sessionId"`
	Tag       string `json:"tag"`
	// Reply is the reply in which the tag was introduced
	Reply int `json:"reply"`

	ValidFrom int64  `json:"validFrom"`
	ValidTo   *int64 `json:"validTo,omitempty"`
	IsCurrent bool   `json:"isCurrent"`
}

// Storer defines the interface for session persistence.
// MemStore serves tests; SQLiteStore is used by the CLI.
type Storer interface {
	// Sessions
	CreateSession(s *Session) error
	GetSession(id string) (*Session, error)
	UpdateSession(s *Session) error
	DeleteSession(id string) error
	ListSessions() ([]*Session, error)

	// Givens - version-aware
	AddGiven(g *Given) error
	ListGivens(sessionID string) ([]*Given, error)
	ListGivenHistory(sessionID string) ([]*Given, error)
	CloseGivens(sessionID string, at int64) error

	// Tally
	SetTally(sessionID string, tally map[int]int) error
	GetTally(sessionID string) (map[int]int, error)

	// Lifecycle
	Close() error
}

var (
	entropyMu sync.Mutex
	entropy   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewSessionID returns a fresh, time-ordered session id
func NewSessionID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewSession creates a session value with a new id, stamped now
func NewSession(story string) *Session {
	now := time.Now().UnixMilli()
	return &Session{ID: NewSessionID(), Story: story, CreatedAt: now, UpdatedAt: now}
}
