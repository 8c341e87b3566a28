package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Store Factory for Testing Both Implementations
// =============================================================================

// storeFactory creates a store for testing.
// We test both MemStore and SQLiteStore with the same test suite.
type storeFactory func() (Storer, error)

func memStoreFactory() (Storer, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (Storer, error) {
	return NewSQLiteStore()
}

// runTestsForAllStores runs a test function against both store implementations.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store Storer)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

func mustCreate(t *testing.T, store Storer, id string) *Session {
	t.Helper()
	now := time.Now().UnixMilli()
	session := &Session{ID: id, Story: "cellar.yaml", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.CreateSession(session))
	return session
}

func tags(givens []*Given) []string {
	out := make([]string, len(givens))
	for i, g := range givens {
		out[i] = g.Tag
	}
	return out
}

// =============================================================================
// Store Initialization Tests
// =============================================================================

func TestStoreCreation(t *testing.T) {
	runTestsForAllStores(t, "Creation", func(t *testing.T, store Storer) {
		require.NotNil(t, store, "Store should not be nil")
	})
}

// =============================================================================
// Session CRUD Tests
// =============================================================================

func TestSessionCreateAndGet(t *testing.T) {
	runTestsForAllStores(t, "CreateAndGet", func(t *testing.T, store Storer) {
		session := mustCreate(t, store, "session-1")

		retrieved, err := store.GetSession("session-1")
		require.NoError(t, err, "GetSession should not error")
		assert.Equal(t, session, retrieved)

		session.Replies = 3
		session.UpdatedAt++
		require.NoError(t, store.UpdateSession(session))

		retrieved, err = store.GetSession("session-1")
		require.NoError(t, err)
		assert.Equal(t, 3, retrieved.Replies)
		assert.Equal(t, session.UpdatedAt, retrieved.UpdatedAt)
	})
}

func TestSessionNotFound(t *testing.T) {
	runTestsForAllStores(t, "NotFound", func(t *testing.T, store Storer) {
		_, err := store.GetSession("nonexistent")
		assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)

		err = store.UpdateSession(&Session{ID: "nonexistent"})
		assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)

		err = store.AddGiven(&Given{SessionID: "nonexistent", Tag: "@lamp"})
		assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)

		err = store.SetTally("nonexistent", map[int]int{1: 1})
		assert.True(t, errors.Is(err, ErrSessionNotFound), "got %v", err)
	})
}

func TestSessionDeleteAndList(t *testing.T) {
	runTestsForAllStores(t, "DeleteAndList", func(t *testing.T, store Storer) {
		mustCreate(t, store, "b")
		mustCreate(t, store, "a")
		require.NoError(t, store.AddGiven(&Given{SessionID: "a", Tag: "@lamp", ValidFrom: 1}))
		require.NoError(t, store.SetTally("a", map[int]int{7: 2}))

		sessions, err := store.ListSessions()
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "a", sessions[0].ID)
		assert.Equal(t, "b", sessions[1].ID)

		require.NoError(t, store.DeleteSession("a"))
		_, err = store.GetSession("a")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		givens, err := store.ListGivenHistory("a")
		require.NoError(t, err)
		assert.Empty(t, givens)

		tally, err := store.GetTally("a")
		require.NoError(t, err)
		assert.Empty(t, tally)
	})
}

// =============================================================================
// Given Tests (temporal rows)
// =============================================================================

func TestGivenAddAndList(t *testing.T) {
	runTestsForAllStores(t, "AddAndList", func(t *testing.T, store Storer) {
		mustCreate(t, store, "s")

		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@lamp", Reply: 1, ValidFrom: 100}))
		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@adventurer", Reply: 1, ValidFrom: 100}))
		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@chest", Reply: 2, ValidFrom: 200}))
		// already current: ignored
		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@lamp", Reply: 2, ValidFrom: 200}))

		givens, err := store.ListGivens("s")
		require.NoError(t, err)
		assert.Equal(t, []string{"@adventurer", "@lamp", "@chest"}, tags(givens))

		lamp := givens[1]
		assert.Equal(t, 1, lamp.Reply)
		assert.Equal(t, int64(100), lamp.ValidFrom)
		assert.True(t, lamp.IsCurrent)
		assert.Nil(t, lamp.ValidTo)
	})
}

func TestGivenCloseKeepsHistory(t *testing.T) {
	runTestsForAllStores(t, "CloseKeepsHistory", func(t *testing.T, store Storer) {
		mustCreate(t, store, "s")
		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@lamp", Reply: 1, ValidFrom: 100}))

		require.NoError(t, store.CloseGivens("s", 150))

		current, err := store.ListGivens("s")
		require.NoError(t, err)
		assert.Empty(t, current)

		// reintroduced after the restart
		require.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@lamp", Reply: 0, ValidFrom: 160}))

		history, err := store.ListGivenHistory("s")
		require.NoError(t, err)
		require.Len(t, history, 2)

		assert.False(t, history[0].IsCurrent)
		require.NotNil(t, history[0].ValidTo)
		assert.Equal(t, int64(150), *history[0].ValidTo)

		assert.True(t, history[1].IsCurrent)
		assert.Equal(t, int64(160), history[1].ValidFrom)
	})
}

// =============================================================================
// Tally Tests
// =============================================================================

func TestTallyRoundTrip(t *testing.T) {
	runTestsForAllStores(t, "RoundTrip", func(t *testing.T, store Storer) {
		mustCreate(t, store, "s")

		tally, err := store.GetTally("s")
		require.NoError(t, err)
		assert.Empty(t, tally)

		require.NoError(t, store.SetTally("s", map[int]int{1: 2, 4: 1, 9: 0}))
		tally, err = store.GetTally("s")
		require.NoError(t, err)
		assert.Equal(t, map[int]int{1: 2, 4: 1}, tally, "zero counts are not stored")

		// replaced, not merged
		require.NoError(t, store.SetTally("s", map[int]int{4: 3}))
		tally, err = store.GetTally("s")
		require.NoError(t, err)
		assert.Equal(t, map[int]int{4: 3}, tally)
	})
}

func TestConcurrentAccess(t *testing.T) {
	runTestsForAllStores(t, "Concurrent", func(t *testing.T, store Storer) {
		mustCreate(t, store, "s")

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.AddGiven(&Given{SessionID: "s", Tag: "@shared", ValidFrom: int64(i)}))
				_, err := store.ListGivens("s")
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		givens, err := store.ListGivens("s")
		require.NoError(t, err)
		assert.Len(t, givens, 1, "one current row per tag")
	})
}

// =============================================================================
// SQLite-specific Tests
// =============================================================================

func TestSQLiteStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	mustCreate(t, s, "s")
	require.NoError(t, s.AddGiven(&Given{SessionID: "s", Tag: "@lamp", ValidFrom: 1}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStoreWithDSN(path)
	require.NoError(t, err)
	defer s.Close()

	givens, err := s.ListGivens("s")
	require.NoError(t, err)
	assert.Equal(t, []string{"@lamp"}, tags(givens))
}

func TestNewSession(t *testing.T) {
	a := NewSession("story.yaml")
	b := NewSession("story.yaml")

	assert.NotEqual(t, a.ID, b.ID)
	_, err := ulid.ParseStrict(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
}

// =============================================================================
// Interface Compliance Test
// =============================================================================

func TestStorerInterface(t *testing.T) {
	// Verify both implementations satisfy Storer interface
	var _ Storer = (*MemStore)(nil)
	var _ Storer = (*SQLiteStore)(nil)
}
