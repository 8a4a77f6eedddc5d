package service

import (
	"sync"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/collab/store"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return New(store.NewMemoryStore("Hello", 30*time.Second))
}

func TestJoinRequiresName(t *testing.T) {
	s := newTestService()
	_, err := s.Join("", "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.Join("   ", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestJoinAssignsIdentityAndColor(t *testing.T) {
	s := newTestService()
	u, err := s.Join("Alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Alice", u.Name)
	require.Contains(t, palette, u.Color)
	require.WithinDuration(t, time.Now(), u.LastSeen, time.Second)
}

func TestJoinGeneratedIDsDoNotCollide(t *testing.T) {
	s := newTestService()
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		u, err := s.Join("x", "")
		require.NoError(t, err)
		require.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}

func TestJoinWithKnownIDOverwrites(t *testing.T) {
	s := newTestService()
	_, err := s.Join("Alice", "fixed-id")
	require.NoError(t, err)
	_, err = s.Join("Alice2", "fixed-id")
	require.NoError(t, err)

	users := s.State().Users
	require.Len(t, users, 1)
	require.Equal(t, "Alice2", users[0].Name)
}

func TestSyncDeltaSuppression(t *testing.T) {
	s := newTestService()

	// behind the current version: document included
	res := s.Sync(0)
	require.NotNil(t, res.Document)
	require.Equal(t, 1, res.Document.Version)

	// caught up: document omitted, users still present
	res = s.Sync(1)
	require.Nil(t, res.Document)
	require.NotNil(t, res.Users)

	_, _, err := s.Edit("changed", "anyone")
	require.NoError(t, err)

	res = s.Sync(1)
	require.NotNil(t, res.Document)
	require.Equal(t, 2, res.Document.Version)
	require.Equal(t, "changed", res.Document.Content)

	res = s.Sync(2)
	require.Nil(t, res.Document)
}

func TestEditValidation(t *testing.T) {
	s := newTestService()
	_, _, err := s.Edit("", "u1")
	require.ErrorIs(t, err, ErrValidation)
	_, _, err = s.Edit("content", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestEditMonotonicVersions(t *testing.T) {
	s := newTestService()
	last := s.State().Document.Version
	for i := 0; i < 10; i++ {
		doc, _, err := s.Edit("rev", "u1")
		require.NoError(t, err)
		require.Equal(t, last+1, doc.Version)
		last = doc.Version
	}
}

func TestConcurrentEditsLastWriteWins(t *testing.T) {
	s := newTestService()
	before := s.State().Document.Version

	var wg sync.WaitGroup
	wg.Add(2)
	for _, content := range []string{"A", "B"} {
		go func(c string) {
			defer wg.Done()
			_, _, err := s.Edit(c, "u1")
			require.NoError(t, err)
		}(content)
	}
	wg.Wait()

	doc := s.State().Document
	// both increments land, one content survives whole
	require.Equal(t, before+2, doc.Version)
	require.Contains(t, []string{"A", "B"}, doc.Content)
}

func TestUpdatePresence(t *testing.T) {
	s := newTestService()
	require.ErrorIs(t, s.UpdatePresence("", nil), ErrValidation)

	u, err := s.Join("Alice", "")
	require.NoError(t, err)

	pos := 7
	require.NoError(t, s.UpdatePresence(u.ID, &pos))
	users := s.State().Users
	require.Len(t, users, 1)
	require.NotNil(t, users[0].CursorPosition)
	require.Equal(t, 7, *users[0].CursorPosition)

	// presence for a departed user is a no-op, not an error
	require.NoError(t, s.UpdatePresence("ghost", &pos))
}

func TestLeaveIdempotent(t *testing.T) {
	s := newTestService()
	require.ErrorIs(t, s.Leave(""), ErrValidation)

	u, err := s.Join("Alice", "")
	require.NoError(t, err)

	require.NoError(t, s.Leave(u.ID))
	require.Empty(t, s.State().Users)
	require.NoError(t, s.Leave(u.ID))
	require.Empty(t, s.State().Users)
}
