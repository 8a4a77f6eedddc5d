package store

import (
	"sync"
	"time"

	"github.com/padsync/padsync/internal/collab"
)

// MemoryStore holds the canonical document and user registry for a
// single-process deployment. Every exported method takes the mutex, so
// each call is one atomic step; no atomicity is promised across calls.
type MemoryStore struct {
	mu    sync.Mutex
	doc   collab.Document
	users map[string]*collab.User
	order []string
	ttl   time.Duration
}

// NewMemoryStore seeds the document at version 1 and an empty registry.
// ttl bounds user liveness: entries whose lastSeen age exceeds it are
// evicted lazily inside GetUsers.
func NewMemoryStore(seedContent string, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		doc: collab.Document{
			Content:      seedContent,
			Version:      1,
			LastModified: time.Now(),
		},
		users: make(map[string]*collab.User),
		ttl:   ttl,
	}
}

// GetDocument returns a snapshot of the current document.
func (s *MemoryStore) GetDocument() collab.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// UpdateDocument replaces the content and bumps the version by exactly
// one. If userID is present in the registry its lastSeen is refreshed;
// an unknown userID does not block the mutation — edits are not gated
// on identity validity.
func (s *MemoryStore) UpdateDocument(content, userID string) collab.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = collab.Document{
		Content:      content,
		Version:      s.doc.Version + 1,
		LastModified: time.Now(),
	}
	if u, ok := s.users[userID]; ok {
		u.LastSeen = time.Now()
	}
	return s.doc
}

// AddUser inserts or overwrites the entry keyed by u.ID. A re-add keeps
// the entry's original position in the registry order.
func (s *MemoryStore) AddUser(u collab.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	cp := u
	s.users[u.ID] = &cp
}

// UpdateUser merges the supplied fields into an existing entry and
// refreshes its lastSeen. A missing userID is a no-op, not an error.
func (s *MemoryStore) UpdateUser(userID string, upd collab.UserUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.CursorPosition != nil {
		u.CursorPosition = upd.CursorPosition
	}
	u.LastSeen = time.Now()
}

// RemoveUser deletes the entry if present; idempotent.
func (s *MemoryStore) RemoveUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(userID)
}

// GetUsers evicts every entry past the TTL, then returns copies of the
// survivors in registry insertion order. Eviction rides on reads rather
// than a background timer, so an expired entry can outlive its nominal
// TTL until the next poll.
func (s *MemoryStore) GetUsers() []collab.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUsersLocked()
}

// GetState composes the document and user snapshots as one logical read.
func (s *MemoryStore) GetState() collab.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collab.State{
		Document: s.doc,
		Users:    s.getUsersLocked(),
	}
}

func (s *MemoryStore) getUsersLocked() []collab.User {
	now := time.Now()
	for id, u := range s.users {
		if now.Sub(u.LastSeen) > s.ttl {
			s.dropLocked(id)
		}
	}
	out := make([]collab.User, 0, len(s.users))
	for _, id := range s.order {
		out = append(out, *s.users[id])
	}
	return out
}

func (s *MemoryStore) dropLocked(userID string) {
	if _, ok := s.users[userID]; !ok {
		return
	}
	delete(s.users, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
