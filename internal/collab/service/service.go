package service

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/padsync/padsync/internal/collab"
	"github.com/padsync/padsync/internal/collab/store"
)

// ErrValidation marks a missing or malformed required field. Handlers
// map it to HTTP 400; everything else surfaces as 500.
var ErrValidation = errors.New("validation failed")

// palette used to disambiguate users in the editor UI. Assignment is
// uniform random; collisions are harmless.
var palette = []string{
	"#ef4444", "#f97316", "#eab308", "#22c55e",
	"#06b6d4", "#3b82f6", "#8b5cf6", "#ec4899",
}

// SyncResult is the delta-sync payload. Document is nil (and omitted
// from the JSON) when the client's version is already current.
type SyncResult struct {
	Document *collab.Document `json:"document,omitempty"`
	Users    []collab.User    `json:"users"`
}

// Service exposes the synchronization protocol over the shared state
// store: join, full fetch, delta sync, edit, presence update, leave.
type Service struct {
	store *store.MemoryStore
}

func New(st *store.MemoryStore) *Service {
	return &Service{store: st}
}

// Join registers a participant. A fresh random id is assigned when the
// caller does not supply one; a supplied id overwrites any existing
// entry with that id (rejoin).
func (s *Service) Join(name, userID string) (collab.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return collab.User{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if userID == "" {
		userID = uuid.NewString()
	}
	u := collab.User{
		ID:       userID,
		Name:     name,
		Color:    palette[rand.Intn(len(palette))],
		LastSeen: time.Now(),
	}
	s.store.AddUser(u)
	return u, nil
}

// State returns the combined document + users snapshot (full fetch).
func (s *Service) State() collab.State {
	return s.store.GetState()
}

// Sync implements the polling delta protocol: the document is included
// only when its version moved past sinceVersion; the users list is
// always returned since presence has no versioning of its own.
func (s *Service) Sync(sinceVersion int) SyncResult {
	st := s.store.GetState()
	if st.Document.Version > sinceVersion {
		return SyncResult{Document: &st.Document, Users: st.Users}
	}
	return SyncResult{Users: st.Users}
}

// Edit replaces the whole document (last write wins) and returns the new
// snapshot together with the current user list so the caller refreshes
// both in one round trip.
func (s *Service) Edit(content, userID string) (collab.Document, []collab.User, error) {
	if content == "" || userID == "" {
		return collab.Document{}, nil, fmt.Errorf("%w: content and userId are required", ErrValidation)
	}
	doc := s.store.UpdateDocument(content, userID)
	return doc, s.store.GetUsers(), nil
}

// UpdatePresence reports the caller's cursor location and refreshes its
// liveness. Unknown ids are silently ignored by the store.
func (s *Service) UpdatePresence(userID string, cursorPosition *int) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	s.store.UpdateUser(userID, collab.UserUpdate{CursorPosition: cursorPosition})
	return nil
}

// Leave removes the participant; idempotent.
func (s *Service) Leave(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	s.store.RemoveUser(userID)
	return nil
}
