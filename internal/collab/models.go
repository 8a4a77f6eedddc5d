package collab

import "time"

// Document is the single shared document. There is exactly one per
// process; it is created at startup with seed content at version 1 and
// mutated only through the store's UpdateDocument.
type Document struct {
	Content      string    `json:"content"`
	Version      int       `json:"version"`
	LastModified time.Time `json:"lastModified"`
}

// User is a connected participant in the editing session. Liveness is
// derived from LastSeen: an entry older than the presence TTL is evicted
// on the next registry read.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	LastSeen       time.Time `json:"lastSeen"`
	CursorPosition *int      `json:"cursorPosition,omitempty"`
}

// UserUpdate carries the optional fields a presence update may merge
// into an existing user entry. Nil fields are left untouched.
type UserUpdate struct {
	Name           *string
	CursorPosition *int
}

// State is the combined snapshot served to pollers on a full fetch.
type State struct {
	Document Document `json:"document"`
	Users    []User   `json:"users"`
}
