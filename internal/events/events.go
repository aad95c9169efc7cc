package events

import "time"

// Event types broadcast after a successful admin mutation, plus the
// handshake line every new subscriber receives first.
const (
	TypeWelcome      = "welcome"
	TypeEntryCreated = "entry.created"
	TypeEntryUpdated = "entry.updated"
	TypeEntryDeleted = "entry.deleted"
)

type EntryEvent struct {
	Type     string    `json:"type"`
	EntryID  int       `json:"entry_id"`
	Title    string    `json:"title,omitempty"`
	Username string    `json:"username,omitempty"`
	At       time.Time `json:"at"`
}

// WelcomeNotice opens every subscription: it names the transport and how
// many consumers are attached, so a watcher can tell a live feed from a
// stale socket.
type WelcomeNotice struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Peers     int    `json:"peers"`
}
