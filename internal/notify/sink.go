package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Notification types consumed by dashboard widgets.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeInfo    = "info"
)

// Notification is a single entry in the append-only sink.
type Notification struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

// Sink is an append-only notification list. The core only appends; dashboards
// read it back through All.
type Sink struct {
	mu      sync.Mutex
	entries []Notification
	onEmit  func(Notification)
}

// NewSink constructs an empty sink. onEmit, when set, observes every appended
// notification (used for metrics).
func NewSink(onEmit func(Notification)) *Sink {
	return &Sink{onEmit: onEmit}
}

// Append adds a notification and returns it.
func (s *Sink) Append(text, typ string) Notification {
	if typ == "" {
		typ = TypeInfo
	}
	n := Notification{ID: uuid.NewString(), Text: text, Type: typ}
	s.mu.Lock()
	s.entries = append(s.entries, n)
	s.mu.Unlock()
	if s.onEmit != nil {
		s.onEmit(n)
	}
	return n
}

// All returns a copy of the notification list, oldest first.
func (s *Sink) All() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

// Replace swaps the whole list, used when hydrating persisted state.
func (s *Sink) Replace(entries []Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Notification(nil), entries...)
}
