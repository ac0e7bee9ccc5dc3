// Package events records the factory's externally observable notifications:
// token creations, template updates, and fee updates. The log is append-only;
// entries are never rewritten or deleted.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindTokenCreated    = "token_created"
	KindTemplateUpdated = "template_updated"
	KindFeeUpdated      = "fee_updated"
)

// Event is one notification.
type Event struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	At     time.Time         `json:"at"`
	Fields map[string]string `json:"fields"`
}

// Sink receives notifications as they are emitted.
type Sink interface {
	Emit(kind string, fields map[string]string) error
}

// New stamps a fresh event with a unique ID and the current time.
func New(kind string, fields map[string]string) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		At:     time.Now().UTC(),
		Fields: fields,
	}
}

// Memory is an in-process sink, used in tests and as a fallback.
type Memory struct {
	Events []Event
}

// Emit appends the event.
func (m *Memory) Emit(kind string, fields map[string]string) error {
	m.Events = append(m.Events, New(kind, fields))
	return nil
}

// ByKind returns recorded events of one kind, oldest first.
func (m *Memory) ByKind(kind string) []Event {
	var out []Event
	for _, e := range m.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Discard drops every event. Useful when a caller does not care about
// notifications.
type Discard struct{}

// Emit does nothing.
func (Discard) Emit(string, map[string]string) error { return nil }
