package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/auth-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentityRegistered    EventType = "identity_registered"
	EventIdentityAuthenticated EventType = "identity_authenticated"
	EventSessionRefreshed      EventType = "session_refreshed"
	EventIdentityLoggedOut     EventType = "identity_logged_out"
)

// Event represents a protocol event emitted by the session orchestrator.
// Events never carry tokens or credential material, only the subject and
// role they concern.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Role      domain.Role `json:"role,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an event stamped with a fresh id and the current time.
func NewEvent(eventType EventType, subject string, role domain.Role) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Role:      role,
		Timestamp: time.Now(),
	}
}
