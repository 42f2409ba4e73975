package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the contract for everything published on the outward bus.
type Event interface {
	// EventType returns the subject suffix for this event (e.g. "CHAT_TURN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChatTurnEvent announces a committed conversation turn.
func NewChatTurnEvent(containerId, chatId uuid.UUID, role string) Event {
	return BaseEvent{
		Type: "CHAT_TURN",
		Data: map[string]interface{}{
			"container_id": containerId.String(),
			"chat_id":      chatId.String(),
			"role":         role,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewStatePersistedEvent announces a successful snapshot write.
func NewStatePersistedEvent(reason string) Event {
	return BaseEvent{
		Type: "STATE_PERSISTED",
		Data: map[string]interface{}{
			"reason": reason,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// NewDeletionConfirmedEvent announces an executed two-phase deletion.
func NewDeletionConfirmedEvent(kind string, containerId uuid.UUID) Event {
	return BaseEvent{
		Type: "DELETION_CONFIRMED",
		Data: map[string]interface{}{
			"kind":         kind,
			"container_id": containerId.String(),
		},
		OccurredAt: time.Now().UTC(),
	}
}
