package events

import "time"

// Event type codes published on the bus.
const (
	TypeDocumentIndexed = "document.indexed"
	TypeChatCompleted   = "chat.completed"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "document.indexed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by constructors below.
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

// NewDocumentIndexed is emitted after a document's chunks are embedded and
// written to the index. Scope rides along so notification fan-out can stay
// role-aware.
func NewDocumentIndexed(documentId string, title string, scope string, chunks int) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"document_id": documentId,
			"title":       title,
			"scope":       scope,
			"chunks":      chunks,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatCompleted is emitted after an answer turn has been persisted.
func NewChatCompleted(sessionId string, messageId string, citations int) Event {
	return BaseEvent{
		Type: TypeChatCompleted,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"message_id": messageId,
			"citations":  citations,
		},
		OccurredAt: time.Now(),
	}
}
