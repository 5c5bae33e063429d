package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatCitation records which source a persisted answer was grounded on.
// SourceType is "document" or "record"; Title and Scope are denormalized so
// history rendering does not need to join back into the source tables.
type ChatCitation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	SourceId      uuid.UUID
	SourceType    string
	Title         string
	Scope         string
	CreatedAt     time.Time
}
