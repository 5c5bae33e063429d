package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID     `json:"id"`
	Role      string        `json:"role"`
	Chat      string        `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
	Citations []CitationDTO `json:"citations,omitempty"`
}

// CitationDTO points at the material an answer was grounded on.
// SourceType is "document" for indexed chunks and "record" for
// structured lookups.
type CitationDTO struct {
	SourceId   uuid.UUID `json:"source_id"`
	SourceType string    `json:"source_type"`
	Title      string    `json:"title"`
	Scope      string    `json:"scope"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required,max=4000"`
}

// StreamEvent is one NDJSON frame on the chat stream.
// "token" frames carry Text; the terminal frame is either "done" with the
// citations actually used, or "error" with a human-readable message.
type StreamEvent struct {
	Type      string        `json:"type"`
	Text      string        `json:"text,omitempty"`
	Citations []CitationDTO `json:"citations,omitempty"`
	Message   string        `json:"message,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type PermissionsResponse struct {
	Role   string   `json:"role"`
	Scopes []string `json:"scopes"`
}
