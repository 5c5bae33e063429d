package session

import (
	"context"
	"time"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager handles chat session ownership and titling.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// VerifyChatSession loads a session only if the user owns it. A foreign or
// missing session is the same error: existence is not leaked.
func (m *Manager) VerifyChatSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, dto.ErrSessionNotFound
	}
	return session, nil
}

// UpdateTitle updates the session title.
func (m *Manager) UpdateTitle(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, title string, now time.Time) error {
	session.Title = title
	session.UpdatedAt = &now
	return uow.ChatSessionRepository().Update(ctx, session)
}

// TitleFromFirstMessage derives a session title from the first user message,
// truncated at a rune boundary.
func TitleFromFirstMessage(message string, maxLen int) string {
	runes := []rune(message)
	if len(runes) <= maxLen {
		return message
	}
	return string(runes[:maxLen]) + "..."
}
