package history

import (
	"context"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader turns persisted chat turns into LLM context.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// LoadConversationHistory returns the last turns of a session, oldest first,
// bounded by the turn limit. Oversized messages are clamped so a single
// pasted wall of text cannot crowd out the rest of the prompt.
func (l *Loader) LoadConversationHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	chats, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: constant.HistoryTurnLimit, Offset: 0},
	)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(chats))
	for i := len(chats) - 1; i >= 0; i-- {
		chat := chats[i]

		role := "user"
		if chat.Role == constant.ChatMessageRoleModel {
			role = "assistant"
		}

		content := chat.Chat
		if runes := []rune(content); len(runes) > constant.HistoryMessageMaxLen {
			// Clamp on runes so a multi-byte character is never split.
			content = string(runes[:constant.HistoryMessageMaxLen])
		}

		messages = append(messages, llm.Message{
			Role:    role,
			Content: content,
		})
	}

	return messages, nil
}
