package history

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	messages []*entity.ChatMessage
	gotSpecs []specification.Specification
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f.gotSpecs = specs
	return f.messages, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	messages *fakeMessageRepo
}

func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return f.messages
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func message(role, chat string, at time.Time) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        uuid.New(),
		Chat:      chat,
		Role:      role,
		CreatedAt: at,
	}
}

func TestLoadConversationHistoryOrderAndRoles(t *testing.T) {
	now := time.Now()
	// The repository returns newest-first, as the query orders it.
	repo := &fakeMessageRepo{messages: []*entity.ChatMessage{
		message(constant.ChatMessageRoleModel, "second answer", now),
		message(constant.ChatMessageRoleUser, "second question", now.Add(-time.Minute)),
		message(constant.ChatMessageRoleModel, "first answer", now.Add(-2*time.Minute)),
		message(constant.ChatMessageRoleUser, "first question", now.Add(-3*time.Minute)),
	}}
	loader := NewLoader(&fakeFactory{uow: &fakeUow{messages: repo}})

	history, err := loader.LoadConversationHistory(context.Background(), uuid.New())
	require.NoError(t, err)

	require.Len(t, history, 4)
	assert.Equal(t, "first question", history[0].Content)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role, "model turns map to the assistant role")
	assert.Equal(t, "second answer", history[3].Content)
}

func TestLoadConversationHistoryClampsLongMessages(t *testing.T) {
	repo := &fakeMessageRepo{messages: []*entity.ChatMessage{
		message(constant.ChatMessageRoleUser, strings.Repeat("x", constant.HistoryMessageMaxLen*2), time.Now()),
	}}
	loader := NewLoader(&fakeFactory{uow: &fakeUow{messages: repo}})

	history, err := loader.LoadConversationHistory(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Len(t, history[0].Content, constant.HistoryMessageMaxLen)
}

func TestLoadConversationHistoryRequestsBoundedWindow(t *testing.T) {
	repo := &fakeMessageRepo{}
	loader := NewLoader(&fakeFactory{uow: &fakeUow{messages: repo}})

	_, err := loader.LoadConversationHistory(context.Background(), uuid.New())
	require.NoError(t, err)

	var pagination *specification.Pagination
	for _, s := range repo.gotSpecs {
		if p, ok := s.(specification.Pagination); ok {
			pagination = &p
		}
	}
	require.NotNil(t, pagination, "history query must be bounded")
	assert.Equal(t, constant.HistoryTurnLimit, pagination.Limit)
}

func TestLoadConversationHistoryClampsOnRuneBoundary(t *testing.T) {
	repo := &fakeMessageRepo{messages: []*entity.ChatMessage{
		message(constant.ChatMessageRoleUser, strings.Repeat("日", constant.HistoryMessageMaxLen+7), time.Now()),
	}}
	loader := NewLoader(&fakeFactory{uow: &fakeUow{messages: repo}})

	history, err := loader.LoadConversationHistory(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, constant.HistoryMessageMaxLen, utf8.RuneCountInString(history[0].Content))
	assert.True(t, utf8.ValidString(history[0].Content), "clamping must never split a rune")
}
