package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/events"
	"ai-helpdesk-be/pkg/llm"
	pktNats "ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/rag/history"
	"ai-helpdesk-be/pkg/rag/planner"
	"ai-helpdesk-be/pkg/rag/query"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/scope"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/session"
	"ai-helpdesk-be/pkg/rag/structured"

	"github.com/google/uuid"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
	Permissions(role string) (*dto.PermissionsResponse, error)
	StreamChat(ctx context.Context, userId uuid.UUID, role string, request *dto.SendChatRequest, onFragment response.OnFragment) error
}

// chatbotService coordinates the retrieval components
type chatbotService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	ragLogger      *log.Logger

	// Domain components
	retrievalPlanner  *planner.Planner
	responseGenerator *response.Generator
	historyLoader     *history.Loader
	sessionManager    *session.Manager

	// One in-flight answer per session. Concurrent sends on the same session
	// would interleave turn ordering in the store.
	sessionLocks sync.Map
}

// NewChatbotService creates a new chatbot service with all domain components
func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	searchThreshold float64,
) IChatbotService {

	ragLogger := initRagLogger()

	searchOrchestrator := search.NewOrchestrator(embeddingProvider, ragLogger)
	structuredAdapter := structured.NewAdapter(uowFactory)

	searchCfg := search.DefaultConfig()
	if searchThreshold > 0 {
		searchCfg.DBThreshold = searchThreshold
	}

	return &chatbotService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		ragLogger:      ragLogger,

		retrievalPlanner:  planner.NewPlanner(searchOrchestrator, structuredAdapter, searchCfg, ragLogger),
		responseGenerator: response.NewGenerator(llmProvider, ragLogger),
		historyLoader:     history.NewLoader(uowFactory),
		sessionManager:    session.NewManager(),
	}
}

func initRagLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_rag.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session
func (cs *chatbotService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          "Hi, how can I help you ?",
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions owned by the user
func (cs *chatbotService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		result = append(result, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return result, nil
}

// GetChatHistory retrieves chat history for a session, citations attached
func (cs *chatbotService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.sessionManager.VerifyChatSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	messageIds := make([]uuid.UUID, len(chatMessages))
	for i, msg := range chatMessages {
		messageIds[i] = msg.Id
	}

	citations, err := uow.ChatMessageRepository().FindCitationsByMessageIds(ctx, messageIds)
	if err != nil {
		return nil, err
	}

	citationsByMsgId := make(map[uuid.UUID][]dto.CitationDTO)
	for _, c := range citations {
		citationsByMsgId[c.ChatMessageId] = append(citationsByMsgId[c.ChatMessageId], dto.CitationDTO{
			SourceId:   c.SourceId,
			SourceType: c.SourceType,
			Title:      c.Title,
			Scope:      c.Scope,
		})
	}

	result := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		result = append(result, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
			Citations: citationsByMsgId[msg.Id],
		})
	}

	return result, nil
}

// Permissions resolves the caller's role to its readable scopes.
func (cs *chatbotService) Permissions(role string) (*dto.PermissionsResponse, error) {
	scopes, err := scope.Resolve(role)
	if err != nil {
		return nil, err
	}
	return &dto.PermissionsResponse{
		Role:   role,
		Scopes: scopes.List(),
	}, nil
}

// StreamChat answers one user message over the streaming callback. The turn
// is persisted only after generation finishes cleanly; an aborted or failed
// stream leaves the session exactly as it was.
func (cs *chatbotService) StreamChat(
	ctx context.Context,
	userId uuid.UUID,
	role string,
	request *dto.SendChatRequest,
	onFragment response.OnFragment,
) error {

	scopes, err := scope.Resolve(role)
	if err != nil {
		return err
	}

	lock := cs.lockSession(request.ChatSessionId)
	lock.Lock()
	defer lock.Unlock()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := cs.sessionManager.VerifyChatSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return err
	}

	analysis := query.Process(request.Chat, scopes)
	cs.ragLogger.Printf("[CHAT] session=%s route=%s scopes=%v", request.ChatSessionId, analysis.Route, scopes.List())

	chatHistory, err := cs.historyLoader.LoadConversationHistory(ctx, request.ChatSessionId)
	if err != nil {
		return err
	}

	plan, err := cs.retrievalPlanner.Build(ctx, uow, scopes, analysis)
	if err != nil {
		return err
	}

	answer, citations, err := cs.responseGenerator.Generate(ctx, plan, request.Chat, chatHistory, onFragment)
	if err != nil {
		return err
	}

	modelMessageId, err := cs.persistTurn(ctx, uow, chatSession, request.Chat, answer, citations)
	if err != nil {
		return err
	}

	if cs.eventPublisher != nil {
		evt := events.NewChatCompleted(chatSession.Id.String(), modelMessageId.String(), len(citations))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.ragLogger.Printf("[WARN] Failed to publish chat.completed event: %v", err)
		}
	}

	return nil
}

func (cs *chatbotService) lockSession(sessionId uuid.UUID) *sync.Mutex {
	lock, _ := cs.sessionLocks.LoadOrStore(sessionId, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// persistTurn writes the user message, the model message and its citations
// in one transaction, and titles the session from its first user message.
func (cs *chatbotService) persistTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	chatSession *entity.ChatSession,
	userChat string,
	answer string,
	citations []planner.Evidence,
) (uuid.UUID, error) {

	now := time.Now()

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          userChat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          answer,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now.Add(1 * time.Second),
	}

	var chatCitations []*entity.ChatCitation
	for _, ev := range citations {
		chatCitations = append(chatCitations, &entity.ChatCitation{
			Id:            uuid.New(),
			ChatMessageId: modelMessage.Id,
			SourceId:      ev.SourceId,
			SourceType:    ev.SourceType,
			Title:         ev.Title,
			Scope:         ev.Scope,
			CreatedAt:     now,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return uuid.Nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		return uuid.Nil, err
	}
	if len(chatCitations) > 0 {
		if err := uow.ChatMessageRepository().CreateCitations(ctx, chatCitations); err != nil {
			return uuid.Nil, err
		}
	}

	if chatSession.Title == constant.DefaultSessionTitle {
		title := session.TitleFromFirstMessage(userChat, constant.SessionTitleMaxLen)
		if err := cs.sessionManager.UpdateTitle(ctx, uow, chatSession, title, now); err != nil {
			return uuid.Nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, err
	}

	return modelMessage.Id, nil
}

// DeleteSession removes a chat session and everything hanging off it
func (cs *chatbotService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.sessionManager.VerifyChatSession(ctx, uow, userId, request.ChatSessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, request.ChatSessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, request.ChatSessionId); err != nil {
		return err
	}

	return uow.Commit()
}
