package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestDB(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()

	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	return unitofwork.NewRepositoryFactory(gormDB)
}

func TestGormConnection(t *testing.T) {
	uowFactory := connectTestDB(t)
	uow := uowFactory.NewUnitOfWork(context.Background())

	// Verify Wiring
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())
	assert.NotNil(t, uow.EmployeeRecordRepository())
	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
}

func TestDocumentRoundtrip(t *testing.T) {
	uowFactory := connectTestDB(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	document := &entity.Document{
		Id:        uuid.New(),
		Title:     "Integration Test Document",
		Scope:     constant.ScopeGeneral,
		Content:   "Transient row created by the integration suite.",
		CreatedAt: time.Now(),
	}

	require.NoError(t, uow.DocumentRepository().Create(ctx, document))
	defer func() {
		_ = uow.DocumentRepository().Delete(ctx, document.Id)
	}()

	found, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: document.Id})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, document.Title, found.Title)
	assert.Equal(t, constant.ScopeGeneral, found.Scope)
	assert.False(t, found.Indexed)
}

func TestSessionOwnershipFilter(t *testing.T) {
	uowFactory := connectTestDB(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	owner := uuid.New()
	stranger := uuid.New()

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    owner,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.ChatSessionRepository().Create(ctx, session))
	defer func() {
		_ = uow.ChatSessionRepository().Delete(ctx, session.Id)
	}()

	found, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: session.Id},
		specification.UserOwnedBy{UserID: stranger},
	)
	require.NoError(t, err)
	assert.Nil(t, found, "foreign user must not see the session")
}

func unitVector(axis int) []float32 {
	v := make([]float32, 768)
	v[axis] = 1
	return v
}

func seedScopedDocument(t *testing.T, ctx context.Context, uow unitofwork.UnitOfWork, title, scopeName string, vec []float32) uuid.UUID {
	t.Helper()

	doc := &entity.Document{
		Id:        uuid.New(),
		Title:     title,
		Scope:     scopeName,
		Content:   "chunk of " + title,
		Indexed:   true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))

	emb := &entity.DocumentEmbedding{
		Id:             uuid.New(),
		Chunk:          "chunk of " + title,
		EmbeddingValue: vec,
		DocumentId:     doc.Id,
		Scope:          scopeName,
		ChunkIndex:     0,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, uow.DocumentEmbeddingRepository().Create(ctx, emb))

	t.Cleanup(func() {
		_ = uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, doc.Id)
		_ = uow.DocumentRepository().Delete(ctx, doc.Id)
	})
	return doc.Id
}

func TestVectorSearchFiltersScopeInsideQuery(t *testing.T) {
	uowFactory := connectTestDB(t)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	// Identical vectors: the out-of-scope chunk is exactly as similar as the
	// in-scope one, so only the SQL scope filter can keep it out.
	vec := unitVector(0)
	financeId := seedScopedDocument(t, ctx, uow, "Quarterly Budget Review", constant.ScopeFinance, vec)
	marketingId := seedScopedDocument(t, ctx, uow, "Campaign Budget Plan", constant.ScopeMarketing, vec)

	results, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
		ctx, vec, []string{constant.ScopeFinance, constant.ScopeGeneral}, 10, 0.1)
	require.NoError(t, err)

	var sawFinance bool
	for _, r := range results {
		assert.NotEqual(t, marketingId, r.DocumentId, "out-of-scope chunk leaked from the search")
		assert.Contains(t, []string{constant.ScopeFinance, constant.ScopeGeneral}, r.Scope)
		if r.DocumentId == financeId {
			sawFinance = true
		}
	}
	assert.True(t, sawFinance, "the in-scope chunk should be retrieved")
}
