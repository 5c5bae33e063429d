package planner

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/specification"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/rag/query"
	"ai-helpdesk-be/pkg/rag/scope"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/structured"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes -----------------------------------------------------------------

type fakeEmbedder struct{}

func (fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeEmbeddingRepo struct {
	contract.DocumentEmbeddingRepository
	results    []*entity.DocumentSearchResult
	gotScopes  []string
	gotLimit   int
	searchErr  error
	searchRuns int
}

func (f *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, scopes []string, limit int, threshold float64) ([]*entity.DocumentSearchResult, error) {
	f.gotScopes = scopes
	f.gotLimit = limit
	f.searchRuns++
	return f.results, f.searchErr
}

type fakeEmployeeRepo struct {
	contract.EmployeeRecordRepository
	record  *entity.EmployeeRecord
	records []*entity.EmployeeRecord
}

func (f *fakeEmployeeRepo) FindByRecordKey(ctx context.Context, scope string, recordKey string) (*entity.EmployeeRecord, error) {
	return f.record, nil
}

func (f *fakeEmployeeRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EmployeeRecord, error) {
	return f.records, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	embeddings *fakeEmbeddingRepo
	employees  *fakeEmployeeRepo
}

func (f *fakeUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return f.embeddings
}

func (f *fakeUow) EmployeeRecordRepository() contract.EmployeeRecordRepository {
	return f.employees
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// --- helpers ---------------------------------------------------------------

func testLogger() *log.Logger {
	return log.New(os.Stderr, "", 0)
}

func newTestPlanner(uow *fakeUow) *Planner {
	searcher := search.NewOrchestrator(fakeEmbedder{}, testLogger())
	adapter := structured.NewAdapter(&fakeFactory{uow: uow})
	return NewPlanner(searcher, adapter, search.DefaultConfig(), testLogger())
}

func chunkResult(docId uuid.UUID, title string, similarity float64) *entity.DocumentSearchResult {
	return &entity.DocumentSearchResult{
		Id:            uuid.New(),
		Chunk:         "chunk of " + title,
		DocumentId:    docId,
		DocumentTitle: title,
		Scope:         constant.ScopeGeneral,
		Similarity:    similarity,
	}
}

func managerScopes(t *testing.T) *scope.ScopeSet {
	t.Helper()
	scopes, err := scope.Resolve(constant.RoleManager)
	require.NoError(t, err)
	return scopes
}

// --- semantic route --------------------------------------------------------

func TestBuildSemanticDedupesPerDocument(t *testing.T) {
	docA, docB := uuid.New(), uuid.New()
	uow := &fakeUow{embeddings: &fakeEmbeddingRepo{results: []*entity.DocumentSearchResult{
		chunkResult(docA, "Handbook", 0.91),
		chunkResult(docA, "Handbook", 0.88), // second chunk of the same doc
		chunkResult(docB, "Runbook", 0.74),
	}}}

	scopes := managerScopes(t)
	analysis := query.Process("what is the leave policy", scopes)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)

	assert.Equal(t, query.RouteSemantic, plan.Route)
	assert.Empty(t, plan.PreparedAnswer)
	require.Len(t, plan.Evidence, 2)
	// The highest-ranked chunk of each document wins.
	assert.Equal(t, docA, plan.Evidence[0].SourceId)
	assert.InDelta(t, 0.91, plan.Evidence[0].Similarity, 1e-9)
	assert.Equal(t, docB, plan.Evidence[1].SourceId)
	assert.Equal(t, "document", plan.Evidence[0].SourceType)
}

func TestBuildSemanticCapsEvidence(t *testing.T) {
	var results []*entity.DocumentSearchResult
	for i := 0; i < constant.SearchTopKMax; i++ {
		results = append(results, chunkResult(uuid.New(), "Doc", 0.9-float64(i)*0.01))
	}
	uow := &fakeUow{embeddings: &fakeEmbeddingRepo{results: results}}

	scopes := managerScopes(t)
	analysis := query.Process("company policy overview", scopes)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)
	assert.Len(t, plan.Evidence, constant.EvidenceLimit)
}

func TestBuildSemanticEmptyIsNotAnError(t *testing.T) {
	uow := &fakeUow{embeddings: &fakeEmbeddingRepo{}}

	scopes := managerScopes(t)
	analysis := query.Process("something nobody wrote down", scopes)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)
	assert.Empty(t, plan.Evidence)
	assert.Empty(t, plan.PreparedAnswer)
}

func TestBuildSemanticPassesScopesToSearch(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	uow := &fakeUow{embeddings: repo}

	scopes, err := scope.Resolve(constant.RoleEngineering)
	require.NoError(t, err)
	analysis := query.Process("deployment architecture", scopes)

	_, err = newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)

	assert.Equal(t, []string{constant.ScopeEngineering, constant.ScopeGeneral}, repo.gotScopes)
	assert.LessOrEqual(t, repo.gotLimit, constant.SearchTopKMax)
}

// --- structured route ------------------------------------------------------

func TestBuildStructuredScopeDenialBecomesPreparedAnswer(t *testing.T) {
	uow := &fakeUow{embeddings: &fakeEmbeddingRepo{}, employees: &fakeEmployeeRepo{}}

	scopes, err := scope.Resolve(constant.RoleFinance)
	require.NoError(t, err)
	analysis := query.Process("What is the salary of Priya Sharma?", scopes)
	require.Equal(t, query.RouteStructured, analysis.Route)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err, "a denial is an answer, not a failure")

	assert.Equal(t, constant.ScopeDeniedAnswer, plan.PreparedAnswer)
	assert.Empty(t, plan.Evidence)
}

func TestBuildStructuredMissBecomesPreparedAnswer(t *testing.T) {
	uow := &fakeUow{embeddings: &fakeEmbeddingRepo{}, employees: &fakeEmployeeRepo{}}

	scopes, err := scope.Resolve(constant.RoleHR)
	require.NoError(t, err)
	analysis := query.Process("What is the salary of Priya Sharma?", scopes)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)
	assert.Equal(t, constant.RecordNotFoundAnswer, plan.PreparedAnswer)
}

func TestBuildStructuredHitCarriesRecordCitation(t *testing.T) {
	recordId := uuid.New()
	uow := &fakeUow{
		embeddings: &fakeEmbeddingRepo{},
		employees: &fakeEmployeeRepo{record: &entity.EmployeeRecord{
			Id:        recordId,
			RecordKey: "priya sharma",
			Scope:     constant.ScopeHR,
			Fields:    map[string]interface{}{"salary": 95000.0},
		}},
	}

	scopes, err := scope.Resolve(constant.RoleHR)
	require.NoError(t, err)
	analysis := query.Process("What is the salary of Priya Sharma?", scopes)

	plan, err := newTestPlanner(uow).Build(context.Background(), uow, scopes, analysis)
	require.NoError(t, err)

	assert.Contains(t, plan.PreparedAnswer, "95000")
	require.Len(t, plan.Evidence, 1)
	assert.Equal(t, recordId, plan.Evidence[0].SourceId)
	assert.Equal(t, "record", plan.Evidence[0].SourceType)
	assert.Equal(t, constant.ScopeHR, plan.Evidence[0].Scope)
}
