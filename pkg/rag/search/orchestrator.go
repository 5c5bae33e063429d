package search

import (
	"context"
	"fmt"
	"log"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/unitofwork"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/rag/scope"
)

// Orchestrator embeds the question and runs the scope-constrained vector
// search. It returns raw scored candidates; dedup and capping happen in the
// planner.
type Orchestrator struct {
	embeddingProvider embedding.EmbeddingProvider
	logger            *log.Logger
}

func NewOrchestrator(embeddingProvider embedding.EmbeddingProvider, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		embeddingProvider: embeddingProvider,
		logger:            logger,
	}
}

// Config encapsulates search parameters
type Config struct {
	DBThreshold float64
	TopK        int
}

// DefaultConfig returns default search configuration
func DefaultConfig() Config {
	return Config{
		DBThreshold: 0.35,
		TopK:        10,
	}
}

// Execute embeds the query and runs the similarity search over the caller's
// scope set. TopK is clamped to the hard ceiling regardless of what the
// caller asks for.
func (o *Orchestrator) Execute(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	scopes *scope.ScopeSet,
	queryText string,
	config Config,
) ([]*entity.DocumentSearchResult, error) {

	topK := config.TopK
	if topK <= 0 || topK > constant.SearchTopKMax {
		topK = constant.SearchTopKMax
	}

	embeddingRes, err := o.embeddingProvider.Generate(queryText, embedding.TaskTypeRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	results, err := uow.DocumentEmbeddingRepository().SearchSimilarWithScore(
		ctx,
		embeddingRes.Embedding.Values,
		scopes.List(),
		topK,
		config.DBThreshold,
	)
	if err != nil {
		o.logger.Printf("[ERROR] Vector search failed: %v", err)
		return nil, fmt.Errorf("%w: %v", dto.ErrIndexUnavailable, err)
	}

	o.logger.Printf("[DEBUG] Raw search results: %d chunks across %d scopes", len(results), scopes.Len())
	return results, nil
}
