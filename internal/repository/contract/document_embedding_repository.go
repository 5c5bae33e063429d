package contract

import (
	"context"

	"ai-helpdesk-be/internal/entity"
	"ai-helpdesk-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs a cosine similarity search restricted to the
	// given scopes. The scope filter is part of the SQL query itself: rows
	// outside the scope set never leave the database. Results are ordered by
	// similarity, ties broken by the owning document's recency.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, scopes []string, limit int, threshold float64) ([]*entity.DocumentSearchResult, error)
}
