package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentEmbedding struct {
	Id             uuid.UUID
	Chunk          string
	EmbeddingValue []float32
	DocumentId     uuid.UUID
	Scope          string
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// DocumentSearchResult is a retrieved chunk with its cosine similarity and
// the owning document's metadata, so callers can cite without a second query.
type DocumentSearchResult struct {
	Id                uuid.UUID
	Chunk             string
	DocumentId        uuid.UUID
	DocumentTitle     string
	Scope             string
	Similarity        float64
	DocumentCreatedAt time.Time
}
