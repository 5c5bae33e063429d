package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

func TestCachingProviderDeduplicates(t *testing.T) {
	inner := &countingProvider{}
	provider := NewCachingProvider(inner)

	first, err := provider.Generate("same question", TaskTypeRetrievalQuery)
	require.NoError(t, err)
	second, err := provider.Generate("same question", TaskTypeRetrievalQuery)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "repeat lookups must hit the cache")
	assert.Equal(t, first.Embedding.Values, second.Embedding.Values)
}

func TestCachingProviderKeyIncludesTaskType(t *testing.T) {
	inner := &countingProvider{}
	provider := NewCachingProvider(inner)

	_, err := provider.Generate("text", TaskTypeRetrievalQuery)
	require.NoError(t, err)
	_, err = provider.Generate("text", TaskTypeRetrievalDocument)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "query and document embeddings are distinct")
}

func TestCachingProviderDistinctTexts(t *testing.T) {
	inner := &countingProvider{}
	provider := NewCachingProvider(inner)

	_, _ = provider.Generate("alpha", TaskTypeRetrievalQuery)
	_, _ = provider.Generate("beta", TaskTypeRetrievalQuery)

	assert.Equal(t, 2, inner.calls)
}
