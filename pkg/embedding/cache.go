package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachingProvider wraps another EmbeddingProvider with an in-memory cache.
// Repeated questions (and re-indexing of unchanged chunks) skip the embedding
// round-trip. Keys are hashed so arbitrarily long texts stay cheap to store.
type CachingProvider struct {
	inner EmbeddingProvider
	cache *cache.Cache
}

func NewCachingProvider(inner EmbeddingProvider) EmbeddingProvider {
	// 1 hour default expiration, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CachingProvider{
		inner: inner,
		cache: c,
	}
}

func (p *CachingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if x, found := p.cache.Get(key); found {
		return x.(*EmbeddingResponse), nil
	}

	resp, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, resp, cache.DefaultExpiration)
	return resp, nil
}

func cacheKey(text string, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
