package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachingEmbedder wraps an Embedder with an in-process LRU cache keyed by
// task type and content hash. Re-ingesting unchanged documents then costs no
// provider calls.
type CachingEmbedder struct {
	inner Embedder
	cache *expirable.LRU[string, []float32]
}

// NewCachingEmbedder wraps inner with an LRU of the given size and TTL.
// Zero values fall back to 10000 entries and 2 hours.
func NewCachingEmbedder(inner Embedder, size int, ttl time.Duration) *CachingEmbedder {
	if size <= 0 {
		size = 10000
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &CachingEmbedder{
		inner: inner,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

func (e *CachingEmbedder) ModelName() string {
	return e.inner.ModelName()
}

func (e *CachingEmbedder) Embed(ctx context.Context, text string, taskType TaskType) ([]float32, error) {
	key := cacheKey(string(taskType), text)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	embedding, err := e.inner.Embed(ctx, text, taskType)
	if err != nil {
		return nil, err
	}

	e.cache.Add(key, embedding)
	return embedding, nil
}

func cacheKey(taskType, text string) string {
	hash := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(hash[:])
}
