package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mlewan/grounder/model"
)

// MemoryStore is an in-memory ChunkStore for tests and small corpora. It is
// safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[string]*model.Chunk
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chunks: make(map[string]*model.Chunk),
	}
}

// UpsertChunks inserts or replaces the given chunks by ID.
func (s *MemoryStore) UpsertChunks(ctx context.Context, chunks []*model.Chunk) error {
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk without id cannot be stored")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		copied := *chunk
		s.chunks[chunk.ID] = &copied
	}
	return nil
}

// ListAllChunks returns every stored chunk ordered by document and sequence
// index.
func (s *MemoryStore) ListAllChunks(ctx context.Context) ([]*model.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := make([]*model.Chunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		chunks = append(chunks, chunk)
	}
	sortChunks(chunks)
	return chunks, nil
}

// SelectChunksByDocument returns all chunks of one document in sequence
// order.
func (s *MemoryStore) SelectChunksByDocument(ctx context.Context, documentID string) ([]*model.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := []*model.Chunk{}
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			chunks = append(chunks, chunk)
		}
	}
	sortChunks(chunks)
	return chunks, nil
}

// DeleteChunksForDocument deletes all chunks of a document and returns the
// number of deleted chunks.
func (s *MemoryStore) DeleteChunksForDocument(ctx context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			delete(s.chunks, id)
			deleted++
		}
	}
	return deleted, nil
}

// CountChunks returns the total number of stored chunks.
func (s *MemoryStore) CountChunks(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.chunks)), nil
}

func sortChunks(chunks []*model.Chunk) {
	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].DocumentID != chunks[j].DocumentID {
			return chunks[i].DocumentID < chunks[j].DocumentID
		}
		return chunks[i].SequenceIndex < chunks[j].SequenceIndex
	})
}
