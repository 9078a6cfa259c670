package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore for
// testing and small corpora.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[domain.ChunkKey]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[domain.ChunkKey]domain.Chunk),
	}
}

// UpsertChunk stores a chunk, replacing any chunk with the same key.
func (s *ChunkStore) UpsertChunk(_ context.Context, chunk domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.Key()] = cloneChunk(chunk)
	return nil
}

// UpsertChunks stores a batch of chunks.
func (s *ChunkStore) UpsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range chunks {
		s.chunks[chunk.Key()] = cloneChunk(chunk)
	}
	return nil
}

// GetChunk retrieves a chunk by its natural key.
func (s *ChunkStore) GetChunk(_ context.Context, key domain.ChunkKey) (domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[key]
	if !ok {
		return domain.Chunk{}, domain.ErrNotFound
	}
	return cloneChunk(chunk), nil
}

// ListChunks retrieves chunks matching the filter, ordered by URL and
// chunk number.
func (s *ChunkStore) ListChunks(_ context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Chunk, 0, len(s.chunks))
	for _, chunk := range s.chunks {
		if matchesFilter(chunk, filter) {
			result = append(result, cloneChunk(chunk))
		}
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].URL != result[b].URL {
			return result[a].URL < result[b].URL
		}
		return result[a].ChunkNumber < result[b].ChunkNumber
	})
	return result, nil
}

// UpdateEmbedding sets the embedding vector for an existing chunk.
func (s *ChunkStore) UpdateEmbedding(_ context.Context, key domain.ChunkKey, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunk, ok := s.chunks[key]
	if !ok {
		return domain.ErrNotFound
	}
	chunk.Embedding = append([]float32(nil), embedding...)
	s.chunks[key] = chunk
	return nil
}

// DeleteByURL removes all chunks from a source page.
func (s *ChunkStore) DeleteByURL(_ context.Context, url string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for key := range s.chunks {
		if key.URL == url {
			delete(s.chunks, key)
			deleted++
		}
	}
	return deleted, nil
}

// Count returns the number of stored chunks matching the filter.
func (s *ChunkStore) Count(_ context.Context, filter driven.ChunkFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, chunk := range s.chunks {
		if matchesFilter(chunk, filter) {
			count++
		}
	}
	return count, nil
}

// Close is a no-op for the in-memory store.
func (s *ChunkStore) Close() error {
	return nil
}

func matchesFilter(chunk domain.Chunk, filter driven.ChunkFilter) bool {
	if filter.ContentType != "" && chunk.ContentType != filter.ContentType {
		return false
	}
	if filter.EmbeddedOnly && !chunk.HasEmbedding() {
		return false
	}
	if filter.MissingEmbedding && chunk.HasEmbedding() {
		return false
	}
	if filter.URL != "" && chunk.URL != filter.URL {
		return false
	}
	return true
}

// cloneChunk copies a chunk so callers cannot mutate stored state.
func cloneChunk(chunk domain.Chunk) domain.Chunk {
	clone := chunk
	if chunk.Embedding != nil {
		clone.Embedding = append([]float32(nil), chunk.Embedding...)
	}
	if chunk.Metadata != nil {
		clone.Metadata = make(map[string]any, len(chunk.Metadata))
		for k, v := range chunk.Metadata {
			clone.Metadata[k] = v
		}
	}
	return clone
}
