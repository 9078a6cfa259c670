package driven

import (
	"context"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// ChunkFilter narrows chunk listing operations.
type ChunkFilter struct {
	// ContentType restricts results to a single content type when set.
	ContentType domain.ContentType

	// EmbeddedOnly returns only chunks that carry an embedding.
	EmbeddedOnly bool

	// MissingEmbedding returns only chunks without an embedding.
	MissingEmbedding bool

	// URL restricts results to chunks from a single source page.
	URL string
}

// ChunkStore persists corpus chunks and their embeddings.
//
// Chunks are identified by (URL, ChunkNumber); upserting a chunk with an
// existing key replaces the stored row rather than duplicating it.
type ChunkStore interface {
	// UpsertChunk stores a chunk, replacing any chunk with the same key.
	UpsertChunk(ctx context.Context, chunk domain.Chunk) error

	// UpsertChunks stores a batch of chunks in a single transaction.
	UpsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunk retrieves a chunk by its natural key.
	// Returns domain.ErrNotFound if no chunk matches.
	GetChunk(ctx context.Context, key domain.ChunkKey) (domain.Chunk, error)

	// ListChunks retrieves chunks matching the filter, ordered by URL and
	// chunk number.
	ListChunks(ctx context.Context, filter ChunkFilter) ([]domain.Chunk, error)

	// UpdateEmbedding sets the embedding vector for an existing chunk.
	// Returns domain.ErrNotFound if no chunk matches.
	UpdateEmbedding(ctx context.Context, key domain.ChunkKey, embedding []float32) error

	// DeleteByURL removes all chunks from a source page. Used when a page
	// is re-scraped with a different chunking.
	DeleteByURL(ctx context.Context, url string) (int, error)

	// Count returns the number of stored chunks matching the filter.
	Count(ctx context.Context, filter ChunkFilter) (int, error)

	// Close releases the underlying storage.
	Close() error
}
