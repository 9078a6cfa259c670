package driving

import (
	"context"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// SearchService provides retrieval over the corpus to external actors.
type SearchService interface {
	// Search retrieves the most relevant chunks for a query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredChunk, error)
}

// AnswerService generates grounded answers from retrieved chunks.
type AnswerService interface {
	// Answer retrieves relevant chunks and generates a response grounded
	// in them. The returned answer carries source provenance.
	Answer(ctx context.Context, question string, opts domain.SearchOptions) (domain.Answer, error)
}

// CorpusService manages the chunk corpus.
type CorpusService interface {
	// LoadCSV ingests chunks from a scraped-corpus CSV export.
	// Returns the number of chunks stored.
	LoadCSV(ctx context.Context, path string) (int, error)

	// EmbedMissing generates and stores embeddings for chunks that do not
	// have one yet. Returns the number of chunks embedded.
	EmbedMissing(ctx context.Context) (int, error)

	// Stats summarises the corpus contents.
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
