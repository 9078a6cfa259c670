package driven

import (
	"context"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// ChunkLoader reads corpus chunks from an external export, such as the
// CSV files produced by the wiki scraping pipeline.
type ChunkLoader interface {
	// LoadChunks parses the export at path into domain chunks. Rows that
	// cannot be parsed are skipped, not fatal; dropped reports how many
	// rows were skipped.
	LoadChunks(ctx context.Context, path string) (chunks []domain.Chunk, dropped int, err error)
}
