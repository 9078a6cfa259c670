package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// embedBatchSize bounds how many chunks go to the embedding API per call.
const embedBatchSize = 32

// CorpusService manages the chunk corpus: ingesting scraped exports,
// backfilling embeddings, and reporting corpus state.
type CorpusService struct {
	store   driven.ChunkStore
	loader  driven.ChunkLoader
	embed   driven.EmbeddingService
	cleaner *TitleCleaner
	limiter *rate.Limiter
}

// NewCorpusService creates a corpus service. The embed parameter is
// optional; without it EmbedMissing fails with
// domain.ErrEmbeddingUnavailable.
func NewCorpusService(
	store driven.ChunkStore,
	loader driven.ChunkLoader,
	embed driven.EmbeddingService,
) *CorpusService {
	return &CorpusService{
		store:   store,
		loader:  loader,
		embed:   embed,
		cleaner: NewTitleCleaner(),
		// Conservative default, well under OpenAI's embedding API limits.
		limiter: rate.NewLimiter(rate.Limit(2.0), 5),
	}
}

// SetRateLimit overrides the embedding API rate limit.
func (s *CorpusService) SetRateLimit(requestsPerSecond float64, burst int) {
	s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// LoadCSV ingests chunks from a scraped-corpus CSV export. Titles are
// cleaned on the way in, content types normalised, and chunks upserted by
// their (URL, chunk number) key so re-ingesting a page replaces it.
func (s *CorpusService) LoadCSV(ctx context.Context, path string) (int, error) {
	logger.Section("Corpus Ingest")
	logger.Info("Loading chunks from %s", path)

	chunks, dropped, err := s.loader.LoadChunks(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("load chunks: %w", err)
	}
	if dropped > 0 {
		logger.Warn("Dropped %d unparseable rows from %s", dropped, path)
	}
	if len(chunks) == 0 {
		logger.Warn("No chunks found in %s", path)
		return 0, nil
	}

	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.NewString()
		}
		chunks[i].Title = s.cleaner.Clean(chunks[i].Title, chunks[i].URL)
		chunks[i].ContentType = domain.NormaliseContentType(
			chunks[i].ContentType.String(), chunks[i].Title, chunks[i].Content)
		if chunks[i].CharacterCount == 0 {
			chunks[i].CharacterCount = len(chunks[i].Content)
		}
	}

	if err := s.store.UpsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	logger.Info("Stored %d chunks", len(chunks))
	return len(chunks), nil
}

// EmbedMissing generates and stores embeddings for chunks that do not
// have one yet. Requests are batched and rate limited; failed batches
// are skipped so one provider error does not abort the backfill.
func (s *CorpusService) EmbedMissing(ctx context.Context) (int, error) {
	if s.embed == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Embedding Backfill")
	pending, err := s.store.ListChunks(ctx, driven.ChunkFilter{MissingEmbedding: true})
	if err != nil {
		return 0, fmt.Errorf("list pending chunks: %w", err)
	}
	if len(pending) == 0 {
		logger.Info("All chunks already embedded")
		return 0, nil
	}
	logger.Info("Embedding %d chunks with %s", len(pending), s.embed.ModelName())

	embedded := 0
	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		if err := s.limiter.Wait(ctx); err != nil {
			return embedded, fmt.Errorf("rate limit wait: %w", err)
		}

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		// Failed batches are logged and skipped; those chunks stay
		// unembedded and the next run picks them up again.
		vectors, err := s.embed.EmbedBatch(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return embedded, ctx.Err()
			}
			logger.Warn("Skipping batch at %d (%d chunks): %v", start, len(batch), err)
			continue
		}
		if len(vectors) != len(batch) {
			logger.Warn("Skipping batch at %d: got %d vectors for %d texts", start, len(vectors), len(batch))
			continue
		}

		for i, c := range batch {
			if err := s.store.UpdateEmbedding(ctx, c.Key(), vectors[i]); err != nil {
				logger.Warn("Skipping embedding for %s#%d: %v", c.URL, c.ChunkNumber, err)
				continue
			}
			embedded++
		}
		logger.Debug("Embedded %d/%d", embedded, len(pending))
	}

	if skipped := len(pending) - embedded; skipped > 0 {
		logger.Warn("Embedded %d chunks, %d skipped", embedded, skipped)
	} else {
		logger.Info("Embedded %d chunks", embedded)
	}
	return embedded, nil
}

// Stats summarises the corpus contents.
func (s *CorpusService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	total, err := s.store.Count(ctx, driven.ChunkFilter{})
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("count chunks: %w", err)
	}
	embedded, err := s.store.Count(ctx, driven.ChunkFilter{EmbeddedOnly: true})
	if err != nil {
		return domain.CorpusStats{}, fmt.Errorf("count embedded chunks: %w", err)
	}

	byType := make(map[domain.ContentType]int)
	for _, ct := range []domain.ContentType{
		domain.ContentTypeText,
		domain.ContentTypeTable,
		domain.ContentTypeTableRow,
		domain.ContentTypeImage,
	} {
		n, err := s.store.Count(ctx, driven.ChunkFilter{ContentType: ct})
		if err != nil {
			return domain.CorpusStats{}, fmt.Errorf("count %s chunks: %w", ct, err)
		}
		if n > 0 {
			byType[ct] = n
		}
	}

	return domain.CorpusStats{
		TotalChunks:    total,
		EmbeddedChunks: embedded,
		ByContentType:  byType,
	}, nil
}
