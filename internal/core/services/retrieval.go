package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driving"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// Ensure RetrievalEngine implements the interface.
var _ driving.SearchService = (*RetrievalEngine)(nil)

// wordPattern tokenises queries and chunk content for keyword scoring.
var wordPattern = regexp.MustCompile(`\w+`)

// unitNormEpsilon is the tolerance for treating a vector as unit length.
// Embeddings from OpenAI arrive pre-normalised, so the dot product alone
// is the cosine similarity; vectors outside this tolerance get the full
// cosine computation.
const unitNormEpsilon = 1e-3

// RetrievalEngine scores corpus chunks against a query embedding,
// optionally blended with keyword overlap.
type RetrievalEngine struct {
	chunkStore       driven.ChunkStore
	embeddingService driven.EmbeddingService
}

// NewRetrievalEngine creates a retrieval engine over the given store.
// The embeddingService is required for retrieval; passing nil produces an
// engine whose Search always fails with domain.ErrEmbeddingUnavailable.
func NewRetrievalEngine(chunkStore driven.ChunkStore, embeddingService driven.EmbeddingService) *RetrievalEngine {
	return &RetrievalEngine{
		chunkStore:       chunkStore,
		embeddingService: embeddingService,
	}
}

// Search retrieves the most relevant chunks for a query.
func (e *RetrievalEngine) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	// An empty query is not rejected: keyword overlap scores 0 for every
	// chunk, the hybrid gate falls back to the full corpus, and semantic
	// ranking runs against the embedding of the empty string.
	query = strings.TrimSpace(query)
	if e.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if opts.KeywordWeight < 0 || opts.KeywordWeight > 1 {
		return nil, fmt.Errorf("keyword weight %v out of range: %w", opts.KeywordWeight, domain.ErrInvalidInput)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultSearchOptions().TopK
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.SearchModeHybrid
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("search mode %q: %w", mode, domain.ErrInvalidInput)
	}
	logger.Debug("Mode: %s, TopK: %d, KeywordWeight: %.2f", mode, topK, opts.KeywordWeight)

	chunks, err := e.chunkStore.ListChunks(ctx, driven.ChunkFilter{
		ContentType:  opts.ContentType,
		EmbeddedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	if len(chunks) == 0 {
		logger.Warn("No embedded chunks in corpus")
		return []domain.ScoredChunk{}, nil
	}
	logger.Debug("Scoring %d chunks", len(chunks))

	// Embed the query and tokenise it concurrently. Embedding is a network
	// round trip; tokenisation is local and cheap but keyword scores for
	// the whole corpus are not.
	var (
		wg             sync.WaitGroup
		queryEmbedding []float32
		embedErr       error
		keywordScores  []float64
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		queryEmbedding, embedErr = e.embeddingService.Embed(ctx, query)
	}()
	go func() {
		defer wg.Done()
		queryTokens := tokenise(query)
		keywordScores = make([]float64, len(chunks))
		for i := range chunks {
			keywordScores[i] = keywordOverlap(queryTokens, chunks[i].Content)
		}
	}()
	wg.Wait()

	if embedErr != nil {
		return nil, fmt.Errorf("embed query: %w", embedErr)
	}

	scored, err := e.scoreChunks(chunks, queryEmbedding, keywordScores, mode, opts.KeywordWeight)
	if err != nil {
		return nil, err
	}

	sortScored(scored)
	if len(scored) > topK {
		scored = scored[:topK]
	}

	logger.Info("Retrieved %d chunks", len(scored))
	return scored, nil
}

// scoreChunks computes the final score per chunk. In hybrid mode, chunks
// with any keyword overlap form the candidate set; when no chunk overlaps
// the query at all, scoring falls back to the full corpus. The keyword
// gate applies even at weight 0, which keeps hybrid mode's candidate
// pruning behaviour independent of the blend weight.
func (e *RetrievalEngine) scoreChunks(
	chunks []domain.Chunk,
	queryEmbedding []float32,
	keywordScores []float64,
	mode domain.SearchMode,
	keywordWeight float64,
) ([]domain.ScoredChunk, error) {
	candidates := make([]int, 0, len(chunks))
	if mode == domain.SearchModeHybrid {
		for i := range chunks {
			if keywordScores[i] > 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			logger.Debug("No keyword overlap, falling back to full corpus")
		}
	}
	if len(candidates) == 0 {
		for i := range chunks {
			candidates = append(candidates, i)
		}
	}

	scored := make([]domain.ScoredChunk, 0, len(candidates))
	for _, i := range candidates {
		chunk := chunks[i]
		semantic, err := cosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s#%d: %w", chunk.URL, chunk.ChunkNumber, err)
		}

		sc := domain.ScoredChunk{
			Chunk:         chunk,
			SemanticScore: semantic,
			KeywordScore:  keywordScores[i],
		}
		switch mode {
		case domain.SearchModeSemantic:
			sc.Score = semantic
		case domain.SearchModeHybrid:
			sc.Score = (1-keywordWeight)*semantic + keywordWeight*keywordScores[i]
		}
		scored = append(scored, sc)
	}
	return scored, nil
}

// sortScored orders results best first, with a stable tie break on the
// chunk key so equal scores rank deterministically.
func sortScored(scored []domain.ScoredChunk) {
	sort.Slice(scored, func(a, b int) bool {
		if scored[a].Score != scored[b].Score {
			return scored[a].Score > scored[b].Score
		}
		if scored[a].Chunk.URL != scored[b].Chunk.URL {
			return scored[a].Chunk.URL < scored[b].Chunk.URL
		}
		return scored[a].Chunk.ChunkNumber < scored[b].Chunk.ChunkNumber
	})
}

// tokenise lowercases text and extracts the set of word tokens.
func tokenise(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make(map[string]struct{}, len(words))
	for _, w := range words {
		tokens[w] = struct{}{}
	}
	return tokens
}

// keywordOverlap is the fraction of distinct query tokens that appear in
// the content. Returns 0 for an empty query token set.
func keywordOverlap(queryTokens map[string]struct{}, content string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	contentTokens := tokenise(content)
	matched := 0
	for token := range queryTokens {
		if _, ok := contentTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

// cosineSimilarity computes similarity between two vectors. Vectors that
// are already unit length take the dot product fast path; anything else
// gets normalised. Returns domain.ErrDimensionMismatch when lengths differ.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%d vs %d: %w", len(a), len(b), domain.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	if math.Abs(normA-1) < unitNormEpsilon && math.Abs(normB-1) < unitNormEpsilon {
		return dot, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
