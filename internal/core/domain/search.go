package domain

// SearchMode determines how retrieval scores chunks.
type SearchMode string

const (
	// SearchModeSemantic ranks purely by embedding similarity.
	SearchModeSemantic SearchMode = "semantic"
	// SearchModeHybrid blends keyword overlap with embedding similarity.
	SearchModeHybrid SearchMode = "hybrid"
)

// IsValid reports whether the search mode is one of the known values.
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeSemantic, SearchModeHybrid:
		return true
	}
	return false
}

// String returns the string representation.
func (m SearchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m SearchMode) Description() string {
	switch m {
	case SearchModeSemantic:
		return "Semantic (embedding similarity only)"
	case SearchModeHybrid:
		return "Hybrid (keyword overlap + embedding similarity)"
	default:
		return unknownDescription
	}
}

// SearchOptions controls a retrieval request.
type SearchOptions struct {
	// TopK is the maximum number of results to return.
	TopK int
	// KeywordWeight is the hybrid blend weight in [0, 1]. At 0 the final
	// score is purely semantic; at 1 it is purely keyword overlap.
	KeywordWeight float64
	// ContentType restricts results to a single content type when set.
	ContentType ContentType
	// Mode selects semantic or hybrid scoring.
	Mode SearchMode
}

// DefaultSearchOptions returns retrieval settings matching the corpus
// defaults: hybrid scoring with keyword and semantic weighted equally.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TopK:          5,
		KeywordWeight: 0.5,
		Mode:          SearchModeHybrid,
	}
}

// ScoredChunk is a chunk paired with its retrieval scores.
type ScoredChunk struct {
	Chunk Chunk
	// Score is the final ranking score.
	Score float64
	// SemanticScore is the cosine similarity component.
	SemanticScore float64
	// KeywordScore is the keyword overlap component.
	KeywordScore float64
}

// SourceRecord is the provenance of one retrieved chunk, attached to
// generated answers for citation.
type SourceRecord struct {
	URL         string
	Title       string
	ChunkNumber int
	ContentType ContentType
	Score       float64
}

// Answer is a generated response grounded in retrieved chunks.
type Answer struct {
	// Text is the generated answer.
	Text string
	// Sources lists the chunks the answer was grounded in, best first.
	Sources []SourceRecord
}
