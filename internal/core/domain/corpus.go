package domain

// CorpusStats summarises the state of the chunk corpus.
type CorpusStats struct {
	// TotalChunks is the number of stored chunks.
	TotalChunks int
	// EmbeddedChunks is the number of chunks with an embedding vector.
	EmbeddedChunks int
	// ByContentType counts chunks per content type.
	ByContentType map[ContentType]int
}
