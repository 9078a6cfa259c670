package domain

import "strings"

// ContentType categorises what kind of wiki content a chunk holds.
type ContentType string

const (
	// ContentTypeText is ordinary prose content.
	ContentTypeText ContentType = "text"
	// ContentTypeTable is a complete table serialised as one chunk.
	ContentTypeTable ContentType = "table"
	// ContentTypeTableRow is a single row extracted from a table.
	ContentTypeTableRow ContentType = "table_row"
	// ContentTypeImage is image-derived content (captions, alt text).
	ContentTypeImage ContentType = "image"
)

// IsValid reports whether the content type is one of the known values.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeText, ContentTypeTable, ContentTypeTableRow, ContentTypeImage:
		return true
	}
	return false
}

// String returns the string representation of the content type.
func (c ContentType) String() string {
	return string(c)
}

// ResolveContentType infers a chunk's content type from its title and
// content. Title markers win over content shape: a title mentioning both
// "table" and "row" marks a table row, a title mentioning only "table"
// marks a complete table. Failing that, content that looks like a
// serialised record (wrapped in braces) is treated as a table row.
// Everything else is prose.
func ResolveContentType(title, content string) ContentType {
	titleLower := strings.ToLower(title)

	if strings.Contains(titleLower, "table") && strings.Contains(titleLower, "row") {
		return ContentTypeTableRow
	}
	if strings.Contains(titleLower, "table") {
		return ContentTypeTable
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return ContentTypeTableRow
	}

	return ContentTypeText
}

// NormaliseContentType maps a raw content type string onto the closed
// enum, falling back to ResolveContentType when the raw value is empty
// or unrecognised.
func NormaliseContentType(raw, title, content string) ContentType {
	ct := ContentType(strings.ToLower(strings.TrimSpace(raw)))
	if ct.IsValid() {
		return ct
	}
	return ResolveContentType(title, content)
}

// Chunk is a unit of retrievable wiki content. Chunks are identified by
// their source URL plus position within the page; the ID is a surrogate
// assigned at ingest time.
type Chunk struct {
	// ID uniquely identifies the chunk in storage.
	ID string
	// URL is the source wiki page the chunk was extracted from.
	URL string
	// Title is the cleaned page or section title.
	Title string
	// ChunkNumber is the position of this chunk within its page, counted
	// from 1 in the scraped exports.
	ChunkNumber int
	// TotalChunks is the number of chunks the source page was split into.
	TotalChunks int
	// Content is the chunk text.
	Content string
	// CharacterCount is the length of Content in bytes.
	CharacterCount int
	// ContentType categorises the chunk content.
	ContentType ContentType
	// Embedding is the chunk's embedding vector, nil if not yet embedded.
	Embedding []float32
	// Metadata holds additional chunk attributes.
	Metadata map[string]any
}

// HasEmbedding reports whether the chunk carries an embedding vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// Key returns the chunk's natural identity within the corpus.
func (c *Chunk) Key() ChunkKey {
	return ChunkKey{URL: c.URL, ChunkNumber: c.ChunkNumber}
}

// ChunkKey is the natural identity of a chunk: its source page and its
// position within that page. Re-ingesting a page replaces chunks with
// matching keys rather than duplicating them.
type ChunkKey struct {
	URL         string
	ChunkNumber int
}
