// Package csvfile loads corpus chunks from the CSV exports produced by
// the wiki scraping pipeline.
package csvfile

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.ChunkLoader = (*Loader)(nil)

// Expected CSV columns. Only url and content are required; everything
// else degrades to zero values.
const (
	colURL            = "url"
	colTitle          = "title"
	colContent        = "content"
	colChunkNumber    = "chunk_number"
	colTotalChunks    = "total_chunks"
	colCharacterCount = "character_count"
	colContentType    = "content_type"
	colMetadata       = "metadata"
	colVectors        = "vectors"
)

// Loader reads chunk CSV exports. The vectors column holds the embedding
// as a JSON float array; empty or "None" cells mean the chunk has not
// been embedded yet.
type Loader struct{}

// NewLoader creates a CSV chunk loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadChunks parses the CSV at path into domain chunks. Malformed rows
// are skipped with a warning rather than failing the whole load; the
// dropped count reports how many rows were skipped.
func (l *Loader) LoadChunks(ctx context.Context, path string) ([]domain.Chunk, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validate per row

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := columns[colURL]; !ok {
		return nil, 0, fmt.Errorf("%s column missing: %w", colURL, domain.ErrInvalidInput)
	}
	if _, ok := columns[colContent]; !ok {
		return nil, 0, fmt.Errorf("%s column missing: %w", colContent, domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	dropped := 0
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, dropped, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.Warn("Skipping malformed CSV row %d: %v", line, err)
			dropped++
			continue
		}

		chunk, ok := parseRow(columns, record, line)
		if !ok {
			dropped++
			continue
		}
		chunks = append(chunks, chunk)
	}

	logger.Debug("Parsed %d chunks from %s (%d rows dropped)", len(chunks), path, dropped)
	return chunks, dropped, nil
}

// parseRow converts one CSV record into a chunk.
func parseRow(columns map[string]int, record []string, line int) (domain.Chunk, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	url := strings.TrimSpace(field(colURL))
	content := field(colContent)
	if url == "" || strings.TrimSpace(content) == "" {
		logger.Warn("Skipping CSV row %d: missing url or content", line)
		return domain.Chunk{}, false
	}

	chunk := domain.Chunk{
		URL:            url,
		Title:          field(colTitle),
		Content:        content,
		ChunkNumber:    parseIntField(field(colChunkNumber)),
		TotalChunks:    parseIntField(field(colTotalChunks)),
		CharacterCount: parseIntField(field(colCharacterCount)),
	}
	if chunk.CharacterCount == 0 {
		chunk.CharacterCount = len(content)
	}

	chunk.ContentType = domain.NormaliseContentType(field(colContentType), chunk.Title, content)

	if raw := field(colMetadata); raw != "" {
		var meta map[string]any
		if err := json.Unmarshal([]byte(raw), &meta); err == nil {
			chunk.Metadata = meta
		} else {
			// The pipeline occasionally writes non-JSON metadata; keep it
			// rather than dropping the row.
			chunk.Metadata = map[string]any{"raw": raw}
		}
	}

	embedding, err := parseVectors(field(colVectors))
	if err != nil {
		logger.Warn("Skipping embedding on CSV row %d: %v", line, err)
	} else {
		chunk.Embedding = embedding
	}

	return chunk, true
}

// parseVectors decodes the vectors column: a JSON float array, with
// empty and "None" cells meaning no embedding.
func parseVectors(raw string) ([]float32, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") || raw == "null" {
		return nil, nil
	}

	var values []float64
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decoding vectors: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	embedding := make([]float32, len(values))
	for i, v := range values {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// parseIntField parses an integer cell, treating anything unparseable
// as zero.
func parseIntField(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// Some exports write counts as floats ("3.0").
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
