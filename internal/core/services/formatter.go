package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// NoInformationAnswer is returned when retrieval finds nothing to ground
// an answer in.
const NoInformationAnswer = "I couldn't find relevant information to answer your question."

// Formatter renders retrieved chunks for two audiences: raw context blocks
// for the LLM prompt and decorated blocks for user display.
type Formatter struct{}

// NewFormatter creates a formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// BuildContext assembles the LLM prompt context from retrieved chunks.
// Each chunk contributes its raw content under a numbered source header,
// regardless of content type; the model sees the data exactly as stored.
func (f *Formatter) BuildContext(results []domain.ScoredChunk) string {
	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("Source %d:\n%s\n", i+1, r.Chunk.Content))
	}
	return strings.Join(parts, "\n")
}

// FormatChunk renders one chunk's content for user display according to
// its content type.
func (f *Formatter) FormatChunk(chunk domain.Chunk) string {
	switch chunk.ContentType {
	case domain.ContentTypeTableRow:
		return formatTableRow(chunk.Content)
	case domain.ContentTypeTable:
		return fmt.Sprintf("**Complete Table:**\n```\n%s\n```", chunk.Content)
	case domain.ContentTypeText:
		return fmt.Sprintf("**Text Content:**\n%s", chunk.Content)
	default:
		return chunk.Content
	}
}

// formatTableRow renders a serialised table row as a bullet list. Rows
// that are not valid JSON fall back to a plain label.
func formatTableRow(content string) string {
	var row map[string]any
	if err := json.Unmarshal([]byte(content), &row); err != nil {
		return fmt.Sprintf("**Table Content:** %s", content)
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("**Table Data:**\n")
	for _, k := range keys {
		v := row[k]
		if v == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprintf("%v", v))
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "• **%s**: %v\n", k, v)
	}
	return b.String()
}

// DisplayType returns the display label and icon for a content type.
func (f *Formatter) DisplayType(ct domain.ContentType) (label, icon string) {
	switch ct {
	case domain.ContentTypeTableRow:
		return "Table Row", "📊"
	case domain.ContentTypeTable:
		return "Complete Table", "📋"
	case domain.ContentTypeText:
		return "Text Content", "📄"
	default:
		return "Content", "📝"
	}
}

// FormatResult renders a full result block for terminal display: header
// with icon and score, provenance, then the formatted content.
func (f *Formatter) FormatResult(index int, result domain.ScoredChunk) string {
	label, icon := f.DisplayType(result.Chunk.ContentType)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %d (Score: %.3f)\n", icon, label, index+1, result.Score)
	fmt.Fprintf(&b, "Title: %s\n", result.Chunk.Title)
	fmt.Fprintf(&b, "URL: %s (chunk %d)\n", result.Chunk.URL, result.Chunk.ChunkNumber)
	b.WriteString(f.FormatChunk(result.Chunk))
	return b.String()
}

// SourceRecords extracts citation records from retrieved chunks, best
// first.
func (f *Formatter) SourceRecords(results []domain.ScoredChunk) []domain.SourceRecord {
	records := make([]domain.SourceRecord, 0, len(results))
	for _, r := range results {
		records = append(records, domain.SourceRecord{
			URL:         r.Chunk.URL,
			Title:       r.Chunk.Title,
			ChunkNumber: r.Chunk.ChunkNumber,
			ContentType: r.Chunk.ContentType,
			Score:       r.Score,
		})
	}
	return records
}
