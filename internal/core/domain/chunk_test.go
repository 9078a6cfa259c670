package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveContentType covers the resolution order: title markers first,
// then content shape, then the prose fallback.
func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		content  string
		expected ContentType
	}{
		{
			name:     "table and row in title",
			title:    "Autostep 200 Parameters Table Row 3",
			content:  "Step: 1, Time: 30s",
			expected: ContentTypeTableRow,
		},
		{
			name:     "table only in title",
			title:    "Etch Rates Table",
			content:  "CF4 | 100nm/min",
			expected: ContentTypeTable,
		},
		{
			name:     "title markers are case insensitive",
			title:    "Process TABLE - ROW 2",
			content:  "anything",
			expected: ContentTypeTableRow,
		},
		{
			name:     "brace wrapped content without title markers",
			title:    "Autostep 200",
			content:  `{"step": "1", "action": "load wafer"}`,
			expected: ContentTypeTableRow,
		},
		{
			name:     "brace wrapped content with surrounding whitespace",
			title:    "Autostep 200",
			content:  "  {\"step\": \"1\"}\n",
			expected: ContentTypeTableRow,
		},
		{
			name:     "opening brace without closing brace is prose",
			title:    "Autostep 200",
			content:  "{unbalanced content",
			expected: ContentTypeText,
		},
		{
			name:     "plain prose",
			title:    "Autostep 200 Overview",
			content:  "The Autostep 200 is a projection aligner.",
			expected: ContentTypeText,
		},
		{
			name:     "title marker wins over content shape",
			title:    "Exposure Table",
			content:  `{"row": "data"}`,
			expected: ContentTypeTable,
		},
		{
			name:     "empty title and content",
			title:    "",
			content:  "",
			expected: ContentTypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveContentType(tt.title, tt.content)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormaliseContentType(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		title    string
		content  string
		expected ContentType
	}{
		{
			name:     "known raw value passes through",
			raw:      "table",
			expected: ContentTypeTable,
		},
		{
			name:     "raw value is case insensitive",
			raw:      "Table_Row",
			expected: ContentTypeTableRow,
		},
		{
			name:     "image passes through",
			raw:      "image",
			expected: ContentTypeImage,
		},
		{
			name:     "empty raw falls back to resolution",
			raw:      "",
			title:    "Etch Table",
			content:  "rates",
			expected: ContentTypeTable,
		},
		{
			name:     "unknown raw falls back to resolution",
			raw:      "paragraph",
			title:    "Overview",
			content:  "prose",
			expected: ContentTypeText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormaliseContentType(tt.raw, tt.title, tt.content)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestContentType_IsValid(t *testing.T) {
	assert.True(t, ContentTypeText.IsValid())
	assert.True(t, ContentTypeTable.IsValid())
	assert.True(t, ContentTypeTableRow.IsValid())
	assert.True(t, ContentTypeImage.IsValid())
	assert.False(t, ContentType("").IsValid())
	assert.False(t, ContentType("video").IsValid())
}

func TestChunk_HasEmbedding(t *testing.T) {
	chunk := Chunk{Content: "some text"}
	assert.False(t, chunk.HasEmbedding())

	chunk.Embedding = []float32{0.1, 0.2, 0.3}
	assert.True(t, chunk.HasEmbedding())
}

func TestChunk_Key(t *testing.T) {
	chunk := Chunk{
		ID:          "abc",
		URL:         "https://wiki.example.edu/autostep200",
		ChunkNumber: 4,
	}

	key := chunk.Key()
	assert.Equal(t, "https://wiki.example.edu/autostep200", key.URL)
	assert.Equal(t, 4, key.ChunkNumber)
}
