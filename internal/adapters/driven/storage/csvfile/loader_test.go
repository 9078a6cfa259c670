package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
)

// writeCSV writes a temp CSV file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunks.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_LoadChunks(t *testing.T) {
	csv := `url,title,content,chunk_number,total_chunks,character_count,content_type,metadata,vectors
https://wiki/autostep,Autostep 200,The aligner overview.,0,2,21,text,"{""content_type"": ""text""}","[0.1, 0.2, 0.3]"
https://wiki/autostep,Autostep 200,Second chunk.,1,2,13,text,,
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	first := chunks[0]
	assert.Equal(t, "https://wiki/autostep", first.URL)
	assert.Equal(t, "Autostep 200", first.Title)
	assert.Equal(t, 0, first.ChunkNumber)
	assert.Equal(t, 2, first.TotalChunks)
	assert.Equal(t, 21, first.CharacterCount)
	assert.Equal(t, domain.ContentTypeText, first.ContentType)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, first.Embedding)
	assert.Equal(t, "text", first.Metadata["content_type"])

	second := chunks[1]
	assert.Equal(t, 1, second.ChunkNumber)
	assert.False(t, second.HasEmbedding())
	assert.Nil(t, second.Metadata)
}

func TestLoader_LoadChunks_NoneVectors(t *testing.T) {
	csv := `url,title,content,vectors
https://wiki/a,Page,some content,None
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].HasEmbedding())
}

func TestLoader_LoadChunks_InfersContentType(t *testing.T) {
	csv := `url,title,content,content_type
https://wiki/a,Etch Rates Table,rates here,
https://wiki/b,Page,"{""step"": ""1""}",
https://wiki/c,Page,plain prose,table_row
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, domain.ContentTypeTable, chunks[0].ContentType)
	assert.Equal(t, domain.ContentTypeTableRow, chunks[1].ContentType)
	// An explicit valid content type wins over shape inference.
	assert.Equal(t, domain.ContentTypeTableRow, chunks[2].ContentType)
}

func TestLoader_LoadChunks_SkipsIncompleteRows(t *testing.T) {
	csv := `url,title,content
,Missing URL,some content
https://wiki/a,Missing Content,
https://wiki/b,Fine,real content
`
	loader := NewLoader()

	chunks, dropped, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "https://wiki/b", chunks[0].URL)
	assert.Equal(t, 2, dropped)
}

func TestLoader_LoadChunks_BadVectorsKeepsRow(t *testing.T) {
	csv := `url,title,content,vectors
https://wiki/a,Page,content,not-json
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].HasEmbedding())
}

func TestLoader_LoadChunks_NonJSONMetadataKeptRaw(t *testing.T) {
	csv := `url,title,content,metadata
https://wiki/a,Page,content,plain note
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "plain note", chunks[0].Metadata["raw"])
}

func TestLoader_LoadChunks_MissingRequiredColumns(t *testing.T) {
	loader := NewLoader()

	_, _, err := loader.LoadChunks(context.Background(), writeCSV(t, "title,content\nPage,text\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = loader.LoadChunks(context.Background(), writeCSV(t, "url,title\nhttps://a,Page\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoader_LoadChunks_MissingFile(t *testing.T) {
	loader := NewLoader()

	_, _, err := loader.LoadChunks(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoader_LoadChunks_DefaultsCharacterCount(t *testing.T) {
	csv := `url,title,content
https://wiki/a,Page,twelve chars
`
	loader := NewLoader()

	chunks, _, err := loader.LoadChunks(context.Background(), writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, len("twelve chars"), chunks[0].CharacterCount)
}
