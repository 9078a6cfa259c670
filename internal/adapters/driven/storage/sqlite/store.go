package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/domain"
	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is a SQLite-backed chunk store. Embeddings are stored as
// little-endian float32 blobs alongside the chunk text.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified path.
// If path is empty, defaults to ~/.ragchat/data/corpus.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragchat", "data", "corpus.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// UpsertChunk stores a chunk, replacing any chunk with the same
// (url, chunk_number) key.
func (s *Store) UpsertChunk(ctx context.Context, chunk domain.Chunk) error {
	return s.upsert(ctx, s.db, chunk)
}

// UpsertChunks stores a batch of chunks in a single transaction.
func (s *Store) UpsertChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, chunk := range chunks {
		if err := s.upsert(ctx, tx, chunk); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// execer abstracts *sql.DB and *sql.Tx for upserts.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsert(ctx context.Context, db execer, chunk domain.Chunk) error {
	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, `
		INSERT INTO chunks (id, url, title, chunk_number, total_chunks, content,
			character_count, content_type, embedding, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url, chunk_number) DO UPDATE SET
			title = excluded.title,
			total_chunks = excluded.total_chunks,
			content = excluded.content,
			character_count = excluded.character_count,
			content_type = excluded.content_type,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, chunk.ID, chunk.URL, chunk.Title, chunk.ChunkNumber, chunk.TotalChunks,
		chunk.Content, chunk.CharacterCount, string(chunk.ContentType),
		float32SliceToBytes(chunk.Embedding), string(metadataJSON), now, now)

	if err != nil {
		return fmt.Errorf("saving chunk %s#%d: %w", chunk.URL, chunk.ChunkNumber, err)
	}
	return nil
}

// GetChunk retrieves a chunk by its natural key.
func (s *Store) GetChunk(ctx context.Context, key domain.ChunkKey) (domain.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, chunk_number, total_chunks, content,
			character_count, content_type, embedding, metadata
		FROM chunks WHERE url = ? AND chunk_number = ?
	`, key.URL, key.ChunkNumber)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Chunk{}, domain.ErrNotFound
		}
		return domain.Chunk{}, err
	}
	return chunk, nil
}

// ListChunks retrieves chunks matching the filter, ordered by URL and
// chunk number.
func (s *Store) ListChunks(ctx context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	query := `
		SELECT id, url, title, chunk_number, total_chunks, content,
			character_count, content_type, embedding, metadata
		FROM chunks`
	where, args := filterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY url, chunk_number"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// UpdateEmbedding sets the embedding vector for an existing chunk.
func (s *Store) UpdateEmbedding(ctx context.Context, key domain.ChunkKey, embedding []float32) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE chunks SET embedding = ?, updated_at = ?
		WHERE url = ? AND chunk_number = ?
	`, float32SliceToBytes(embedding), time.Now().UTC(), key.URL, key.ChunkNumber)
	if err != nil {
		return fmt.Errorf("updating embedding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByURL removes all chunks from a source page.
func (s *Store) DeleteByURL(ctx context.Context, url string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE url = ?", url)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks for %s: %w", url, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking delete result: %w", err)
	}
	return int(affected), nil
}

// Count returns the number of stored chunks matching the filter.
func (s *Store) Count(ctx context.Context, filter driven.ChunkFilter) (int, error) {
	query := "SELECT COUNT(*) FROM chunks"
	where, args := filterClauses(filter)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// filterClauses builds WHERE clauses for a chunk filter.
func filterClauses(filter driven.ChunkFilter) ([]string, []any) {
	var where []string
	var args []any

	if filter.ContentType != "" {
		where = append(where, "content_type = ?")
		args = append(args, string(filter.ContentType))
	}
	if filter.EmbeddedOnly {
		where = append(where, "embedding IS NOT NULL AND length(embedding) > 0")
	}
	if filter.MissingEmbedding {
		where = append(where, "(embedding IS NULL OR length(embedding) = 0)")
	}
	if filter.URL != "" {
		where = append(where, "url = ?")
		args = append(args, filter.URL)
	}
	return where, args
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanChunk scans a single chunk row.
func scanChunk(row rowScanner) (domain.Chunk, error) {
	var chunk domain.Chunk
	var contentType string
	var embeddingBlob []byte
	var metadataJSON sql.NullString

	if err := row.Scan(&chunk.ID, &chunk.URL, &chunk.Title, &chunk.ChunkNumber,
		&chunk.TotalChunks, &chunk.Content, &chunk.CharacterCount, &contentType,
		&embeddingBlob, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Chunk{}, sql.ErrNoRows
		}
		return domain.Chunk{}, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.ContentType = domain.ContentType(contentType)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON.String), &chunk.Metadata); err != nil {
			return domain.Chunk{}, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
