// Package sqlite provides a SQLite-backed chunk store.
//
// The store uses modernc.org/sqlite (pure Go, no CGO) with WAL mode for
// concurrent reads. Embedding vectors are stored as little-endian
// float32 blobs. Schema migrations are embedded and applied on open.
package sqlite
