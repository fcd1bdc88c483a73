// ABOUTME: Error taxonomy for the ingestion pipeline.
// ABOUTME: Sentinels distinguish rejected payloads from failed flushes.
package ingest

import "errors"

var (
	// ErrValidation marks a malformed batch, rejected before any
	// mutation. The batch is never partially applied.
	ErrValidation = errors.New("invalid payload")

	// ErrUnknownType marks an upload naming no known collection.
	ErrUnknownType = errors.New("unknown record type")

	// ErrPersistence marks a flush failure after a successful in-memory
	// mutation. The mutation is kept; the caller may retry by
	// re-uploading or triggering another flush.
	ErrPersistence = errors.New("persistence failure")
)
