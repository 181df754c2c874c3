package ingestion

import "errors"

var (
	// ErrFetchExhausted is returned when a source URL still fails after every retry.
	ErrFetchExhausted = errors.New("ingestion: fetch retries exhausted")

	// ErrNoDocuments is returned when a run produced no chunks at all.
	ErrNoDocuments = errors.New("ingestion: no documents found to index")

	ErrInvalidChunking = errors.New("ingestion: overlap must be smaller than chunk size")
)
