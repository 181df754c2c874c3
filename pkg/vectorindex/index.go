// Package vectorindex stores chunk vectors for exact inner-product search.
// Vectors are expected to be unit length, so scores are cosine similarities.
package vectorindex

import (
	"context"

	"hr-helpdesk-be/pkg/store"
)

// Index is a row-aligned store of vectors and chunk metadata.
type Index interface {
	// Build replaces the whole index. vectors[i] describes chunks[i].
	Build(ctx context.Context, vectors [][]float32, chunks []store.Chunk) error

	// Search returns up to k hits sorted by descending score. An empty index
	// yields no hits and no error.
	Search(ctx context.Context, query []float32, k int) ([]store.Hit, error)

	Save(ctx context.Context) error
	Load(ctx context.Context) error

	// Exists reports whether any persisted artifact is present.
	Exists(ctx context.Context) bool

	Len() int
}
