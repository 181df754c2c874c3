package vectorindex

import (
	"context"
	"fmt"
	"sync"

	"hr-helpdesk-be/internal/model"
	"hr-helpdesk-be/pkg/store"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// PgVectorIndex keeps the index in the chunk_embeddings table. Rows are
// written by Build in one transaction, so Save has nothing left to do.
type PgVectorIndex struct {
	db  *gorm.DB
	dim int

	mu   sync.RWMutex
	rows int
}

func NewPgVectorIndex(db *gorm.DB, dim int) *PgVectorIndex {
	return &PgVectorIndex{db: db, dim: dim}
}

func (p *PgVectorIndex) Build(ctx context.Context, vectors [][]float32, chunks []store.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors for %d chunks", ErrIndexCorrupt, len(vectors), len(chunks))
	}
	if len(vectors) == 0 {
		return ErrIndexEmpty
	}

	rows := make([]*model.ChunkEmbedding, len(vectors))
	for i, v := range vectors {
		if len(v) != p.dim {
			return fmt.Errorf("%w: row %d has %d, want %d", ErrDimensionMismatch, i, len(v), p.dim)
		}
		c := chunks[i]
		rows[i] = &model.ChunkEmbedding{
			RowIndex:   i,
			ChunkId:    c.ID,
			SourceURL:  c.SourceURL,
			Section:    c.Section,
			ChunkIndex: c.ChunkIndex,
			Document:   c.Text,
			Embedding:  pgvector.NewVector(v),
		}
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ChunkEmbedding{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("write chunk embeddings: %w", err)
	}

	p.mu.Lock()
	p.rows = len(rows)
	p.mu.Unlock()
	return nil
}

func (p *PgVectorIndex) Search(ctx context.Context, query []float32, k int) ([]store.Hit, error) {
	if p.Len() == 0 || k <= 0 {
		return []store.Hit{}, nil
	}
	if len(query) != p.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), p.dim)
	}

	// <#> is the negative inner product.
	type result struct {
		model.ChunkEmbedding
		Score float64
	}
	var results []result

	queryVector := pgvector.NewVector(query)
	err := p.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, (embedding <#> ?) * -1 AS score", queryVector).
		Order(gorm.Expr("embedding <#> ?", queryVector)).
		Order("row_index").
		Limit(k).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	hits := make([]store.Hit, len(results))
	for i, res := range results {
		hits[i] = store.Hit{
			Score: res.Score,
			Chunk: store.Chunk{
				ID:         res.ChunkId,
				SourceURL:  res.SourceURL,
				Section:    res.Section,
				ChunkIndex: res.ChunkIndex,
				Text:       res.Document,
			},
		}
	}
	return hits, nil
}

func (p *PgVectorIndex) Save(context.Context) error { return nil }

// Load checks the table holds rows and that every row has the configured
// dimension.
func (p *PgVectorIndex) Load(ctx context.Context) error {
	var total int64
	if err := p.db.WithContext(ctx).Model(&model.ChunkEmbedding{}).Count(&total).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	if total == 0 {
		return fmt.Errorf("%w: chunk_embeddings is empty", ErrIndexCorrupt)
	}

	var bad int64
	err := p.db.WithContext(ctx).Model(&model.ChunkEmbedding{}).
		Where("embedding IS NULL OR vector_dims(embedding) <> ?", p.dim).
		Count(&bad).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d rows without a %d-dim vector", ErrIndexCorrupt, bad, p.dim)
	}

	p.mu.Lock()
	p.rows = int(total)
	p.mu.Unlock()
	return nil
}

func (p *PgVectorIndex) Exists(ctx context.Context) bool {
	var total int64
	if err := p.db.WithContext(ctx).Model(&model.ChunkEmbedding{}).Count(&total).Error; err != nil {
		return false
	}
	return total > 0
}

func (p *PgVectorIndex) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rows
}
