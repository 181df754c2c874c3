package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// ChunkEmbedding is one indexed chunk for the pgvector index backend.
// The vector column is left unsized so the embedding model can change.
type ChunkEmbedding struct {
	Id         int64           `gorm:"primaryKey;autoIncrement"`
	RowIndex   int             `gorm:"not null;uniqueIndex"` // position in build order
	ChunkId    string          `gorm:"type:text;not null"`
	SourceURL  string          `gorm:"column:source_url;type:text;not null"`
	Section    string          `gorm:"type:text"`
	ChunkIndex int             `gorm:"default:0"`
	Document   string          `gorm:"type:text"`
	Embedding  pgvector.Vector `gorm:"type:vector"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (ChunkEmbedding) TableName() string {
	return "chunk_embeddings"
}
