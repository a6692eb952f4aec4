package pgvector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	pgv "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"wiki-chat-be/pkg/embedding"
	"wiki-chat-be/pkg/retrieval"
	"wiki-chat-be/pkg/vector"
)

// DocumentChunk is the persisted knowledge-base row.
type DocumentChunk struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title      string     `gorm:"type:text;index"`
	SourceURL  string     `gorm:"type:text"`
	ChunkIndex int        `gorm:"default:0"`
	Content    string     `gorm:"type:text"`
	Embedding  pgv.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 are 768-dim
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}

// Store is the Postgres-backed vector index.
type Store struct {
	db       *gorm.DB
	embedder embedding.Provider
}

func New(db *gorm.DB, embedder embedding.Provider) (*Store, error) {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enable pgvector extension: %w", err)
	}
	if err := db.AutoMigrate(&DocumentChunk{}); err != nil {
		return nil, fmt.Errorf("migrate document_chunks: %w", err)
	}
	return &Store{db: db, embedder: embedder}, nil
}

func (s *Store) StoreChunks(ctx context.Context, chunks []vector.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]*DocumentChunk, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := s.embedder.Generate(ctx, chunk.Content, embedding.TaskDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %q: %w", chunk.Index, chunk.DocumentTitle, err)
		}
		rows = append(rows, &DocumentChunk{
			Title:      chunk.DocumentTitle,
			SourceURL:  chunk.SourceURL,
			ChunkIndex: chunk.Index,
			Content:    chunk.Content,
			Embedding:  pgv.NewVector(res.Embedding.Values),
		})
	}

	return s.db.WithContext(ctx).Create(rows).Error
}

func (s *Store) SearchSimilar(ctx context.Context, query string, limit int) ([]retrieval.ScoredResult, error) {
	if limit <= 0 {
		limit = 5
	}

	res, err := s.embedder.Generate(ctx, query, embedding.TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVector := pgv.NewVector(res.Embedding.Values)

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query) recovers the similarity.
	type row struct {
		DocumentChunk
		Similarity float64
	}
	var rows []row

	err = s.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]retrieval.ScoredResult, 0, len(rows))
	for _, r := range rows {
		scored = append(scored, retrieval.ScoredResult{
			Title:   r.Title,
			Content: r.Content,
			URL:     r.SourceURL,
			Source:  retrieval.SourceKnowledgeBase,
			Score:   r.Similarity,
		})
	}
	return scored, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&DocumentChunk{}).Count(&count).Error
	return count, err
}
