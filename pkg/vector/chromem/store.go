package chromem

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	chromemgo "github.com/philippgille/chromem-go"

	"wiki-chat-be/pkg/embedding"
	"wiki-chat-be/pkg/retrieval"
	"wiki-chat-be/pkg/vector"
)

// Store is the embedded vector index. It needs no external services:
// documents live in-process, optionally persisted to a gob file.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	embedder   embedding.Provider
}

// New creates a Store. An empty persistPath keeps everything in memory.
func New(persistPath, collectionName string, embedder embedding.Provider) (*Store, error) {
	if collectionName == "" {
		collectionName = "knowledge"
	}

	var db *chromemgo.DB
	var err error
	if persistPath != "" {
		db, err = chromemgo.NewPersistentDB(filepath.Join(persistPath, "chromem.gob"), false)
		if err != nil {
			return nil, fmt.Errorf("create persistent DB: %w", err)
		}
	} else {
		db = chromemgo.NewDB()
	}

	// The collection's embedding func only runs for queries; documents are
	// embedded up front in StoreChunks so the query/document task types
	// can differ.
	queryEmbed := func(ctx context.Context, text string) ([]float32, error) {
		res, err := embedder.Generate(ctx, text, embedding.TaskQuery)
		if err != nil {
			return nil, err
		}
		return res.Embedding.Values, nil
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, queryEmbed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{
		db:         db,
		collection: collection,
		embedder:   embedder,
	}, nil
}

func (s *Store) StoreChunks(ctx context.Context, chunks []vector.Chunk) error {
	for _, chunk := range chunks {
		res, err := s.embedder.Generate(ctx, chunk.Content, embedding.TaskDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %q: %w", chunk.Index, chunk.DocumentTitle, err)
		}

		doc := chromemgo.Document{
			ID:        uuid.NewString(),
			Content:   chunk.Content,
			Embedding: res.Embedding.Values,
			Metadata: map[string]string{
				"title":       chunk.DocumentTitle,
				"source_url":  chunk.SourceURL,
				"chunk_index": strconv.Itoa(chunk.Index),
			},
		}
		if err := s.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("add chunk %d of %q: %w", chunk.Index, chunk.DocumentTitle, err)
		}
	}
	return nil
}

func (s *Store) SearchSimilar(ctx context.Context, query string, limit int) ([]retrieval.ScoredResult, error) {
	if limit <= 0 {
		limit = 5
	}
	// chromem rejects queries asking for more results than stored.
	if count := s.collection.Count(); count < limit {
		if count == 0 {
			return nil, nil
		}
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query collection: %w", err)
	}

	scored := make([]retrieval.ScoredResult, 0, len(results))
	for _, r := range results {
		scored = append(scored, retrieval.ScoredResult{
			Title:   r.Metadata["title"],
			Content: r.Content,
			URL:     r.Metadata["source_url"],
			Source:  retrieval.SourceKnowledgeBase,
			Score:   float64(r.Similarity),
		})
	}
	return scored, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return int64(s.collection.Count()), nil
}
