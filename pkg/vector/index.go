package vector

import (
	"context"

	"wiki-chat-be/pkg/retrieval"
)

// Chunk is one piece of a split document, ready for embedding.
type Chunk struct {
	DocumentTitle string
	SourceURL     string
	Index         int
	Content       string
}

// Index is the knowledge-base contract backing RAG mode. Implementations
// embed on write and on query; SearchSimilar scores are cosine
// similarities in [0, 1].
type Index interface {
	StoreChunks(ctx context.Context, chunks []Chunk) error
	SearchSimilar(ctx context.Context, query string, limit int) ([]retrieval.ScoredResult, error)
	Count(ctx context.Context) (int64, error)
}
