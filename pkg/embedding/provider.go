package embedding

import "context"

// Provider defines the interface for generating text embeddings.
// taskType is a hint for providers that distinguish document vs query
// embeddings; providers that don't support it ignore it.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) (*Response, error)
}

// Task types understood by providers that support them.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

type ResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type Response struct {
	Embedding ResponseEmbedding `json:"embedding"`
}
