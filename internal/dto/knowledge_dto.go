package dto

type WikiRequest struct {
	Title   string `json:"title" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
	Summary string `json:"summary"`
	Content string `json:"content" validate:"required"`
}

type WikiResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Title       string `json:"title,omitempty"`
	ChunksCount int64  `json:"chunks_count,omitempty"`
}

type VectorStats struct {
	VectorsCount int64 `json:"vectors_count"`
	PointsCount  int64 `json:"points_count"`
}

type StatsResponse struct {
	Stats VectorStats `json:"stats"`
}

type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// IngestDocumentMessage is the payload published to the ingestion topic.
// Chunks are produced synchronously at request time; the consumer embeds
// and stores them.
type IngestDocumentMessage struct {
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Chunks []string `json:"chunks"`
}
