package service

import (
	"context"
	"encoding/json"
	"log"

	"wiki-chat-be/internal/dto"
	"wiki-chat-be/pkg/utils"
	"wiki-chat-be/pkg/vector"
)

// Oversized sections are re-split on character boundaries.
// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars.
const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IKnowledgeService interface {
	ProcessDocument(ctx context.Context, req *dto.WikiRequest) (*dto.WikiResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type knowledgeService struct {
	index            vector.Index
	publisherService IPublisherService
	llmActive        bool
}

func NewKnowledgeService(index vector.Index, publisherService IPublisherService, llmActive bool) IKnowledgeService {
	return &knowledgeService{
		index:            index,
		publisherService: publisherService,
		llmActive:        llmActive,
	}
}

// ProcessDocument converts the raw article into section chunks and queues
// them for embedding. Chunking is synchronous so the response can report
// the chunk count; embedding and storage happen on the consumer.
func (s *knowledgeService) ProcessDocument(ctx context.Context, req *dto.WikiRequest) (*dto.WikiResponse, error) {
	markdown := utils.BuildMarkdownDocument(req.Title, req.Summary, req.Content)

	var chunks []string
	for _, section := range utils.SplitMarkdownSections(markdown) {
		chunks = append(chunks, utils.SplitText(section, chunkSize, chunkOverlap)...)
	}

	payload, err := json.Marshal(dto.IngestDocumentMessage{
		Title:  req.Title,
		URL:    req.URL,
		Chunks: chunks,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	log.Printf("[INFO] Queued document %q for ingestion (%d chunks)", req.Title, len(chunks))

	return &dto.WikiResponse{
		Success:     true,
		Message:     "Data processed successfully",
		Title:       req.Title,
		ChunksCount: int64(len(chunks)),
	}, nil
}

func (s *knowledgeService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		Stats: dto.VectorStats{
			VectorsCount: count,
			PointsCount:  count,
		},
	}, nil
}

func (s *knowledgeService) Health(ctx context.Context) *dto.HealthResponse {
	vectorStatus := "active"
	if _, err := s.index.Count(ctx); err != nil {
		vectorStatus = "inactive"
	}

	llmStatus := "inactive"
	if s.llmActive {
		llmStatus = "active"
	}

	return &dto.HealthResponse{
		Status: "healthy",
		Components: map[string]string{
			"vector_store": vectorStatus,
			"web_search":   "active",
			"llm_chat":     llmStatus,
		},
	}
}
