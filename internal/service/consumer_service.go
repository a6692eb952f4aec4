package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"wiki-chat-be/internal/dto"
	"wiki-chat-be/pkg/vector"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	index     vector.Index
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	index vector.Index,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		index:     index,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // invalid payloads would retry forever otherwise
		return
	}

	log.Printf("[INFO] Ingesting document %q (%d chunks)", payload.Title, len(payload.Chunks))

	chunks := make([]vector.Chunk, 0, len(payload.Chunks))
	for i, content := range payload.Chunks {
		chunks = append(chunks, vector.Chunk{
			DocumentTitle: payload.Title,
			SourceURL:     payload.URL,
			Index:         i,
			Content:       content,
		})
	}

	if err := cs.index.StoreChunks(ctx, chunks); err != nil {
		log.Printf("[ERROR] Failed to store chunks for %q: %v", payload.Title, err)
		msg.Nack() // retriable: embedding backend or store may be down
		return
	}

	log.Printf("[SUCCESS] Document ingested: %d chunks for %q", len(chunks), payload.Title)
	msg.Ack()
}
