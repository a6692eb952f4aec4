package bootstrap

import (
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"wiki-chat-be/internal/config"
	"wiki-chat-be/internal/controller"
	"wiki-chat-be/internal/pkg/logger"
	"wiki-chat-be/internal/repository/memory"
	"wiki-chat-be/internal/service"
	"wiki-chat-be/pkg/cascade"
	"wiki-chat-be/pkg/database"
	"wiki-chat-be/pkg/embedding"
	"wiki-chat-be/pkg/llm/factory"
	"wiki-chat-be/pkg/retrieval"
	"wiki-chat-be/pkg/retrieval/websearch"
	"wiki-chat-be/pkg/retrieval/wikipedia"
	"wiki-chat-be/pkg/vector"
	chromemstore "wiki-chat-be/pkg/vector/chromem"
	pgvectorstore "wiki-chat-be/pkg/vector/pgvector"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Vector Index
	var index vector.Index
	if cfg.Vector.Provider == "pgvector" {
		db, err := database.NewGormDB(database.GormConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		index, err = pgvectorstore.New(db, embeddingProvider)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize pgvector store: %v", err)
		}
		log.Printf("[INFO] Using Vector Store: PGVECTOR (%s)", cfg.Database.Name)
	} else {
		index, err = chromemstore.New(cfg.Vector.PersistPath, cfg.Vector.Collection, embeddingProvider)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize chromem store: %v", err)
		}
		log.Printf("[INFO] Using Vector Store: CHROMEM (%s)", cfg.Vector.Collection)
	}

	// 5. Web Search Aggregator
	aggregator := retrieval.NewAggregator(log.Default())
	if cfg.Search.WikipediaEnabled {
		aggregator.Register(
			wikipedia.New(log.Default()),
			time.Duration(cfg.Search.WikipediaTimeoutSeconds)*time.Second,
		)
	}
	if cfg.Search.WebSearchEnabled {
		aggregator.Register(
			websearch.New(websearch.Config{
				SearchTime: time.Duration(cfg.Search.WebSearchTimeoutSeconds) * time.Second,
				FetchTime:  time.Duration(cfg.Search.FetchTimeoutSeconds) * time.Second,
			}, log.Default()),
			time.Duration(cfg.Search.WebSearchTimeoutSeconds+cfg.Search.FetchTimeoutSeconds)*time.Second,
		)
	}

	// 6. Sessions and Cascade
	sessionRepo := memory.NewSessionRepository(
		cfg.Cascade.HistoryWindow,
		time.Duration(cfg.Cascade.SessionTTLMin)*time.Minute,
	)

	orchestrator := cascade.NewOrchestrator(
		index,
		aggregator,
		sessionRepo,
		llmProvider,
		cfg.Cascade.ScoreThreshold,
		log.Default(),
	)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.IngestTopicName, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.IngestTopicName, index)
	chatService := service.NewChatService(
		orchestrator,
		sessionRepo,
		time.Duration(cfg.Cascade.DeadlineSeconds)*time.Second,
	)
	knowledgeService := service.NewKnowledgeService(index, publisherService, llmProvider != nil)

	return &Container{
		ChatController:      controller.NewChatController(chatService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ConsumerService:     consumerService,
		Logger:              sysLogger,
	}
}
