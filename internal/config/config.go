package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Cascade  CascadeConfig
	Search   SearchConfig
	Vector   VectorConfig
	Ai       AIConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	OtelEnabled        bool
	IngestTopicName    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type CascadeConfig struct {
	ScoreThreshold  float64
	HistoryWindow   int
	SessionTTLMin   int
	DeadlineSeconds int // 0 disables the per-request deadline
}

type SearchConfig struct {
	WikipediaEnabled        bool
	WebSearchEnabled        bool
	WikipediaTimeoutSeconds int
	WebSearchTimeoutSeconds int
	FetchTimeoutSeconds     int
}

type VectorConfig struct {
	Provider    string // "chromem" or "pgvector"
	PersistPath string
	Collection  string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "gemini"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			IngestTopicName:    getEnv("INGEST_TOPIC_NAME", "INGEST_WIKI_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "wiki_chat"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Cascade: CascadeConfig{
			ScoreThreshold:  getEnvAsFloat("RAG_SCORE_THRESHOLD", 0.3),
			HistoryWindow:   getEnvAsInt("SESSION_HISTORY_WINDOW", 5),
			SessionTTLMin:   getEnvAsInt("SESSION_TTL_MINUTES", 60),
			DeadlineSeconds: getEnvAsInt("CASCADE_DEADLINE_SECONDS", 0),
		},
		Search: SearchConfig{
			WikipediaEnabled:        getEnvAsBool("WIKIPEDIA_ENABLED", true),
			WebSearchEnabled:        getEnvAsBool("WEBSEARCH_ENABLED", true),
			WikipediaTimeoutSeconds: getEnvAsInt("WIKIPEDIA_TIMEOUT_SECONDS", 5),
			WebSearchTimeoutSeconds: getEnvAsInt("WEBSEARCH_TIMEOUT_SECONDS", 8),
			FetchTimeoutSeconds:     getEnvAsInt("FETCH_TIMEOUT_SECONDS", 10),
		},
		Vector: VectorConfig{
			Provider:    getEnv("VECTOR_PROVIDER", "chromem"),
			PersistPath: getEnv("VECTOR_PERSIST_PATH", ""),
			Collection:  getEnv("VECTOR_COLLECTION", "knowledge"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
