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
	Ai       AIConfig
	Search   SearchConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "jina"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	OllamaLLMModel    string
	JinaApiKey        string
	RepairTopic       string
}

type SearchConfig struct {
	NoteLimit      int // top-K for the note-level similarity search
	ContentLimit   int // top-K for the content-level search; larger because many items map to few notes
	DebounceMillis int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/webnotes.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "mxbai-embed-large"),
			OllamaLLMModel:    getEnv("OLLAMA_LLM_MODEL", "llama3"),
			JinaApiKey:        getEnv("JINA_API_KEY", ""),
			RepairTopic:       getEnv("EMBED_REPAIR_TOPIC_NAME", "EMBED_REPAIR"),
		},
		Search: SearchConfig{
			NoteLimit:      getEnvAsInt("SEARCH_NOTE_LIMIT", 20),
			ContentLimit:   getEnvAsInt("SEARCH_CONTENT_LIMIT", 50),
			DebounceMillis: getEnvAsInt("SEARCH_DEBOUNCE_MS", 500),
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
