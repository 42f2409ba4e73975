package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	State     StateConfig
	Keys      APIKeys
	Ai        AIConfig
	Msal      MsalConfig
	Knowledge KnowledgeConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

// StateConfig selects the durable backend holding the single application
// state key. "memory" keeps everything in-process (dev and tests).
type StateConfig struct {
	Backend            string // "redis" | "postgres" | "memory"
	Key                string
	RedisURL           string
	PostgresConnection string
}

type APIKeys struct {
	GoogleGemini string
	JwtSecret    string
}

type AIConfig struct {
	Provider      string // "gemini" | "ollama"
	Model         string // fallback when a container has no selection
	NamingModel   string // cheap model used for conversation titles
	OllamaBaseURL string
}

// MsalConfig drives the client-credentials token source for the document
// source (Microsoft Graph).
type MsalConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

type KnowledgeConfig struct {
	// EndpointURL is where the short-circuit resolver sends its queries.
	// Usually this service's own /api/knowledge.
	EndpointURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		State: StateConfig{
			Backend:            getEnv("STATE_BACKEND", "memory"),
			Key:                getEnv("STATE_KEY", "appState"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			PostgresConnection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "gemini"),
			Model:         getEnv("LLM_MODEL", "gemini-2.5-flash"),
			NamingModel:   getEnv("LLM_NAMING_MODEL", "gemini-2.5-flash"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Msal: MsalConfig{
			ClientID:     getEnv("MSAL_CLIENT_ID", ""),
			ClientSecret: getEnv("MSAL_CLIENT_SECRET", ""),
			TenantID:     getEnv("MSAL_TENANT_ID", ""),
		},
		Knowledge: KnowledgeConfig{
			EndpointURL: getEnv("KNOWLEDGE_ENDPOINT_URL", "http://localhost:3000/api/knowledge"),
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
