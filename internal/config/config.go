package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Guardrail GuardrailConfig
	Session   SessionConfig
	Events    EventsConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Name               string
	Version            string
	Port               string
	Environment        string
	LogFilePath        string
	AiLogFilePath      string
	CorsAllowedOrigins string
	BodyLimitMB        int
}

type DatabaseConfig struct {
	Driver     string // "sqlite" or "postgres"
	Path       string // sqlite file path
	Connection string // postgres DSN
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider      string // "openai", "ollama", "huggingface"
	LLMModel         string
	OpenAIBaseURL    string
	OllamaBaseURL    string
	VisionProvider   string // "openai" or "gemini"
	VisionModel      string
	VisionTimeout    time.Duration
	ChatTimeout      time.Duration
	ChatMaxTokens    int
	ChatHistoryLimit int
}

type GuardrailConfig struct {
	Provider  string // "heuristic", "huggingface", "gcp"
	Threshold float64
}

type SessionConfig struct {
	Store    string // "memory" or "redis"
	TTL      time.Duration
	RedisURL string
}

type EventsConfig struct {
	Topic             string
	NatsURL           string
	NotificationLimit int
}

type TracingConfig struct {
	Enabled      bool
	OtlpEndpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Name:               getEnv("APP_NAME", "smart-fridge-be"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			AiLogFilePath:      getEnv("AI_LOG_FILE_PATH", "logs/ai_calls.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:       getEnv("FRIDGE_DB_PATH", "fridge.db"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_TOKEN", ""),
		},
		Ai: AIConfig{
			LLMProvider:      getEnv("LLM_PROVIDER", "openai"),
			LLMModel:         getEnv("LLM_MODEL", "gpt-4-turbo-preview"),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			VisionProvider:   getEnv("VISION_PROVIDER", "openai"),
			VisionModel:      getEnv("VISION_MODEL", ""),
			VisionTimeout:    getEnvAsDuration("VISION_TIMEOUT", 30*time.Second),
			ChatTimeout:      getEnvAsDuration("CHAT_TIMEOUT", 60*time.Second),
			ChatMaxTokens:    getEnvAsInt("CHAT_MAX_TOKENS", 500),
			ChatHistoryLimit: getEnvAsInt("CHAT_HISTORY_LIMIT", 10),
		},
		Guardrail: GuardrailConfig{
			Provider:  getEnv("GUARDRAIL_PROVIDER", "heuristic"),
			Threshold: getEnvAsFloat("GUARDRAIL_THRESHOLD", 0.3),
		},
		Session: SessionConfig{
			Store:    getEnv("SESSION_STORE", "memory"),
			TTL:      getEnvAsDuration("SESSION_TTL", 0),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Events: EventsConfig{
			Topic:             getEnv("EVENTS_TOPIC", "fridge.events"),
			NatsURL:           getEnv("NATS_URL", ""),
			NotificationLimit: getEnvAsInt("NOTIFICATION_LIMIT", 50),
		},
		Tracing: TracingConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OtlpEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
