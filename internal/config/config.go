package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string
	WebPort string
	Env     string

	// Backend the web UI asks its questions to
	BackendURL string

	// Database (optional, enables documentation retrieval)
	DatabaseURL   string
	MigrationsDir string

	// Redis (optional, enables the answer cache)
	RedisURL       string
	AnswerCacheTTL time.Duration

	// Gemini AI (optional, echo tutor without a key)
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int

	// Web UI
	SessionIdleTTL time.Duration

	// API
	ChatRateLimit int

	// Ingestion
	IngestWorkers int

	// Frontend origin allowed by CORS
	FrontendURL string

	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8000"),
		WebPort:              getEnvOrDefault("WEB_PORT", "3000"),
		Env:                  getEnvOrDefault("ENV", "development"),
		BackendURL:           getEnvOrDefault("BACKEND_URL", "http://localhost:8000"),
		DatabaseURL:          getEnvOrDefault("DATABASE_URL", ""),
		MigrationsDir:        getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		AnswerCacheTTL:       getEnvAsDurationOrDefault("ANSWER_CACHE_TTL", time.Hour),
		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		SessionIdleTTL:       getEnvAsDurationOrDefault("SESSION_IDLE_TTL", 30*time.Minute),
		ChatRateLimit:        getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		IngestWorkers:        getEnvAsIntOrDefault("INGEST_WORKERS", 4),
		FrontendURL:          getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
