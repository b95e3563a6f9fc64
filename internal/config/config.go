package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Provider credentials. Empty means the provider is not configured.
	GroqAPIKey   string
	OpenAIAPIKey string
	CohereAPIKey string
	GeminiAPIKey string

	// Provider timeouts
	ProbeTimeout time.Duration
	QueryTimeout time.Duration

	// Redis (optional, shared rate limiting)
	RedisURL string

	// Chat rate limit per client per minute
	ChatRequestsPerMin int

	// Portal JWT (optional)
	JWTSecret string

	// Frontend
	FrontendURL string

	// Honor X-Forwarded-For / X-Real-IP. Only safe behind a proxy that overwrites them.
	TrustProxy bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8000"),
		Env:                getEnvOrDefault("ENV", "development"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		CohereAPIKey:       os.Getenv("COHERE_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		ProbeTimeout:       getEnvAsSecondsOrDefault("PROBE_TIMEOUT_SECONDS", 10),
		QueryTimeout:       getEnvAsSecondsOrDefault("QUERY_TIMEOUT_SECONDS", 30),
		RedisURL:           os.Getenv("REDIS_URL"),
		ChatRequestsPerMin: getEnvAsIntOrDefault("CHAT_REQUESTS_PER_MINUTE", 30),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "*"),
		TrustProxy:         getEnvAsBoolOrDefault("TRUST_PROXY", false),
	}

	return cfg
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

// getEnvAsSecondsOrDefault reads a whole number of seconds. Non-positive values fall back to the default.
func getEnvAsSecondsOrDefault(key string, defaultSecs int) time.Duration {
	n := getEnvAsIntOrDefault(key, defaultSecs)
	if n <= 0 {
		n = defaultSecs
	}
	return time.Duration(n) * time.Second
}

func getEnvAsBoolOrDefault(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}
