package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGenerativeAI = "generative-ai"
	BackendGenAI        = "genai"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBackend        string
	GeminiTemperature    float64
	GeminiConcurrentReqs int

	// Conversation store (optional)
	RedisURL        string
	ConversationTTL time.Duration

	// Business facts
	BusinessFactsFile string

	// HTTP
	FrontendURLs  []string
	ChatRateLimit int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from the environment. A missing Gemini key is not
// an error here; the chat endpoint reports it per request.
func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                 getEnvOrDefault("PORT", "8080"),
		Env:                  getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:         firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:          getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBackend:        strings.ToLower(getEnvOrDefault("GEMINI_BACKEND", BackendGenerativeAI)),
		GeminiTemperature:    getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", 0.7),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		RedisURL:             getEnvOrDefault("REDIS_URL", ""),
		ConversationTTL:      getEnvAsDurationOrDefault("CONVERSATION_TTL", 24*time.Hour),
		BusinessFactsFile:    getEnvOrDefault("BUSINESS_FACTS_FILE", ""),
		FrontendURLs:         getEnvAsListOrDefault("FRONTEND_URL", []string{"http://localhost:3000"}),
		ChatRateLimit:        getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 0),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "text"),
		LogFile:              getEnvOrDefault("LOG_FILE", ""),
	}

	return cfg
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
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

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
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

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
