package infra

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	PostgresURL string
	FrontendURL string

	JWTSecret string
	JWTTTL    time.Duration

	LLMProvider          string // openai | gemini
	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIEmbeddingModel string
	OpenAIBaseURL        string
	GeminiAPIKey         string
	GeminiModel          string

	KakaoClientID     string
	KakaoClientSecret string
	KakaoRedirectURI  string

	RateLimitPerMinute     int
	ChatPromptTTL          time.Duration
	FaqSimilarityThreshold float64
}

// LoadConfig reads the environment, loading .env first when present.
func LoadConfig() (*Config, error) {
	cfg := readConfig()
	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	switch cfg.LLMProvider {
	case "openai", "gemini":
	default:
		return nil, errors.New("LLM_PROVIDER must be 'openai' or 'gemini'")
	}
	return cfg, nil
}

// LoadDatabaseConfig is the subset the admin CLI needs: only the database
// URL is mandatory.
func LoadDatabaseConfig() (*Config, error) {
	cfg := readConfig()
	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL is required")
	}
	return cfg, nil
}

func readConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		Env:         getEnvWithDefault("APP_ENV", "development"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		FrontendURL: getEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    time.Duration(getEnvInt("JWT_TTL_MINUTES", 60)) * time.Minute,

		LLMProvider:          strings.ToLower(getEnvWithDefault("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnvWithDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		OpenAIBaseURL:        os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiModel:          getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		KakaoClientID:     os.Getenv("KAKAO_CLIENT_ID"),
		KakaoClientSecret: os.Getenv("KAKAO_CLIENT_SECRET"),
		KakaoRedirectURI:  os.Getenv("KAKAO_REDIRECT_URI"),

		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		ChatPromptTTL:          time.Duration(getEnvInt("CHAT_PROMPT_TTL_SECONDS", 300)) * time.Second,
		FaqSimilarityThreshold: getEnvFloat("FAQ_SIMILARITY_THRESHOLD", 0.85),
	}
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && v > 0 {
		return v
	}
	return defaultValue
}
