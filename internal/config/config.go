package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported synthesis providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	APIKey    string
	LogLevel  string
	LogFormat string

	LLMProvider   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	LLMModel      string
	FilterModel   string

	AnthropicAPIKey string
	AnthropicModel  string

	EmbedModel      string
	EmbedDimensions int

	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string
	SimilarityTopK   int

	RedisURL       string
	CacheNamespace string
	CacheTTL       time.Duration

	PerplexityAPIKey  string
	PerplexityModel   string
	PerplexityBaseURL string
	WebScoreThreshold float64

	FilterTimeout time.Duration
	SearchTimeout time.Duration
	SynthTimeout  time.Duration

	DataDir      string
	DBPath       string
	ProcessedDir string
	ManifestPath string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the values that are set.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
//
// Credentials are not required here so that the health endpoint can always
// come up; call Validate before serving queries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	llmModel := getEnv("LLM_MODEL", "gpt-4o")
	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		APIPort:   getEnv("API_PORT", "8000"),
		APIKey:    os.Getenv("API_KEY"),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		LLMProvider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com"), "/"),
		LLMModel:      llmModel,
		FilterModel:   getEnv("FILTER_MODEL", llmModel),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),

		EmbedModel: getEnv("EMBED_MODEL", "text-embedding-3-large"),

		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "plc_books"),

		RedisURL:       os.Getenv("REDIS_URL"),
		CacheNamespace: getEnv("CACHE_NAMESPACE", "plc_kb"),

		PerplexityAPIKey:  os.Getenv("PERPLEXITY_API_KEY"),
		PerplexityModel:   getEnv("PERPLEXITY_MODEL", "llama-3.1-sonar-large-128k-online"),
		PerplexityBaseURL: strings.TrimRight(getEnv("PERPLEXITY_BASE_URL", "https://api.perplexity.ai"), "/"),

		DataDir:      dataDir,
		DBPath:       getEnv("DB_PATH", filepath.Join(dataDir, "plc-kb.db")),
		ProcessedDir: getEnv("PROCESSED_DIR", filepath.Join(dataDir, "processed")),
		ManifestPath: os.Getenv("MANIFEST_PATH"),
	}

	if cfg.EmbedDimensions, err = getInt("EMBED_DIMENSIONS", 3072); err != nil {
		return nil, err
	}
	if cfg.EmbedDimensions <= 0 {
		return nil, fmt.Errorf("EMBED_DIMENSIONS must be greater than 0")
	}

	if cfg.SimilarityTopK, err = getInt("SIMILARITY_TOP_K", 5); err != nil {
		return nil, err
	}
	if cfg.SimilarityTopK < 1 {
		return nil, fmt.Errorf("SIMILARITY_TOP_K must be at least 1")
	}

	ttlSeconds, err := getInt("CACHE_TTL_SECONDS", 86400)
	if err != nil {
		return nil, err
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be greater than 0")
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	thresholdStr := getEnv("WEB_SEARCH_SCORE_THRESHOLD", "0.65")
	cfg.WebScoreThreshold, err = strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return nil, fmt.Errorf("WEB_SEARCH_SCORE_THRESHOLD must be a valid number: %w", err)
	}
	if cfg.WebScoreThreshold < 0 || cfg.WebScoreThreshold > 1 {
		return nil, fmt.Errorf("WEB_SEARCH_SCORE_THRESHOLD must be between 0 and 1")
	}

	if cfg.FilterTimeout, err = getDuration("FILTER_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout, err = getDuration("SEARCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SynthTimeout, err = getDuration("SYNTH_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderAnthropic, cfg.LLMProvider)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// Validate checks the credentials the query path cannot run without.
// Embeddings and filter extraction always go through the OpenAI-compatible API.
func (c *Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.LLMProvider == ProviderAnthropic && c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
	}
	return nil
}

// SynthesisModel returns the model identifier used for answer synthesis.
// It is part of the cache fingerprint.
func (c *Config) SynthesisModel() string {
	if c.LLMProvider == ProviderAnthropic {
		return c.AnthropicModel
	}
	return c.LLMModel
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WebEnabled reports whether a web search provider is configured.
func (c *Config) WebEnabled() bool {
	return c.PerplexityAPIKey != ""
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

// getDuration accepts Go duration strings ("15s") or a bare number of seconds.
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%s must be greater than 0", key)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return d, nil
}
