package config

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"API_PORT", "API_KEY", "LOG_LEVEL", "LOG_FORMAT",
	"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "LLM_MODEL", "FILTER_MODEL",
	"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL",
	"EMBED_MODEL", "EMBED_DIMENSIONS",
	"QDRANT_URL", "QDRANT_API_KEY", "QDRANT_COLLECTION", "SIMILARITY_TOP_K",
	"REDIS_URL", "CACHE_NAMESPACE", "CACHE_TTL_SECONDS",
	"PERPLEXITY_API_KEY", "PERPLEXITY_MODEL", "PERPLEXITY_BASE_URL", "WEB_SEARCH_SCORE_THRESHOLD",
	"FILTER_TIMEOUT", "SEARCH_TIMEOUT", "SYNTH_TIMEOUT",
	"DATA_DIR", "DB_PATH", "PROCESSED_DIR", "MANIFEST_PATH",
}

// isolateEnv clears every config variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	t.Cleanup(func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8000" &&
					cfg.APIKey == "" &&
					cfg.LLMProvider == ProviderOpenAI &&
					cfg.LLMModel == "gpt-4o" &&
					cfg.FilterModel == "gpt-4o" &&
					cfg.EmbedModel == "text-embedding-3-large" &&
					cfg.EmbedDimensions == 3072 &&
					cfg.QdrantCollection == "plc_books" &&
					cfg.SimilarityTopK == 5 &&
					cfg.CacheNamespace == "plc_kb" &&
					cfg.CacheTTL == 86400*time.Second &&
					cfg.WebScoreThreshold == 0.65 &&
					cfg.FilterTimeout == 10*time.Second &&
					cfg.SynthTimeout == 60*time.Second &&
					cfg.PerplexityModel == "llama-3.1-sonar-large-128k-online"
			},
		},
		{
			name: "overrides",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("API_PORT", "9001")
				setEnv("LLM_MODEL", "gpt-4o-mini")
				setEnv("SIMILARITY_TOP_K", "8")
				setEnv("CACHE_TTL_SECONDS", "60")
				setEnv("WEB_SEARCH_SCORE_THRESHOLD", "0.5")
				setEnv("FILTER_TIMEOUT", "3s")
				setEnv("SEARCH_TIMEOUT", "7")
				setEnv("OPENAI_BASE_URL", "http://localhost:8080/")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9001" &&
					cfg.LLMModel == "gpt-4o-mini" &&
					cfg.FilterModel == "gpt-4o-mini" &&
					cfg.SimilarityTopK == 8 &&
					cfg.CacheTTL == time.Minute &&
					cfg.WebScoreThreshold == 0.5 &&
					cfg.FilterTimeout == 3*time.Second &&
					cfg.SearchTimeout == 7*time.Second &&
					cfg.OpenAIBaseURL == "http://localhost:8080"
			},
		},
		{
			name: "invalid EMBED_DIMENSIONS",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("EMBED_DIMENSIONS", "invalid")
			},
			wantErr: true,
		},
		{
			name: "zero EMBED_DIMENSIONS",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("EMBED_DIMENSIONS", "0")
			},
			wantErr: true,
		},
		{
			name: "zero SIMILARITY_TOP_K",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("SIMILARITY_TOP_K", "0")
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("WEB_SEARCH_SCORE_THRESHOLD", "1.5")
			},
			wantErr: true,
		},
		{
			name: "invalid timeout",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("SYNTH_TIMEOUT", "soon")
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			setupEnv: func(t *testing.T) {
				setEnv("DATA_DIR", t.TempDir())
				setEnv("LLM_PROVIDER", "llamafile")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config check failed: %+v", cfg)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "openai with key", cfg: Config{LLMProvider: ProviderOpenAI, OpenAIAPIKey: "sk"}},
		{name: "missing openai key", cfg: Config{LLMProvider: ProviderOpenAI}, wantErr: true},
		{name: "anthropic without key", cfg: Config{LLMProvider: ProviderAnthropic, OpenAIAPIKey: "sk"}, wantErr: true},
		{name: "anthropic with keys", cfg: Config{LLMProvider: ProviderAnthropic, OpenAIAPIKey: "sk", AnthropicAPIKey: "ak"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SynthesisModel(t *testing.T) {
	cfg := Config{LLMProvider: ProviderOpenAI, LLMModel: "gpt-4o", AnthropicModel: "claude"}
	if got := cfg.SynthesisModel(); got != "gpt-4o" {
		t.Errorf("SynthesisModel() = %v, want gpt-4o", got)
	}
	cfg.LLMProvider = ProviderAnthropic
	if got := cfg.SynthesisModel(); got != "claude" {
		t.Errorf("SynthesisModel() = %v, want claude", got)
	}
}

func TestConfig_WebEnabled(t *testing.T) {
	if (&Config{}).WebEnabled() {
		t.Error("WebEnabled() = true without a key")
	}
	if !(&Config{PerplexityAPIKey: "pk"}).WebEnabled() {
		t.Error("WebEnabled() = false with a key")
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		if got := cfg.SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
