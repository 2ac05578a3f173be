package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Matcher  MatcherConfig  `yaml:"matcher"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Fallback FallbackConfig `yaml:"fallback"`
	Support  SupportConfig  `yaml:"support"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// MatcherConfig holds the question matcher scoring knobs.
type MatcherConfig struct {
	SimilarityWeight float64 `yaml:"similarityWeight"`
	OverlapWeight    float64 `yaml:"overlapWeight"`
	Threshold        float64 `yaml:"threshold"`
	Algorithm        string  `yaml:"algorithm"`
	Stemming         bool    `yaml:"stemming"`
}

// CatalogConfig selects where the FAQ catalog is loaded from. With neither a
// file path nor a Postgres DSN the built-in catalog is used.
type CatalogConfig struct {
	Path     string         `yaml:"path"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// FallbackConfig contains settings for the generative fallback. Without an
// API key the static canned reply is used.
type FallbackConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
}

// SupportConfig controls session memory and recommendations.
type SupportConfig struct {
	SessionTTL         time.Duration `yaml:"sessionTtl"`
	MaxRecentQuestions int           `yaml:"maxRecentQuestions"`
	TopRecommendations int           `yaml:"topRecommendations"`
}

// ValkeyConfig contains connection information for the session/trending store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("MATCHER_SIMILARITY_WEIGHT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matcher.SimilarityWeight = parsed
		}
	}
	if v := os.Getenv("MATCHER_OVERLAP_WEIGHT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matcher.OverlapWeight = parsed
		}
	}
	if v := os.Getenv("MATCHER_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Matcher.Threshold = parsed
		}
	}
	if v := os.Getenv("MATCHER_ALGORITHM"); v != "" {
		cfg.Matcher.Algorithm = v
	}
	if v := os.Getenv("MATCHER_STEMMING"); v != "" {
		cfg.Matcher.Stemming = isTruthy(v)
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_DSN"); v != "" {
		cfg.Catalog.Postgres.DSN = v
	}
	if v := os.Getenv("CATALOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CATALOG_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Catalog.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("FALLBACK_API_KEY"); v != "" {
		cfg.Fallback.APIKey = v
	}
	if v := os.Getenv("FALLBACK_BASE_URL"); v != "" {
		cfg.Fallback.BaseURL = v
	}
	if v := os.Getenv("FALLBACK_MODEL"); v != "" {
		cfg.Fallback.Model = v
	}
	if v := os.Getenv("FALLBACK_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Fallback.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("FALLBACK_PROMPT"); v != "" {
		cfg.Fallback.Prompt = v
	}
	if v := os.Getenv("SUPPORT_SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Support.SessionTTL = parsed
		}
	}
	if v := os.Getenv("SUPPORT_MAX_RECENT_QUESTIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Support.MaxRecentQuestions = parsed
		}
	}
	if v := os.Getenv("SUPPORT_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Support.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = isTruthy(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Matcher: MatcherConfig{
			SimilarityWeight: 0.6,
			OverlapWeight:    0.4,
			Threshold:        0.7,
			Algorithm:        "lcs",
			Stemming:         false,
		},
		Fallback: FallbackConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			Prompt:      "You are a courteous customer support assistant. The question was not found in the FAQ knowledge base; answer helpfully and concisely and point the user to support@company.com for anything account specific.",
		},
		Support: SupportConfig{
			SessionTTL:         30 * time.Minute,
			MaxRecentQuestions: 5,
			TopRecommendations: 5,
		},
		Valkey: ValkeyConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Matcher.SimilarityWeight < 0 || c.Matcher.OverlapWeight < 0 {
		return errors.New("matcher weights must be non-negative")
	}
	if c.Matcher.Threshold < 0 || c.Matcher.Threshold > 1 {
		return errors.New("matcher.threshold must be within [0,1]")
	}
	switch c.Matcher.Algorithm {
	case "", "lcs", "levenshtein", "jaro-winkler", "cosine":
	default:
		return fmt.Errorf("matcher.algorithm %q is not supported", c.Matcher.Algorithm)
	}
	if c.Fallback.Prompt == "" {
		return errors.New("fallback.prompt cannot be empty")
	}
	if c.Support.SessionTTL < 0 {
		return errors.New("support.sessionTtl cannot be negative")
	}
	if c.Support.TopRecommendations < 0 {
		return errors.New("support.topRecommendations cannot be negative")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when the valkey store is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
