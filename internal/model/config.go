package model

import "time"

// Config is the full service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Cache       CacheConfig       `yaml:"cache"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	Store       StoreConfig       `yaml:"store"`
	Server      ServerConfig      `yaml:"server"`
	LLM         LLMConfig         `yaml:"llm"`
}

// HTTPConfig controls the Fetcher's HTTP behavior.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
	RespectRobots bool          `yaml:"respect_robots"`
	RatePerDomain float64       `yaml:"rate_per_domain"` // requests/sec
	RateBurst     int           `yaml:"rate_burst"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty"`
	InsecureTLS   bool          `yaml:"insecure_tls"`
}

// ConcurrencyConfig caps parallel work per pipeline stage.
type ConcurrencyConfig struct {
	FetchWorkers   int `yaml:"fetch_workers"`
	ProcessWorkers int `yaml:"process_workers"`
}

// CacheConfig controls the fetch-result cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// AnalysisConfig holds tunables for the NLP and timeline stages.
type AnalysisConfig struct {
	MaxKeywords      int           `yaml:"max_keywords"`
	MinBodyLength    int           `yaml:"min_body_length"`
	DiffThreshold    float64       `yaml:"diff_threshold"`     // paragraph-match cosine cutoff
	EventWindow      time.Duration `yaml:"event_window"`       // date bucket size
	MinEntityOverlap int           `yaml:"min_entity_overlap"` // shared entities needed to merge a same-day event
}

// StoreConfig selects and configures the Analysis Store backend.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`    // sqlite file path
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

// LLMConfig configures the optional event-summary enrichment.
// Disabled unless a provider is set; never affects grouping or scores.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "" (disabled) or "openai"
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // from environment only
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "NewsLens/1.0 (+https://github.com/worawit/newslens)",
			MaxBodyBytes:  4_000_000,
			MaxRetries:    3,
			RetryDelay:    500 * time.Millisecond,
			RespectRobots: true,
			RatePerDomain: 2.0,
			RateBurst:     4,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers:   16,
			ProcessWorkers: 8,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Analysis: AnalysisConfig{
			MaxKeywords:      15,
			MinBodyLength:    100,
			DiffThreshold:    0.3,
			EventWindow:      24 * time.Hour,
			MinEntityOverlap: 1,
		},
		Store: StoreConfig{
			Backend: "memory",
			Path:    "newslens.db",
		},
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}
