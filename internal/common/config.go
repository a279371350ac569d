package common

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Queue       QueueConfig       `toml:"queue"`
	Storage     StorageConfig     `toml:"storage"`
	Chunking    ChunkingConfig    `toml:"chunking"`
	Search      SearchConfig      `toml:"search"`
	Crawler     CrawlerConfig     `toml:"crawler"`
	Providers   ProviderDirConfig `toml:"providers"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
	Logging     LoggingConfig     `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gte=0,lte=65535"`
	Host string `toml:"host"`
}

// QueueConfig controls the knowledge queue scheduler.
type QueueConfig struct {
	GlobalConcurrency    int    `toml:"global_concurrency"`    // Max parallel jobs across all bases
	PerBaseConcurrency   int    `toml:"per_base_concurrency"`  // Max parallel jobs per base
	IOConcurrency        int    `toml:"io_concurrency"`        // Pool size for the read stage
	EmbeddingConcurrency int    `toml:"embedding_concurrency"` // Pool size for the embed stage
	WriteConcurrency     int    `toml:"write_concurrency"`     // Pool size for the write stage
	MaxQueueSize         int    `toml:"max_queue_size"`        // 0 = unbounded
	ProgressThrottle     string `toml:"progress_throttle"`     // e.g. "500ms" - coalescing window for progress
	ProgressTTL          string `toml:"progress_ttl"`          // e.g. "10m" - stale-progress expiry
}

// ProgressThrottleDuration parses the progress throttle window.
func (q QueueConfig) ProgressThrottleDuration() time.Duration {
	return parseDurationOr(q.ProgressThrottle, 500*time.Millisecond)
}

// ProgressTTLDuration parses the stale-progress expiry.
func (q QueueConfig) ProgressTTLDuration() time.Duration {
	return parseDurationOr(q.ProgressTTL, 10*time.Minute)
}

type StorageConfig struct {
	// KnowledgeStoreRoot is the directory holding one vector database per base.
	KnowledgeStoreRoot string `toml:"knowledge_store_root"`
}

// ChunkingConfig holds text splitter defaults applied when a base omits them.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size" validate:"gte=0"`
	ChunkOverlap int `toml:"chunk_overlap" validate:"gte=0"`
}

// SearchConfig contains retrieval defaults.
type SearchConfig struct {
	DocumentCount int     `toml:"document_count"` // Default topK for queries
	DefaultAlpha  float64 `toml:"default_alpha"`  // Hybrid mix: alpha*vector + (1-alpha)*bm25
}

// CrawlerConfig controls the URL and sitemap readers.
type CrawlerConfig struct {
	UserAgent          string        `toml:"user_agent"`
	RequestTimeout     time.Duration `toml:"request_timeout"`      // HTTP request timeout
	RequestsPerSecond  float64       `toml:"requests_per_second"`  // Per-host fetch rate
	SitemapTimeout     time.Duration `toml:"sitemap_timeout"`      // Timeout for the sitemap fetch itself
	SitemapConcurrency int           `toml:"sitemap_concurrency"`  // Parallel page fetches per sitemap
	RenderJavaScript   bool          `toml:"render_javascript"`    // Render pages with headless Chrome before parsing
	JavaScriptWaitTime time.Duration `toml:"javascript_wait_time"` // Time to wait for JS to settle
}

// ProviderDirConfig locates provider descriptor files (./providers/*.toml).
type ProviderDirConfig struct {
	Dir string `toml:"dir"`
}

// MaintenanceConfig controls periodic store maintenance.
type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// DefaultConfig returns the configuration defaults applied before any file overlay.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Queue: QueueConfig{
			GlobalConcurrency:    1,
			PerBaseConcurrency:   1,
			IOConcurrency:        1,
			EmbeddingConcurrency: 1,
			WriteConcurrency:     1,
			MaxQueueSize:         0,
			ProgressThrottle:     "500ms",
			ProgressTTL:          "10m",
		},
		Storage: StorageConfig{
			KnowledgeStoreRoot: "./data/knowledge",
		},
		Chunking: ChunkingConfig{
			ChunkSize:    1024,
			ChunkOverlap: 20,
		},
		Search: SearchConfig{
			DocumentCount: 6,
			DefaultAlpha:  0.5,
		},
		Crawler: CrawlerConfig{
			UserAgent:          "noesis/" + Version,
			RequestTimeout:     30 * time.Second,
			RequestsPerSecond:  4,
			SitemapTimeout:     30 * time.Second,
			SitemapConcurrency: 5,
			RenderJavaScript:   false,
			JavaScriptWaitTime: 3 * time.Second,
		},
		Providers: ProviderDirConfig{
			Dir: "./providers",
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "@every 1h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing path
// returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks structural constraints and normalizes out-of-range values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Search.DefaultAlpha < 0 {
		c.Search.DefaultAlpha = 0
	}
	if c.Search.DefaultAlpha > 1 {
		c.Search.DefaultAlpha = 1
	}
	if c.Search.DocumentCount <= 0 {
		c.Search.DocumentCount = 6
	}
	if c.Chunking.ChunkSize <= 0 {
		c.Chunking.ChunkSize = 1024
	}

	return nil
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
