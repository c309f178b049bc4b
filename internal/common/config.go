package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Generator   GeneratorConfig  `toml:"generator"`
	Images      ImagesConfig     `toml:"images"`
	ImageSearch ImageSearchConfig `toml:"image_search"`
	Storage     StorageConfig    `toml:"storage"`
	Sessions    SessionsConfig   `toml:"sessions"`
	Export      ExportConfig     `toml:"export"`
	Themes      ThemesConfig     `toml:"themes"`
	Scrape      ScrapeConfig     `toml:"scrape"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// GeneratorProvider represents the AI provider used for slide generation
type GeneratorProvider string

const (
	// GeneratorProviderGemini uses Google Gemini API (text and audio sources)
	GeneratorProviderGemini GeneratorProvider = "gemini"
	// GeneratorProviderClaude uses Anthropic Claude API (text sources only)
	GeneratorProviderClaude GeneratorProvider = "claude"
)

// GeneratorConfig contains configuration for the slide generation providers
type GeneratorConfig struct {
	Provider        GeneratorProvider `toml:"provider"`          // "gemini" (default) or "claude"
	GoogleAPIKey    string            `toml:"google_api_key"`    // Google Gemini API key
	AnthropicAPIKey string            `toml:"anthropic_api_key"` // Anthropic API key (claude provider)
	GeminiModel     string            `toml:"gemini_model"`      // default: "gemini-2.5-flash"
	ClaudeModel     string            `toml:"claude_model"`      // default: "claude-haiku-3-5-20241022"
	Timeout         string            `toml:"timeout"`           // operation timeout, duration string (default: "5m")
	RateLimit       string            `toml:"rate_limit"`        // min interval between requests (default: "4s")
	Temperature     float32           `toml:"temperature"`       // completion temperature (default: 0.4)
	MaxSlides       int               `toml:"max_slides"`        // upper bound on requested slide count (default: 40)
}

// ImagesConfig contains configuration for cover image generation (Imagen)
type ImagesConfig struct {
	Enabled     bool   `toml:"enabled"`      // generate cover images after content generation (default: true)
	Model       string `toml:"model"`        // default: "imagen-3.0-generate-002"
	Timeout     string `toml:"timeout"`      // per-image timeout (default: "60s")
	RateLimit   string `toml:"rate_limit"`   // min interval between image requests (default: "1s")
	AspectRatio string `toml:"aspect_ratio"` // default: "16:9"
}

// ImageSearchConfig contains configuration for the Pexels photo search boundary
type ImageSearchConfig struct {
	PexelsAPIKey string `toml:"pexels_api_key"` // Pexels API key; empty disables search
	PerPage      int    `toml:"per_page"`       // results per search (default: 24)
	Timeout      string `toml:"timeout"`        // HTTP timeout (default: "15s")
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration for the image cache
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// SessionsConfig governs the lifetime of in-memory editing sessions
type SessionsConfig struct {
	TTL           string `toml:"ttl"`            // idle session eviction threshold (default: "4h")
	SweepSchedule string `toml:"sweep_schedule"` // cron schedule for the janitor (default: "@every 15m")
}

// ExportConfig contains export engine configuration
type ExportConfig struct {
	WorkDir         string `toml:"work_dir"`         // temp directory for export artifacts
	PageWidth       int    `toml:"page_width"`       // raster width in px (default: 1920)
	PageHeight      int    `toml:"page_height"`      // raster height in px (default: 1080)
	ChromeTimeout   string `toml:"chrome_timeout"`   // per-slide raster timeout (default: "30s")
	CleanupSchedule string `toml:"cleanup_schedule"` // cron schedule for stale artifact cleanup
	MaxArtifactAge  string `toml:"max_artifact_age"` // artifacts older than this are removed (default: "2h")
}

// ThemesConfig contains deck theme configuration
type ThemesConfig struct {
	Dir     string `toml:"dir"`     // directory containing theme YAML files
	Default string `toml:"default"` // theme name used when the request names none (default: "midnight")
}

// ScrapeConfig governs web page source ingestion
type ScrapeConfig struct {
	UserAgent   string `toml:"user_agent"`
	Timeout     string `toml:"timeout"`       // HTTP request timeout (default: "30s")
	MaxBodySize int    `toml:"max_body_size"` // maximum response body size in bytes (default: 10MB)
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Generator: GeneratorConfig{
			Provider:    GeneratorProviderGemini,
			GeminiModel: "gemini-2.5-flash",
			ClaudeModel: "claude-haiku-3-5-20241022",
			Timeout:     "5m",
			RateLimit:   "4s",
			Temperature: 0.4,
			MaxSlides:   40,
		},
		Images: ImagesConfig{
			Enabled:     true,
			Model:       "imagen-3.0-generate-002",
			Timeout:     "60s",
			RateLimit:   "1s",
			AspectRatio: "16:9",
		},
		ImageSearch: ImageSearchConfig{
			PerPage: 24,
			Timeout: "15s",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/imagecache",
			},
		},
		Sessions: SessionsConfig{
			TTL:           "4h",
			SweepSchedule: "@every 15m",
		},
		Export: ExportConfig{
			WorkDir:         "./data/exports",
			PageWidth:       1920,
			PageHeight:      1080,
			ChromeTimeout:   "30s",
			CleanupSchedule: "@every 30m",
			MaxArtifactAge:  "2h",
		},
		Themes: ThemesConfig{
			Dir:     "./themes",
			Default: "midnight",
		},
		Scrape: ScrapeConfig{
			UserAgent:   "prezo/1.0 (+https://github.com/ternarybob/prezo)",
			Timeout:     "30s",
			MaxBodySize: 10 * 1024 * 1024,
		},
	}
}

// LoadFromFiles loads configuration layered as: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies PREZO_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("PREZO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("PREZO_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("PREZO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("PREZO_GENERATOR_PROVIDER"); v != "" {
		config.Generator.Provider = GeneratorProvider(strings.ToLower(v))
	}
	if v := os.Getenv("PREZO_GOOGLE_API_KEY"); v != "" {
		config.Generator.GoogleAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && config.Generator.GoogleAPIKey == "" {
		config.Generator.GoogleAPIKey = v
	}
	if v := os.Getenv("PREZO_ANTHROPIC_API_KEY"); v != "" {
		config.Generator.AnthropicAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && config.Generator.AnthropicAPIKey == "" {
		config.Generator.AnthropicAPIKey = v
	}
	if v := os.Getenv("PREZO_PEXELS_API_KEY"); v != "" {
		config.ImageSearch.PexelsAPIKey = v
	}
	if v := os.Getenv("PREZO_BADGER_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("PREZO_EXPORT_WORK_DIR"); v != "" {
		config.Export.WorkDir = v
	}
	if v := os.Getenv("PREZO_THEMES_DIR"); v != "" {
		config.Themes.Dir = v
	}
}

// validateConfig rejects configurations that would fail at first use.
// Credential presence is checked at service construction, not here, so the
// server can still start with image search or a secondary provider unset.
func validateConfig(config *Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d: must be 0-65535", config.Server.Port)
	}
	switch config.Generator.Provider {
	case GeneratorProviderGemini, GeneratorProviderClaude:
	default:
		return fmt.Errorf("invalid generator provider %q: must be %q or %q",
			config.Generator.Provider, GeneratorProviderGemini, GeneratorProviderClaude)
	}
	if config.Generator.MaxSlides < 1 {
		return fmt.Errorf("generator.max_slides must be at least 1, got %d", config.Generator.MaxSlides)
	}
	if config.Export.PageWidth < 1 || config.Export.PageHeight < 1 {
		return fmt.Errorf("invalid export page size %dx%d", config.Export.PageWidth, config.Export.PageHeight)
	}
	return nil
}
