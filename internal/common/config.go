package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Source      SourceConfig    `toml:"source"`
	Ingest      IngestConfig    `toml:"ingest"`
	Retention   RetentionConfig `toml:"retention"`
	Analysis    AnalysisConfig  `toml:"analysis"`
	LLM         LLMConfig       `toml:"llm"`
	DeepSeek    DeepSeekConfig  `toml:"deepseek"`
	Claude      ClaudeConfig    `toml:"claude"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// SourceConfig describes the external news site being harvested.
type SourceConfig struct {
	BaseURL        string `toml:"base_url"`        // Site root, e.g. "https://www.cls.cn"
	TelegraphPath  string `toml:"telegraph_path"`  // Live-feed page path (default "/telegraph")
	UserAgent      string `toml:"user_agent"`      // UA header for all site requests
	RequestTimeout string `toml:"request_timeout"` // Per-request timeout, e.g. "15s"
	RequestDelay   string `toml:"request_delay"`   // Minimum spacing between site requests, e.g. "500ms"
}

type IngestConfig struct {
	Schedule string `toml:"schedule"` // Cron schedule for the ingestion job
}

type RetentionConfig struct {
	Schedule   string `toml:"schedule"`     // Cron schedule for the retention sweep
	MaxAgeDays int    `toml:"max_age_days"` // Articles older than this are deleted
}

// AnalysisConfig holds window defaults for the analysis job. The manual
// endpoint uses the on-demand values, the cron job the scheduled values.
type AnalysisConfig struct {
	Schedule         string   `toml:"schedule"`           // Cron schedule (twice daily)
	Hours            int      `toml:"hours"`              // On-demand lookback window in hours
	MaxNews          int      `toml:"max_news"`           // On-demand max articles per window
	ScheduledHours   int      `toml:"scheduled_hours"`    // Scheduled lookback window in hours
	ScheduledMaxNews int      `toml:"scheduled_max_news"` // Scheduled max articles per window
	SummaryLimit     int      `toml:"summary_limit"`      // Per-article summary truncation (chars)
	MaxPromptChars   int      `toml:"max_prompt_chars"`   // Total window text cap (chars)
	FocusedCompanies []string `toml:"focused_companies"`  // Default watchlist for scheduled runs
}

// LLMProvider selects the analysis model backend.
type LLMProvider string

const (
	ProviderDeepSeek LLMProvider = "deepseek"
	ProviderClaude   LLMProvider = "claude"
)

type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"`
}

// DeepSeekConfig configures the OpenAI-compatible DeepSeek endpoint.
type DeepSeekConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	Timeout string `toml:"timeout"` // Reasoning responses are slow; keep this generous
}

type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
	Timeout   string `toml:"timeout"`
	Thinking  bool   `toml:"thinking"` // Enable extended thinking (reasoning trace)
}

// DefaultConfig returns the configuration defaults applied before any
// file or environment override.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "localhost",
			Port: 5600,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/finwire",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Source: SourceConfig{
			BaseURL:        "https://www.cls.cn",
			TelegraphPath:  "/telegraph",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeout: "15s",
			RequestDelay:   "500ms",
		},
		Ingest: IngestConfig{
			Schedule: "*/5 * * * *",
		},
		Retention: RetentionConfig{
			Schedule:   "0 3 * * *",
			MaxAgeDays: 5,
		},
		Analysis: AnalysisConfig{
			Schedule:         "0 8,20 * * *",
			Hours:            6,
			MaxNews:          200,
			ScheduledHours:   12,
			ScheduledMaxNews: 300,
			SummaryLimit:     100,
			MaxPromptChars:   30000,
		},
		LLM: LLMConfig{
			DefaultProvider: ProviderDeepSeek,
		},
		DeepSeek: DeepSeekConfig{
			BaseURL: "https://api.lkeap.cloud.tencent.com/v1",
			Model:   "deepseek-r1",
			Timeout: "5m",
		},
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 8192,
			Timeout:   "5m",
			Thinking:  true,
		},
	}
}

// LoadFromFiles loads configuration in priority order:
// defaults -> file1 -> file2 -> ... -> environment variables.
// Later files override earlier ones.
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

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority).
// Zero values leave the config unchanged.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies FINWIRE_* environment variables on top of the
// file configuration.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINWIRE_ENVIRONMENT"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("FINWIRE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("FINWIRE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if path := os.Getenv("FINWIRE_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if level := os.Getenv("FINWIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("FINWIRE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
	if baseURL := os.Getenv("FINWIRE_SOURCE_BASE_URL"); baseURL != "" {
		config.Source.BaseURL = baseURL
	}
	if ua := os.Getenv("FINWIRE_SOURCE_USER_AGENT"); ua != "" {
		config.Source.UserAgent = ua
	}

	// DeepSeek configuration; the unprefixed key matches the upstream
	// provider convention, the FINWIRE_ key takes priority.
	if apiKey := os.Getenv("LKEAP_API_KEY"); apiKey != "" {
		config.DeepSeek.APIKey = apiKey
	}
	if apiKey := os.Getenv("FINWIRE_DEEPSEEK_API_KEY"); apiKey != "" {
		config.DeepSeek.APIKey = apiKey
	}
	if baseURL := os.Getenv("FINWIRE_DEEPSEEK_BASE_URL"); baseURL != "" {
		config.DeepSeek.BaseURL = baseURL
	}
	if model := os.Getenv("FINWIRE_DEEPSEEK_MODEL"); model != "" {
		config.DeepSeek.Model = model
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("FINWIRE_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if model := os.Getenv("FINWIRE_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	if provider := os.Getenv("FINWIRE_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}
}

// Validate checks cross-field constraints that toml decoding cannot.
func (c *Config) Validate() error {
	for name, schedule := range map[string]string{
		"ingest":    c.Ingest.Schedule,
		"retention": c.Retention.Schedule,
		"analysis":  c.Analysis.Schedule,
	} {
		if err := ValidateJobSchedule(schedule); err != nil {
			return fmt.Errorf("invalid %s schedule: %w", name, err)
		}
	}
	if c.Retention.MaxAgeDays <= 0 {
		return fmt.Errorf("retention max_age_days must be positive, got %d", c.Retention.MaxAgeDays)
	}
	if c.Analysis.MaxPromptChars <= 0 {
		return fmt.Errorf("analysis max_prompt_chars must be positive, got %d", c.Analysis.MaxPromptChars)
	}
	for name, value := range map[string]string{
		"source.request_timeout": c.Source.RequestTimeout,
		"source.request_delay":   c.Source.RequestDelay,
		"deepseek.timeout":       c.DeepSeek.Timeout,
		"claude.timeout":         c.Claude.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}
	switch c.LLM.DefaultProvider {
	case ProviderDeepSeek, ProviderClaude:
	default:
		return fmt.Errorf("unknown llm default_provider %q", c.LLM.DefaultProvider)
	}
	return nil
}

// ValidateJobSchedule validates a standard 5-field cron expression.
func ValidateJobSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("schedule cannot be empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}
