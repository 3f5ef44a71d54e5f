package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/jigoor/internal/signals"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	LLM         LLMConfig        `toml:"llm"`
	Signals     SignalsConfig    `toml:"signals"`
	ThirdParty  ThirdPartyConfig `toml:"third_party"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`                                      // "stdout", "file"
	TimeFormat string   `toml:"time_format"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`    // Optional endpoint override (proxies, tests)
	Model       string  `toml:"model"`       // default: "gemini-2.5-flash"
	Timeout     string  `toml:"timeout"`     // Per-request timeout as duration string (default: "5m")
	Temperature float32 `toml:"temperature"` // 0 leaves the model default in place
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey        string  `toml:"api_key"`
	BaseURL       string  `toml:"base_url"`
	Model         string  `toml:"model"`
	MaxTokens     int     `toml:"max_tokens"`
	MaxSearchUses int     `toml:"max_search_uses"` // Upper bound on web searches per request
	Timeout       string  `toml:"timeout"`
	Temperature   float32 `toml:"temperature"`
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the provider used by the signal and news services
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=gemini claude"`
}

// SignalsConfig holds presentation defaults for a new browser session
type SignalsConfig struct {
	DefaultTags  []string `toml:"default_tags"`
	DataSource   string   `toml:"data_source" validate:"oneof=gemini api"` // "gemini" (AI) or "api" (third party)
	SignalCount  int      `toml:"signal_count" validate:"min=1,max=10"`
	USDToCADRate float64  `toml:"usd_to_cad_rate" validate:"gte=0"` // Static rate, 0 hides CAD prices
}

// ThirdPartyConfig configures the mock third-party signal provider
type ThirdPartyConfig struct {
	BaseURL       string `toml:"base_url"`
	APIKey        string `toml:"api_key"`
	Delay         string `toml:"delay"`          // Simulated network latency (default: "1500ms")
	CataloguePath string `toml:"catalogue_path"` // Optional YAML file replacing the embedded catalogue
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Gemini: GeminiConfig{
			Model:   "gemini-2.5-flash",
			Timeout: "5m",
		},
		Claude: ClaudeConfig{
			Model:         "claude-sonnet-4-5",
			MaxTokens:     8192,
			MaxSearchUses: 5,
			Timeout:       "5m",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Signals: SignalsConfig{
			DefaultTags:  []string{"BTC", "ETH", "EURUSD"},
			DataSource:   "gemini",
			SignalCount:  3,
			USDToCADRate: signals.DefaultUSDToCADRate,
		},
		ThirdParty: ThirdPartyConfig{
			BaseURL: "https://api.example-crypto-signals.com/v1/latest",
			Delay:   "1500ms",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks value ranges and enumerations after all overrides are applied.
// A missing API key is not a validation error: the UI reports it as a configuration screen.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.ParseDuration(c.Gemini.Timeout); err != nil {
		return fmt.Errorf("invalid gemini.timeout '%s': %w", c.Gemini.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Claude.Timeout); err != nil {
		return fmt.Errorf("invalid claude.timeout '%s': %w", c.Claude.Timeout, err)
	}
	if _, err := time.ParseDuration(c.ThirdParty.Delay); err != nil {
		return fmt.Errorf("invalid third_party.delay '%s': %w", c.ThirdParty.Delay, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("JIGOOR_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("JIGOOR_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("JIGOOR_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("JIGOOR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("JIGOOR_LOG_OUTPUT"); output != "" {
		if outputs := splitList(output); len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration. API_KEY is the variable the hosted build has always read.
	if apiKey := os.Getenv("JIGOOR_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("JIGOOR_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("JIGOOR_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if temperature := os.Getenv("JIGOOR_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("JIGOOR_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // JIGOOR_ prefix takes priority
	}
	if model := os.Getenv("JIGOOR_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if timeout := os.Getenv("JIGOOR_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}

	if provider := os.Getenv("JIGOOR_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	// Signals configuration
	if tags := os.Getenv("JIGOOR_SIGNALS_DEFAULT_TAGS"); tags != "" {
		config.Signals.DefaultTags = splitList(tags)
	}
	if source := os.Getenv("JIGOOR_SIGNALS_DATA_SOURCE"); source != "" {
		config.Signals.DataSource = source
	}
	if rate := os.Getenv("JIGOOR_SIGNALS_USD_TO_CAD_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Signals.USDToCADRate = r
		}
	}

	// Third party configuration
	if baseURL := os.Getenv("JIGOOR_THIRD_PARTY_BASE_URL"); baseURL != "" {
		config.ThirdParty.BaseURL = baseURL
	}
	if apiKey := os.Getenv("JIGOOR_THIRD_PARTY_API_KEY"); apiKey != "" {
		config.ThirdParty.APIKey = apiKey
	}
	if delay := os.Getenv("JIGOOR_THIRD_PARTY_DELAY"); delay != "" {
		config.ThirdParty.Delay = delay
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ActiveAPIKey returns the API key for the configured default provider.
// An empty string means the provider cannot be constructed.
func (c *Config) ActiveAPIKey() string {
	switch c.LLM.DefaultProvider {
	case LLMProviderClaude:
		return c.Claude.APIKey
	default:
		return c.Gemini.APIKey
	}
}

// APIKeyEnvVars lists the environment variables read for the default provider's key, highest priority first
func (c *Config) APIKeyEnvVars() []string {
	switch c.LLM.DefaultProvider {
	case LLMProviderClaude:
		return []string{"JIGOOR_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"}
	default:
		return []string{"JIGOOR_GEMINI_API_KEY", "API_KEY"}
	}
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
