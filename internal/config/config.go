package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/trans/internal/llm"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env       string    `mapstructure:"env"` // local, production, ...
	Log       Log       `mapstructure:"log"`
	DB        DB        `mapstructure:"db"`
	Translate Translate `mapstructure:"translate"`
	Quiz      Quiz      `mapstructure:"quiz"`
	Server    Server    `mapstructure:"server"`
	LLM       LLM       `mapstructure:"llm"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty = stderr (or discarded in the TUI)
}

// DB selects the store driver and location.
type DB struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`    // empty = default sqlite path
}

// Translate configures the translation backend.
type Translate struct {
	Backend  string        `mapstructure:"backend"` // google or llm
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Source   string        `mapstructure:"source"`
	Target   string        `mapstructure:"target"`
	Style    string        `mapstructure:"style"`
}

// Quiz configures quiz defaults.
type Quiz struct {
	TimeLimit int `mapstructure:"time_limit"` // seconds per timed question
	Choices   int `mapstructure:"choices"`
}

// Server configures `trans serve`.
type Server struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LLM configures the provider used by the llm translation backend.
type LLM struct {
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Retry      Retry          `mapstructure:"retry"`
}

// ProviderConfig holds credentials and model for one LLM provider.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Retry configures provider retries.
type Retry struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// Load reads configuration from an optional YAML file, a .env file and the
// environment. path may be empty, in which case the standard locations are
// searched and a missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRANS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional provider key names, in addition to TRANS_LLM_*.
	_ = v.BindEnv("llm.anthropic.api_key", "TRANS_LLM_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openai.api_key", "TRANS_LLM_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.gemini.api_key", "TRANS_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.openrouter.api_key", "TRANS_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("db.dsn", "TRANS_DB_DSN", "TRANS_DB", "DATABASE_URL")
	_ = v.BindEnv("env", "TRANS_ENV", "APP_ENV")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("trans")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")

	v.SetDefault("translate.backend", "google")
	v.SetDefault("translate.endpoint", "https://translate.googleapis.com")
	v.SetDefault("translate.timeout", "10s")
	v.SetDefault("translate.source", "auto")
	v.SetDefault("translate.target", "hi")
	v.SetDefault("translate.style", "default")

	v.SetDefault("quiz.time_limit", 15)
	v.SetDefault("quiz.choices", 4)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.request_timeout", "30s")

	llmDefaults := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", llmDefaults.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", llmDefaults.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", llmDefaults.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", llmDefaults.Retry.Multiplier)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db.driver %q (want sqlite or postgres)", c.DB.Driver)
	}
	switch c.Translate.Backend {
	case "google", "llm":
	default:
		return fmt.Errorf("unsupported translate.backend %q (want google or llm)", c.Translate.Backend)
	}
	if c.DB.Driver == "postgres" && c.DB.DSN == "" {
		return errors.New("db.dsn is required for the postgres driver")
	}
	if c.Quiz.TimeLimit < 1 {
		return fmt.Errorf("quiz.time_limit must be positive, got %d", c.Quiz.TimeLimit)
	}
	if c.Quiz.Choices < 2 {
		return fmt.Errorf("quiz.choices must be at least 2, got %d", c.Quiz.Choices)
	}
	return nil
}

// LLMConfig converts the llm section into an llm.Config. ok is false when
// no provider is configured and none could be discovered from the standard
// API key variables.
func (c *Config) LLMConfig() (cfg llm.Config, ok bool) {
	if c.LLM.Provider == "" {
		return llm.DiscoverConfig()
	}

	cfg = llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	cfg.Anthropic = llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: c.LLM.Anthropic.Model}
	cfg.OpenAI = llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: c.LLM.OpenAI.Model, BaseURL: c.LLM.OpenAI.BaseURL}
	cfg.Gemini = llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: c.LLM.Gemini.Model}
	cfg.OpenRouter = llm.OpenRouterConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: c.LLM.OpenRouter.Model, BaseURL: c.LLM.OpenRouter.BaseURL}
	if c.LLM.Retry.MaxAttempts > 0 {
		cfg.Retry = llm.RetryConfig{
			MaxAttempts: c.LLM.Retry.MaxAttempts,
			InitialWait: c.LLM.Retry.InitialWait,
			MaxWait:     c.LLM.Retry.MaxWait,
			Multiplier:  c.LLM.Retry.Multiplier,
		}
	}
	return cfg, true
}

// configDir returns $XDG_CONFIG_HOME/trans or ~/.config/trans.
func configDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "trans"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "trans"), nil
}
