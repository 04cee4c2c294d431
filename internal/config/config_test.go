package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own config and keys out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
		"DATABASE_URL", "TRANS_DB", "TRANS_DB_DSN", "APP_ENV", "TRANS_ENV",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "google", cfg.Translate.Backend)
	assert.Equal(t, "auto", cfg.Translate.Source)
	assert.Equal(t, "hi", cfg.Translate.Target)
	assert.Equal(t, 10*time.Second, cfg.Translate.Timeout)
	assert.Equal(t, 15, cfg.Quiz.TimeLimit)
	assert.Equal(t, 4, cfg.Quiz.Choices)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TRANS_TRANSLATE_TARGET", "es")
	t.Setenv("TRANS_QUIZ_TIME_LIMIT", "30")
	t.Setenv("TRANS_SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "es", cfg.Translate.Target)
	assert.Equal(t, 30, cfg.Quiz.TimeLimit)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "trans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
db:
  driver: postgres
  dsn: postgres://trans@localhost/trans
translate:
  backend: llm
  style: formal
llm:
  provider: openrouter
  openrouter:
    api_key: sk-or
    model: anthropic/claude-haiku-4.5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "llm", cfg.Translate.Backend)
	assert.Equal(t, "formal", cfg.Translate.Style)

	lc, ok := cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "openrouter", lc.Provider)
	assert.Equal(t, "sk-or", lc.OpenRouter.APIKey)
	assert.Equal(t, "anthropic/claude-haiku-4.5", lc.OpenRouter.Model)
	assert.NoError(t, lc.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:        DB{Driver: "sqlite"},
			Translate: Translate{Backend: "google"},
			Quiz:      Quiz{TimeLimit: 15, Choices: 4},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.DB.Driver = "postgres" }},
		{"unknown backend", func(c *Config) { c.Translate.Backend = "deepl" }},
		{"zero time limit", func(c *Config) { c.Quiz.TimeLimit = 0 }},
		{"one choice", func(c *Config) { c.Quiz.Choices = 1 }},
	}

	base := valid()
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLLMConfig_Discovery(t *testing.T) {
	isolate(t)
	cfg := &Config{}
	_, ok := cfg.LLMConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	lc, ok := cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", lc.Provider)
}
