package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dv-team/chatgpt-go/pkg/types"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithEnv("", env(nil))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, types.DefaultModel.Name, cfg.OpenAI.Model)
	assert.Equal(t, 2500, cfg.Chat.MaxTokens)
	assert.Equal(t, 5*time.Minute, cfg.Chat.Timeout)
	assert.Equal(t, types.DefaultModel, cfg.Model())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
  format: JSON
openai:
  api_key: file-key
  model: gpt-5.1
  effort: low
chat:
  system_prompt: "Be brief."
  temperature: 0.3
  max_rounds: 4
  timeout: 30s
web_search:
  model: gpt-4.1
  location:
    type: approximate
    city: Berlin
    country: DE
`)

	cfg, err := LoadWithEnv("", env(map[string]string{
		EnvConfigPath:            path,
		"OPENAI_API_KEY":         "env-key",
		"OPENROUTER_API_KEY":     "or-key",
		"OPENROUTER_TEMPERATURE": "0.9",
		"GEMINI_MODEL":           "gemini-2.0-flash",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, types.LLMMediumReasoning(types.EffortLow), cfg.Model())
	assert.Equal(t, "or-key", cfg.OpenRouter.APIKey)
	assert.Equal(t, 0.9, cfg.OpenRouter.Temperature)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "Be brief.", cfg.Chat.SystemPrompt)
	require.NotNil(t, cfg.Chat.Temperature)
	assert.Equal(t, 0.3, *cfg.Chat.Temperature)
	assert.Nil(t, cfg.Chat.TopP)
	assert.Equal(t, 4, cfg.Chat.MaxRounds)
	assert.Equal(t, 30*time.Second, cfg.Chat.Timeout)
	require.NotNil(t, cfg.WebSearch.Location)
	assert.Equal(t, "Berlin", cfg.WebSearch.Location.City)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "log level", yaml: "log:\n  level: loud\n"},
		{name: "log format", yaml: "log:\n  format: xml\n"},
		{name: "effort", yaml: "openai:\n  effort: extreme\n"},
		{name: "max rounds", yaml: "chat:\n  max_rounds: -1\n"},
		{name: "yaml", yaml: "openai: [\n"},
		{name: "temperature env", yaml: "", env: map[string]string{"OPENROUTER_TEMPERATURE": "warm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithEnv(writeFile(t, tt.yaml), env(tt.env))
			assert.Error(t, err)
		})
	}

	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), env(nil))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	require.NoError(t, cfg.Validate())

	var buf bytes.Buffer
	l := cfg.Logger(&buf)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.WithField("k", "v").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)
}
