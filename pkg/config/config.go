package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dv-team/chatgpt-go/pkg/provider"
	"github.com/dv-team/chatgpt-go/pkg/types"
)

// EnvConfigPath names the variable holding the default config file path.
const EnvConfigPath = "CHATGPT_CONFIG"

// Config is the file and environment configuration of the CLI.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Chat       ChatConfig       `yaml:"chat"`
	WebSearch  WebSearchConfig  `yaml:"web_search"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text or json
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Effort  string `yaml:"effort"`
}

type OpenRouterConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Referer     string  `yaml:"referer"`
	AppName     string  `yaml:"app_name"`
	Temperature float64 `yaml:"temperature"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// ChatConfig holds the conversation defaults.
type ChatConfig struct {
	SystemPrompt string        `yaml:"system_prompt"`
	MaxTokens    int           `yaml:"max_tokens"`
	Temperature  *float64      `yaml:"temperature"`
	TopP         *float64      `yaml:"top_p"`
	MaxRounds    int           `yaml:"max_rounds"`
	Timeout      time.Duration `yaml:"timeout"`
}

type WebSearchConfig struct {
	Model    string              `yaml:"model"`
	Location *types.UserLocation `yaml:"location"`
}

// Load reads the YAML file at path (or $CHATGPT_CONFIG when path is empty),
// overlays the process environment and validates the result.
// A missing path yields a configuration built from the environment alone.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with a custom environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	if path == "" {
		path, _ = lookup(EnvConfigPath)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("OPENAI_API_KEY", &c.OpenAI.APIKey)
	str("OPENAI_BASE_URL", &c.OpenAI.BaseURL)
	str("OPENAI_MODEL", &c.OpenAI.Model)
	str("OPENAI_EFFORT", &c.OpenAI.Effort)

	str("OPENROUTER_API_KEY", &c.OpenRouter.APIKey)
	str("OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL)
	str("OPENROUTER_MODEL", &c.OpenRouter.Model)
	str("OPENROUTER_REFERER", &c.OpenRouter.Referer)
	str("OPENROUTER_APP_NAME", &c.OpenRouter.AppName)
	if v, ok := lookup("OPENROUTER_TEMPERATURE"); ok && v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OPENROUTER_TEMPERATURE %q: %w", v, err)
		}
		c.OpenRouter.Temperature = t
	}

	str("GEMINI_API_KEY", &c.Gemini.APIKey)
	str("GEMINI_MODEL", &c.Gemini.Model)

	str("CHATGPT_LOG_LEVEL", &c.Log.Level)
	str("CHATGPT_LOG_FORMAT", &c.Log.Format)
	return nil
}

// Validate checks enumerated values and fills defaults.
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		c.Log.Level = logrus.InfoLevel.String()
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	c.Log.Format = strings.ToLower(c.Log.Format)
	switch c.Log.Format {
	case "":
		c.Log.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %s (use 'text' or 'json')", c.Log.Format)
	}

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = types.DefaultModel.Name
	}
	if c.OpenAI.Effort != "" {
		if _, ok := types.ParseEffort(c.OpenAI.Effort); !ok {
			return fmt.Errorf("invalid reasoning effort: %s", c.OpenAI.Effort)
		}
	}

	if c.Chat.MaxTokens <= 0 {
		c.Chat.MaxTokens = provider.DefaultMaxTokens
	}
	if c.Chat.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must not be negative")
	}
	if c.Chat.Timeout <= 0 {
		c.Chat.Timeout = 5 * time.Minute
	}
	return nil
}

// Model returns the configured OpenAI model with its reasoning effort.
func (c *Config) Model() types.Model {
	effort, _ := types.ParseEffort(c.OpenAI.Effort)
	return types.CustomModel(c.OpenAI.Model, effort)
}

// Logger builds a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
