package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Skufu/HealthConnect/internal/llm"
)

const (
	ProviderAuto = "auto"
	ProviderNone = "none"
)

type Config struct {
	Host         string
	Port         string
	OpenAIAPIKey string
	GeminiAPIKey string
	AIProvider   string
	AIModel      string
	AIBaseURL    string
	AITimeout    time.Duration
	EnableDB     bool
	DatabaseURL  string
	StaticDir    string
	LogLevel     string
	LogFormat    string
	GinMode      string
}

// Load reads an optional .env file, an optional config.toml and the process
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AutomaticEnv()

	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "5000")
	v.SetDefault("AI_PROVIDER", ProviderAuto)
	v.SetDefault("AI_TIMEOUT", llm.DefaultTimeout)
	v.SetDefault("ENABLE_DB", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("GIN_MODE", "release")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.WithField("file", v.ConfigFileUsed()).Info("config file loaded")
	}

	cfg := &Config{
		Host:         v.GetString("HOST"),
		Port:         v.GetString("PORT"),
		OpenAIAPIKey: strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		GeminiAPIKey: strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		AIProvider:   strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER"))),
		AIModel:      v.GetString("AI_MODEL"),
		AIBaseURL:    v.GetString("AI_BASE_URL"),
		AITimeout:    v.GetDuration("AI_TIMEOUT"),
		EnableDB:     v.GetBool("ENABLE_DB"),
		DatabaseURL:  v.GetString("DATABASE_URL"),
		StaticDir:    v.GetString("STATIC_DIR"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		LogFormat:    v.GetString("LOG_FORMAT"),
		GinMode:      v.GetString("GIN_MODE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	switch c.AIProvider {
	case ProviderAuto, ProviderNone, string(llm.ProviderOpenAI), string(llm.ProviderGemini):
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LLM resolves which provider to use. ok is false when the AI path should
// stay disabled.
func (c *Config) LLM() (cfg llm.Config, ok bool) {
	provider := c.AIProvider
	if provider == ProviderAuto {
		switch {
		case c.OpenAIAPIKey != "":
			provider = string(llm.ProviderOpenAI)
		case c.GeminiAPIKey != "":
			provider = string(llm.ProviderGemini)
		default:
			provider = ProviderNone
		}
	}

	var key string
	switch provider {
	case string(llm.ProviderOpenAI):
		key = c.OpenAIAPIKey
	case string(llm.ProviderGemini):
		key = c.GeminiAPIKey
	default:
		return llm.Config{}, false
	}
	if key == "" {
		log.WithField("provider", provider).Warn("AI provider selected without an API key, using knowledge base only")
		return llm.Config{}, false
	}

	return llm.Config{
		Provider: llm.Provider(provider),
		APIKey:   key,
		Model:    c.AIModel,
		BaseURL:  c.AIBaseURL,
		Timeout:  c.AITimeout,
	}, true
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *log.Logger {
	l := log.New()
	if lvl, err := log.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	} else {
		l.WithField("level", c.LogLevel).Warn("unknown LOG_LEVEL, using info")
	}
	if strings.EqualFold(c.LogFormat, "json") {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return l
}
