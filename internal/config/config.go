package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. It is built once at startup
// and handed to constructors explicitly.
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Redis    RedisConfig    `yaml:"redis" toml:"redis"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	Auth     AuthConfig     `yaml:"auth" toml:"auth"`
	Mail     MailConfig     `yaml:"mail" toml:"mail"`
	LLM      LLMConfig      `yaml:"llm" toml:"llm"`
}

type ServerConfig struct {
	Port          int    `yaml:"port" toml:"port"`
	BaseURL       string `yaml:"base_url" toml:"base_url"`
	ChatRateLimit int    `yaml:"chat_rate_limit" toml:"chat_rate_limit"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" toml:"url"`
	MaxConns int32  `yaml:"max_conns" toml:"max_conns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	Password string `yaml:"password" toml:"password"`
	DB       int    `yaml:"db" toml:"db"`
}

// StorageConfig holds the MinIO settings used for uploaded resumes.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	AccessKey string `yaml:"access_key" toml:"access_key"`
	SecretKey string `yaml:"secret_key" toml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" toml:"use_ssl"`
	Bucket    string `yaml:"bucket" toml:"bucket"`
}

type AuthConfig struct {
	SecretKey        string        `yaml:"secret_key" toml:"secret_key"`
	ResetTokenMaxAge time.Duration `yaml:"reset_token_max_age" toml:"reset_token_max_age"`
	SessionTTL       time.Duration `yaml:"session_ttl" toml:"session_ttl"`
	AdminEmail       string        `yaml:"admin_email" toml:"admin_email"`
	AdminPassword    string        `yaml:"admin_password" toml:"admin_password"`
}

type MailConfig struct {
	ResendAPIKey string `yaml:"resend_api_key" toml:"resend_api_key"`
	From         string `yaml:"from" toml:"from"`
}

// LLMConfig selects the completion provider and the speech settings.
type LLMConfig struct {
	Provider         string        `yaml:"provider" toml:"provider"`
	OpenAIAPIKey     string        `yaml:"openai_api_key" toml:"openai_api_key"`
	OpenAIModel      string        `yaml:"openai_model" toml:"openai_model"`
	OpenAIBaseURL    string        `yaml:"openai_base_url" toml:"openai_base_url"`
	AnthropicAPIKey  string        `yaml:"anthropic_api_key" toml:"anthropic_api_key"`
	AnthropicModel   string        `yaml:"anthropic_model" toml:"anthropic_model"`
	GeminiAPIKey     string        `yaml:"gemini_api_key" toml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model" toml:"gemini_model"`
	TTSModel         string        `yaml:"tts_model" toml:"tts_model"`
	TTSVoice         string        `yaml:"tts_voice" toml:"tts_voice"`
	ChecklistTimeout time.Duration `yaml:"checklist_timeout" toml:"checklist_timeout"`
	AnalysisTimeout  time.Duration `yaml:"analysis_timeout" toml:"analysis_timeout"`
	ChatTimeout      time.Duration `yaml:"chat_timeout" toml:"chat_timeout"`
	SpeechTimeout    time.Duration `yaml:"speech_timeout" toml:"speech_timeout"`
}

// Default returns a Config populated with development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			BaseURL:       "http://localhost:8080",
			ChatRateLimit: 20,
		},
		Database: DatabaseConfig{MaxConns: 10},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Storage: StorageConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "preppulse-resumes",
		},
		Auth: AuthConfig{
			ResetTokenMaxAge: 900 * time.Second,
			SessionTTL:       24 * time.Hour,
		},
		Mail: MailConfig{From: "PrepPulse <no-reply@preppulse.app>"},
		LLM: LLMConfig{
			Provider:         "openai",
			OpenAIModel:      "gpt-4o-mini",
			AnthropicModel:   "claude-haiku",
			GeminiModel:      "gemini-flash",
			TTSModel:         "gpt-4o-mini-tts",
			TTSVoice:         "alloy",
			ChecklistTimeout: 15 * time.Second,
			AnalysisTimeout:  30 * time.Second,
			ChatTimeout:      30 * time.Second,
			SpeechTimeout:    20 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML or TOML file,
// a .env file and finally the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("PREPPULSE_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("DEBUG: no config file at %s, using environment only", path)
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Storage.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Storage.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Storage.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Storage.Bucket, "MINIO_BUCKET")
	setString(&c.Auth.SecretKey, "SECRET_KEY")
	setString(&c.Auth.AdminEmail, "ADMIN_EMAIL")
	setString(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	setString(&c.Mail.ResendAPIKey, "RESEND_API_KEY")
	setString(&c.Mail.From, "MAIL_FROM")
	setString(&c.Server.BaseURL, "APP_BASE_URL")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.OpenAIAPIKey, "OPEN_API_KEY")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.OpenAIModel, "OPENAI_MODEL")
	setString(&c.LLM.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.LLM.AnthropicModel, "ANTHROPIC_MODEL")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.GeminiModel, "GEMINI_MODEL")
	setString(&c.LLM.TTSModel, "TTS_MODEL")
	setString(&c.LLM.TTSVoice, "TTS_VOICE")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
		}
		c.Database.MaxConns = int32(n)
	}
	if v := os.Getenv("CHAT_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CHAT_RATE_LIMIT: %w", err)
		}
		c.Server.ChatRateLimit = n
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Storage.UseSSL = v == "true"
	}
	// RESET_TOKEN_MAX_AGE is given in seconds.
	if v := os.Getenv("RESET_TOKEN_MAX_AGE"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RESET_TOKEN_MAX_AGE: %w", err)
		}
		c.Auth.ResetTokenMaxAge = time.Duration(secs) * time.Second
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_TTL", &c.Auth.SessionTTL},
		{"CHAT_TIMEOUT", &c.LLM.ChatTimeout},
		{"SPEECH_TIMEOUT", &c.LLM.SpeechTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.Auth.ResetTokenMaxAge <= 0 {
		return errors.New("reset token max age must be positive")
	}
	return nil
}

// AIEnabled reports whether the selected completion provider has a key.
func (c *LLMConfig) AIEnabled() bool {
	switch c.Provider {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "gemini":
		return c.GeminiAPIKey != ""
	default:
		return c.OpenAIAPIKey != ""
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
