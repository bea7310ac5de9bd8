package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Questboard specifics
	Storage        StorageConfig
	Session        SessionConfig
	Ollama         OllamaConfig
	GoogleCalendar GoogleCalendarConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// StorageConfig locates the session database.
type StorageConfig struct {
	SQLitePath string
}

// SessionConfig bounds the in-memory actor registry and the stream composer.
type SessionConfig struct {
	MaxActive         int
	SettleTimeout     time.Duration
	MaxStreamBuffer   int
	NameMaxLen        int
	DescriptionMaxLen int
}

// OllamaConfig points at the local LLM runtime.
type OllamaConfig struct {
	BaseURL           string
	Model             string
	RequestsPerMinute int
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/questboard/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/questboard/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Storage
	cfg.Storage.SQLitePath = viper.GetString("storage.sqlite_path")
	if path := viper.GetString("sqlite_path"); path != "" {
		cfg.Storage.SQLitePath = path
	}

	// Sessions
	cfg.Session.MaxActive = viper.GetInt("session.max_active")
	cfg.Session.SettleTimeout = viper.GetDuration("session.settle_timeout")
	cfg.Session.MaxStreamBuffer = viper.GetInt("session.max_stream_buffer")
	cfg.Session.NameMaxLen = viper.GetInt("session.name_max_len")
	cfg.Session.DescriptionMaxLen = viper.GetInt("session.description_max_len")

	// Ollama
	cfg.Ollama.BaseURL = viper.GetString("ollama.base_url")
	cfg.Ollama.Model = viper.GetString("ollama.model")
	cfg.Ollama.RequestsPerMinute = viper.GetInt("ollama.requests_per_minute")
	if url := viper.GetString("ollama_base_url"); url != "" {
		cfg.Ollama.BaseURL = url
	}
	if cfg.Ollama.Model == "" {
		return nil, fmt.Errorf("ollama.model is required")
	}

	// Google Calendar (optional; empty credentials disable mirroring)
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	if creds := viper.GetString("google_calendar_credentials"); creds != "" {
		cfg.GoogleCalendar.CredentialsPath = creds
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("storage.sqlite_path", "questboard.db")

	viper.SetDefault("session.max_active", 1024)
	viper.SetDefault("session.settle_timeout", "500ms")
	viper.SetDefault("session.max_stream_buffer", 1<<20)
	viper.SetDefault("session.name_max_len", 200)
	viper.SetDefault("session.description_max_len", 2000)

	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "qwen2.5:7b")
	viper.SetDefault("ollama.requests_per_minute", 60)
}
