// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/adrin-chat/internal/chat"
)

// Config holds all application configuration.
type Config struct {
	ServerURL      string
	Greeting       string
	ReconnectDelay time.Duration
	SendRetryDelay time.Duration
	DialTimeout    time.Duration
	ReadLimit      int64
	LogLevel       string
	MockServer     MockServerConfig
}

// MockServerConfig controls the local development endpoint.
type MockServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:      getEnv("CHAT_SERVER_URL", chat.DefaultURL),
		Greeting:       getEnv("CHAT_GREETING", chat.DefaultGreeting),
		ReconnectDelay: getEnvDuration("CHAT_RECONNECT_DELAY", chat.DefaultReconnectDelay),
		SendRetryDelay: getEnvDuration("CHAT_SEND_RETRY_DELAY", chat.DefaultRetryDelay),
		DialTimeout:    getEnvDuration("CHAT_DIAL_TIMEOUT", 10*time.Second),
		ReadLimit:      int64(getEnvInt("CHAT_READ_LIMIT", 32768)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MockServer: MockServerConfig{
			Addr:           getEnv("MOCK_SERVER_ADDR", ":8000"),
			AllowedOrigins: getEnvList("MOCK_ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("CHAT_SERVER_URL cannot be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("CHAT_SERVER_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("CHAT_SERVER_URL must use ws or wss, got %q", u.Scheme)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("CHAT_RECONNECT_DELAY must be > 0")
	}
	if c.SendRetryDelay <= 0 {
		return fmt.Errorf("CHAT_SEND_RETRY_DELAY must be > 0")
	}
	if c.DialTimeout <= 0 {
		return fmt.Errorf("CHAT_DIAL_TIMEOUT must be > 0")
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("CHAT_READ_LIMIT must be > 0")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MockServer.Addr == "" {
		return fmt.Errorf("MOCK_SERVER_ADDR cannot be empty")
	}
	return nil
}

// SlogLevel returns the configured log level. Validate guarantees it parses.
func (c *Config) SlogLevel() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", name)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
