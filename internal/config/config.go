// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds settings shared by the TUI and the server. LLM provider
// settings live in llm.Config.
type Config struct {
	Server ServerConfig
	Client ClientConfig
	Log    LogConfig
}

// ServerConfig configures `parley serve`.
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// ClientConfig configures the TUI and the session commands.
type ClientConfig struct {
	// Store selects the session backend, e.g. "sqlite:/path/db",
	// "file:/dir", "memory:", "redis://..." or "postgres://...".
	// Empty means SQLite at DBPath.
	Store     string
	StoreKey  string
	ServerURL string
	DBPath    string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level string
	File  string
}

// DefaultStoreKey is the key the session is stored under.
const DefaultStoreKey = "language_practice_session"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvList("PARLEY_ALLOWED_ORIGINS", []string{"*"}),
			MaxBodyBytes:   int64(getEnvInt("PARLEY_MAX_BODY_BYTES", 64<<10)),
		},
		Client: ClientConfig{
			Store:     getEnv("PARLEY_STORE", ""),
			StoreKey:  getEnv("PARLEY_STORE_KEY", DefaultStoreKey),
			ServerURL: getEnv("PARLEY_SERVER_URL", ""),
			DBPath:    getEnv("PARLEY_DB", ""),
		},
		Log: LogConfig{
			Level: getEnv("PARLEY_LOG_LEVEL", "info"),
			File:  getEnv("PARLEY_LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("PARLEY_MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(c.Client.StoreKey) == "" {
		return errors.New("PARLEY_STORE_KEY cannot be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LoadDotEnv loads a .env file from the working directory when one
// exists. Variables already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// DefaultLogPath returns $XDG_STATE_HOME/parley/parley.log, falling back
// to ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "parley.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "parley", "parley.log")
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
