// Package config loads application configuration from the environment, with
// optional .env file support.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Reddit RedditConfig
	Gemini GeminiConfig
	Fetch  FetchConfig
	Server ServerConfig
}

// RedditConfig holds Reddit API credentials.
type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
}

// GeminiConfig holds generation settings.
type GeminiConfig struct {
	APIKey         string
	Model          string
	FallbackModels []string
	MaxRetries     int
}

// FetchConfig bounds how much activity is collected.
type FetchConfig struct {
	CommentLimit int
	PostLimit    int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// Load reads configuration from envPath (default ".env") and the process
// environment. A missing .env file is fine; environment variables alone work.
func Load(envPath string, logger *slog.Logger) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	if err := godotenv.Load(envPath); err != nil {
		logger.Debug("no .env file loaded, using process environment", "path", envPath, "error", err)
	} else {
		logger.Info("config loaded", "file", envPath)
	}

	cfg := &Config{
		Reddit: RedditConfig{
			ClientID:     getEnv("REDDIT_CLIENT_ID", ""),
			ClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
			UserAgent:    getEnv("REDDIT_USER_AGENT", ""),
		},
		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			FallbackModels: splitList(getEnv("GEMINI_FALLBACK_MODELS", "")),
			MaxRetries:     getEnvAsInt("GEMINI_MAX_RETRIES", 3),
		},
		Fetch: FetchConfig{
			CommentLimit: getEnvAsInt("COMMENT_LIMIT", 100),
			PostLimit:    getEnvAsInt("POST_LIMIT", 50),
		},
		Server: ServerConfig{
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Reddit.ClientID == "" {
		return fmt.Errorf("REDDIT_CLIENT_ID environment variable is required")
	}
	if cfg.Reddit.ClientSecret == "" {
		return fmt.Errorf("REDDIT_CLIENT_SECRET environment variable is required")
	}
	// Reddit enforces descriptive User-Agent strings and throttles defaults hard.
	if cfg.Reddit.UserAgent == "" {
		return fmt.Errorf("REDDIT_USER_AGENT environment variable is required")
	}
	if cfg.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.Gemini.MaxRetries < 1 {
		return fmt.Errorf("GEMINI_MAX_RETRIES must be positive")
	}
	if cfg.Fetch.CommentLimit < 0 || cfg.Fetch.PostLimit < 0 {
		return fmt.Errorf("COMMENT_LIMIT and POST_LIMIT must not be negative")
	}
	return nil
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
