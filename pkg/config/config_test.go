package config

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
	t.Setenv("REDDIT_USER_AGENT", "test-agent/1.0 by u/tester")
	t.Setenv("GEMINI_API_KEY", "gm-key")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("GEMINI_FALLBACK_MODELS", "gemini-1.5-flash, gemini-1.5-pro")
	t.Setenv("GEMINI_MAX_RETRIES", "5")
	t.Setenv("COMMENT_LIMIT", "30")
	t.Setenv("POST_LIMIT", "15")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("does-not-exist.env", testLogger())
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.Reddit.ClientID)
	assert.Equal(t, "secret", cfg.Reddit.ClientSecret)
	assert.Equal(t, "test-agent/1.0 by u/tester", cfg.Reddit.UserAgent)
	assert.Equal(t, "gm-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"gemini-1.5-flash", "gemini-1.5-pro"}, cfg.Gemini.FallbackModels)
	assert.Equal(t, 5, cfg.Gemini.MaxRetries)
	assert.Equal(t, 30, cfg.Fetch.CommentLimit)
	assert.Equal(t, 15, cfg.Fetch.PostLimit)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_FALLBACK_MODELS", "")
	t.Setenv("GEMINI_MAX_RETRIES", "")
	t.Setenv("COMMENT_LIMIT", "")
	t.Setenv("POST_LIMIT", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load("does-not-exist.env", testLogger())
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Nil(t, cfg.Gemini.FallbackModels)
	assert.Equal(t, 3, cfg.Gemini.MaxRetries)
	assert.Equal(t, 100, cfg.Fetch.CommentLimit)
	assert.Equal(t, 50, cfg.Fetch.PostLimit)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing reddit client id", "REDDIT_CLIENT_ID"},
		{"missing reddit secret", "REDDIT_CLIENT_SECRET"},
		{"missing user agent", "REDDIT_USER_AGENT"},
		{"missing gemini key", "GEMINI_API_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := Load("does-not-exist.env", testLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.unset)
		})
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_MAX_RETRIES", "0")

	_, err := Load("does-not-exist.env", testLogger())
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
}
