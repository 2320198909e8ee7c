// Package main implements the personagen CLI: it collects a Reddit user's
// public activity and generates a citation-backed persona document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/Divyaprakash17/persona-generator/pkg/gemini"
	"github.com/Divyaprakash17/persona-generator/pkg/persona"
	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

var (
	redditID      = flag.String("reddit-id", "", "Reddit API client ID (or set REDDIT_CLIENT_ID)")
	redditSecret  = flag.String("reddit-secret", "", "Reddit API client secret (or set REDDIT_CLIENT_SECRET)")
	userAgent     = flag.String("user-agent", "", "Reddit API User-Agent (or set REDDIT_USER_AGENT)")
	geminiAPIKey  = flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	geminiModel   = flag.String("gemini-model", persona.DefaultModel, "Primary Gemini model (or set GEMINI_MODEL)")
	fallbackList  = flag.String("fallback-models", "", "Comma-separated fallback models (or set GEMINI_FALLBACK_MODELS)")
	maxRetries    = flag.Int("max-retries", persona.DefaultMaxRetries, "Maximum generation attempts")
	commentLimit  = flag.Int("comments", persona.DefaultCommentLimit, "Maximum comments to analyze")
	postLimit     = flag.Int("posts", persona.DefaultPostLimit, "Maximum posts to analyze")
	envFile       = flag.String("env", ".env", "Path to .env file with credentials")
	cacheDir      = flag.String("cache-dir", "", "Response cache directory (or set CACHE_DIR)")
	noCache       = flag.Bool("no-cache", false, "Disable response caching")
	outFile       = flag.String("o", "", "Write the persona document to this file as well")
	verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	version       = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("personagen v1.0.0")
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <reddit-username>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	username := args[0]

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// A missing .env is fine; flags and the process environment still apply.
	if err := godotenv.Load(*envFile); err != nil {
		logger.Debug("no .env file loaded", "path", *envFile, "error", err)
	}

	fillFromEnv(redditID, "REDDIT_CLIENT_ID")
	fillFromEnv(redditSecret, "REDDIT_CLIENT_SECRET")
	fillFromEnv(userAgent, "REDDIT_USER_AGENT")
	fillFromEnv(geminiAPIKey, "GEMINI_API_KEY")
	fillFromEnv(cacheDir, "CACHE_DIR")
	if *geminiModel == persona.DefaultModel && os.Getenv("GEMINI_MODEL") != "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	fillFromEnv(fallbackList, "GEMINI_FALLBACK_MODELS")

	for _, required := range []struct{ value, name string }{
		{*redditID, "Reddit client ID"},
		{*redditSecret, "Reddit client secret"},
		{*userAgent, "Reddit User-Agent"},
		{*geminiAPIKey, "Gemini API key"},
	} {
		if required.value == "" {
			fmt.Fprintf(os.Stderr, "Error: %s is not configured (see -h)\n", required.name)
			os.Exit(1)
		}
	}

	opts := []persona.Option{
		persona.WithRedditCredentials(*redditID, *redditSecret, *userAgent),
		persona.WithGeminiAPIKey(*geminiAPIKey),
		persona.WithGeminiModel(*geminiModel),
		persona.WithFallbackModels(splitModels(*fallbackList)),
		persona.WithMaxRetries(*maxRetries),
		persona.WithCommentLimit(*commentLimit),
		persona.WithPostLimit(*postLimit),
	}
	if *noCache {
		opts = append(opts, persona.WithNoCache())
	} else if *cacheDir != "" {
		opts = append(opts, persona.WithCacheDir(*cacheDir))
	}

	generator := persona.NewWithLogger(logger, opts...)
	defer func() {
		if err := generator.Close(); err != nil {
			logger.Error("failed to close generator", "error", err)
		}
	}()

	ctx := context.Background()
	result, err := generator.Generate(ctx, username)
	if err != nil {
		fail(logger, err)
	}

	printDocument(result)

	if *outFile != "" {
		if err := os.WriteFile(*outFile, []byte(result.Document), 0o644); err != nil {
			logger.Error("failed to write persona file", "path", *outFile, "error", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "\nPersona written to %s\n", *outFile)
	}
}

// fail prints a human-readable message for the known failure modes and exits.
func fail(logger *slog.Logger, err error) {
	var rateLimited *gemini.RateLimitError
	switch {
	case errors.Is(err, reddit.ErrAccountNotFound),
		errors.Is(err, reddit.ErrAccountForbidden),
		errors.Is(err, reddit.ErrAuthenticationFailed):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	case errors.As(err, &rateLimited):
		fmt.Fprintf(os.Stderr, "Error: %v\n", rateLimited)
	default:
		logger.Error("persona generation failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func printDocument(p *persona.Persona) {
	banner := color.New(color.FgCyan, color.Bold)
	meta := color.New(color.FgHiBlack)

	banner.Printf("\nREDDIT USER PERSONA: u/%s\n", p.Profile.Username)
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()
	fmt.Println(p.Text)
	fmt.Println()
	fmt.Println(strings.Repeat("─", 50))
	meta.Printf("Generated using %s at %s\n", p.Metadata.ModelUsed, p.Metadata.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	meta.Printf("Comments analyzed: %d  Posts analyzed: %d\n", p.Metadata.CommentsAnalyzed, p.Metadata.PostsAnalyzed)
}

func fillFromEnv(value *string, key string) {
	if *value == "" {
		*value = os.Getenv(key)
	}
}

func splitModels(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}
