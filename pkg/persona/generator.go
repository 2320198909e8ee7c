// Package persona orchestrates the acquisition-and-generation pipeline:
// resolve a Reddit account, collect its activity, summarize it, and ask
// Gemini for a citation-backed persona document.
package persona

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Divyaprakash17/persona-generator/pkg/gemini"
	"github.com/Divyaprakash17/persona-generator/pkg/httpcache"
	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
	"github.com/Divyaprakash17/persona-generator/pkg/summary"
)

// cacheTTL keeps activity fresh enough for persona work while sparing the
// request budget on reruns.
const cacheTTL = 30 * time.Minute

// Generator runs the persona pipeline. Each stage completes before the next
// begins; the only blocking points are the Reddit pacer and the two backoff
// policies, all of which honor the caller's context.
type Generator struct {
	logger *slog.Logger
	cache  *httpcache.Cache
	reddit *reddit.Client
	gemini *gemini.Client

	commentLimit int
	postLimit    int
}

// NewWithLogger creates a Generator with a custom logger.
func NewWithLogger(logger *slog.Logger, opts ...Option) *Generator {
	optHolder := &OptionHolder{
		geminiModel:  DefaultModel,
		maxRetries:   DefaultMaxRetries,
		commentLimit: DefaultCommentLimit,
		postLimit:    DefaultPostLimit,
	}
	for _, opt := range opts {
		opt(optHolder)
	}

	var cache *httpcache.Cache
	switch {
	case optHolder.noCache:
		logger.Info("response caching disabled")
	case optHolder.memoryCache:
		cache, _ = httpcache.NewMemoryOnly(cacheTTL, logger)
	default:
		cacheDir := optHolder.cacheDir
		if cacheDir == "" {
			if userCacheDir, err := os.UserCacheDir(); err == nil {
				cacheDir = filepath.Join(userCacheDir, "personagen")
			} else {
				logger.Debug("could not determine user cache directory", "error", err)
			}
		}
		if cacheDir != "" {
			var err error
			cache, err = httpcache.New(cacheDir, cacheTTL, logger)
			if err != nil {
				logger.Warn("cache initialization failed, continuing without cache", "error", err)
				cache = nil
			}
		}
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var cachedDo func(context.Context, *http.Request) (*http.Response, error)
	if cache != nil {
		cachedDo = httpcache.NewCachedHTTPClient(cache, httpClient, logger).Do
	}

	return &Generator{
		logger: logger,
		cache:  cache,
		reddit: reddit.NewClient(logger, httpClient, optHolder.redditCreds, cachedDo),
		gemini: gemini.NewClient(logger, gemini.Config{
			APIKey:            optHolder.geminiAPIKey,
			Model:             optHolder.geminiModel,
			FallbackModels:    optHolder.fallbackModels,
			MaxRetries:        optHolder.maxRetries,
			SystemInstruction: systemInstruction,
		}),
		commentLimit: optHolder.commentLimit,
		postLimit:    optHolder.postLimit,
	}
}

// Close flushes the response cache.
func (g *Generator) Close() error {
	if g.cache != nil {
		return g.cache.Close()
	}
	return nil
}

// Generate runs the full pipeline for one account. Account resolution
// failures surface immediately; transient fetch trouble degrades to partial
// activity; generation failures carry their classified error type.
func (g *Generator) Generate(ctx context.Context, username string) (*Persona, error) {
	profile, err := g.reddit.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}

	comments, err := g.reddit.FetchComments(ctx, profile.Username, g.commentLimit)
	if err != nil {
		return nil, err
	}
	posts, err := g.reddit.FetchPosts(ctx, profile.Username, g.postLimit)
	if err != nil {
		return nil, err
	}

	activity := summary.FormatForPrompt(*profile, comments, posts)
	prompt := buildPrompt(*profile, activity, len(comments), len(posts))

	g.logger.Info("submitting activity for persona generation",
		"username", profile.Username,
		"comments", len(comments),
		"posts", len(posts),
		"prompt_length", len(prompt))

	result, err := g.gemini.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	p := &Persona{
		Profile: *profile,
		Text:    result.Text,
		Metadata: Metadata{
			ModelUsed:        result.ModelUsed,
			GeneratedAt:      time.Now().UTC(),
			CommentsAnalyzed: len(comments),
			PostsAnalyzed:    len(posts),
		},
	}
	p.Document = renderDocument(p)
	return p, nil
}
