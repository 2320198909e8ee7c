package persona

import (
	"time"

	"github.com/Divyaprakash17/persona-generator/pkg/reddit"
)

// Defaults for a Generator. The limits match what a persona prompt can
// usefully absorb; the summarizer trims further.
const (
	DefaultModel        = "gemini-1.5-flash"
	DefaultMaxRetries   = 3
	DefaultCommentLimit = 100
	DefaultPostLimit    = 50
)

// Metadata describes how a persona was produced.
type Metadata struct {
	GeneratedAt      time.Time `json:"generated_at"`
	ModelUsed        string    `json:"model_used"`
	CommentsAnalyzed int       `json:"comments_analyzed"`
	PostsAnalyzed    int       `json:"posts_analyzed"`
}

// Persona is the final artifact: the generated text, the rendered document,
// and run metadata. Immutable once returned.
type Persona struct {
	Profile  reddit.AccountProfile `json:"profile"`
	Text     string                `json:"persona_text"`
	Document string                `json:"document"`
	Metadata Metadata              `json:"metadata"`
}

// Option configures a Generator.
type Option func(*OptionHolder)

// OptionHolder collects Generator options.
type OptionHolder struct {
	redditCreds    reddit.Credentials
	geminiAPIKey   string
	geminiModel    string
	fallbackModels []string
	maxRetries     int
	commentLimit   int
	postLimit      int
	cacheDir       string
	noCache        bool
	memoryCache    bool
}

// WithRedditCredentials sets the app-only OAuth credentials.
func WithRedditCredentials(clientID, clientSecret, userAgent string) Option {
	return func(o *OptionHolder) {
		o.redditCreds = reddit.Credentials{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			UserAgent:    userAgent,
		}
	}
}

// WithGeminiAPIKey sets the Gemini API key.
func WithGeminiAPIKey(key string) Option {
	return func(o *OptionHolder) {
		o.geminiAPIKey = key
	}
}

// WithGeminiModel sets the primary generation model.
func WithGeminiModel(model string) Option {
	return func(o *OptionHolder) {
		o.geminiModel = model
	}
}

// WithFallbackModels sets the models tried after retryable failures.
func WithFallbackModels(models []string) Option {
	return func(o *OptionHolder) {
		o.fallbackModels = models
	}
}

// WithMaxRetries bounds the generation attempt count.
func WithMaxRetries(n int) Option {
	return func(o *OptionHolder) {
		o.maxRetries = n
	}
}

// WithCommentLimit caps how many comments are collected.
func WithCommentLimit(n int) Option {
	return func(o *OptionHolder) {
		o.commentLimit = n
	}
}

// WithPostLimit caps how many posts are collected.
func WithPostLimit(n int) Option {
	return func(o *OptionHolder) {
		o.postLimit = n
	}
}

// WithCacheDir sets a custom response cache directory.
func WithCacheDir(dir string) Option {
	return func(o *OptionHolder) {
		o.cacheDir = dir
	}
}

// WithNoCache disables response caching entirely.
func WithNoCache() Option {
	return func(o *OptionHolder) {
		o.noCache = true
	}
}

// WithMemoryCache uses a memory-only response cache (for the server).
func WithMemoryCache() Option {
	return func(o *OptionHolder) {
		o.memoryCache = true
	}
}
